package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFareRepo is a simple mock implementation of repository.FareRepository
type mockFareRepo struct {
	changePage    *entity.ChangeFlightPage
	changePageErr error
	shoppingPage  *entity.ShoppingPage
	shoppingErr   error
	lastHref      string
	lastQuery     map[string]entity.BoundQuery
}

func (m *mockFareRepo) GetChangeFlightPage(_ context.Context, _ *entity.Reservation) (*entity.ChangeFlightPage, error) {
	if m.changePageErr != nil {
		return nil, m.changePageErr
	}
	return m.changePage, nil
}

func (m *mockFareRepo) GetShoppingPage(_ context.Context, href string, query map[string]entity.BoundQuery) (*entity.ShoppingPage, error) {
	m.lastHref = href
	m.lastQuery = query
	if m.shoppingErr != nil {
		return nil, m.shoppingErr
	}
	return m.shoppingPage, nil
}

type fareFixture struct {
	checker          *FareChecker
	reservationRepo  *mockReservationRepo
	fareRepo         *mockFareRepo
	notificationRepo *mockNotificationRepo
	flight           *entity.Flight
}

// newFareFixture wires a one-bound reservation whose flight 100 was bought at
// the WGA fare, with one matching card on the shopping page at the given delta
func newFareFixture(amount, sign string) *fareFixture {
	reservationRepo := &mockReservationRepo{
		reservations: make(map[string]*entity.Reservation),
		errs:         make(map[string]error),
	}
	reservationRepo.reservations["AAA111"] = &entity.Reservation{
		Bounds: []entity.Bound{{
			FareProductDetails: &entity.FareProductDetails{FareProductID: "WGA"},
		}},
	}

	fareRepo := &mockFareRepo{
		changePage: &entity.ChangeFlightPage{
			BoundSelections: []entity.BoundSelection{{
				OriginalDate:    "2026-09-12",
				FromAirportCode: "MDW",
				ToAirportCode:   "DEN",
				Flight:          "100",
			}},
			Links: &entity.ChangeFlightLinks{
				ChangeShopping: &entity.ChangeShoppingLink{
					Href: "/v1/page/flights/change-shopping",
					Body: []entity.BoundReference{{BoundReference: "bound-ref-1"}},
				},
			},
		},
		shoppingPage: &entity.ShoppingPage{
			OutboundPage: entity.CardPage{Cards: []entity.FlightCard{{
				FlightNumbers:   "100",
				StopDescription: "Nonstop",
				Fares: []entity.Fare{{
					Meta:            entity.FareMeta{FareProductID: "WGA"},
					PriceDifference: &entity.PriceDifference{Amount: amount, Sign: sign, CurrencyCode: "PTS"},
				}},
			}}},
		},
	}

	notificationRepo := &mockNotificationRepo{}
	flight := flightAt(time.Now().Add(48*time.Hour), "100", "MDW")
	flight.ConfirmationNumber = "AAA111"

	checker := NewFareChecker(
		reservationRepo,
		fareRepo,
		notificationRepo,
		logger.NewNopLogger(),
		nil,
		SameFlightFilter,
	)

	return &fareFixture{
		checker:          checker,
		reservationRepo:  reservationRepo,
		fareRepo:         fareRepo,
		notificationRepo: notificationRepo,
		flight:           flight,
	}
}

func TestCheckFlightPriceNotifiesOnLowerFare(t *testing.T) {
	f := newFareFixture("3,000", "-")

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.NoError(t, err)
	require.Len(t, f.notificationRepo.lowerFares, 1)
	assert.Equal(t, entity.Price{Amount: -3000, CurrencyCode: "PTS"}, f.notificationRepo.lowerFares[0])
}

func TestCheckFlightPriceIgnoresHigherFare(t *testing.T) {
	f := newFareFixture("500", "+")

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.lowerFares)
}

func TestCheckFlightPriceIgnoresMinusOneFalsePositive(t *testing.T) {
	// The airline reports -1 for flights it cannot actually price
	f := newFareFixture("1", "-")

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.lowerFares)
}

func TestCheckFlightPriceSkipsUnchangeableReservation(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.fareRepo.changePageErr = fmt.Errorf("%w: companion reservation attached", repository.ErrFlightNotChangeable)

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.NoError(t, err)
	assert.Empty(t, f.notificationRepo.lowerFares)
}

func TestCheckFlightPricePropagatesOtherErrors(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.fareRepo.shoppingErr = errors.New("shopping page unavailable")

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.Error(t, err)
	assert.Empty(t, f.notificationRepo.lowerFares)
}

func TestCheckFlightPriceErrorsWhenNoBoundMatches(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.fareRepo.changePage.BoundSelections[0].Flight = "999"

	err := f.checker.CheckFlightPrice(context.Background(), f.flight)

	require.Error(t, err)
	assert.Empty(t, f.notificationRepo.lowerFares)
}

func TestGetSearchQueryMarksChangeBound(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.fareRepo.changePage.BoundSelections = []entity.BoundSelection{
		{OriginalDate: "2026-09-12", FromAirportCode: "MDW", ToAirportCode: "DEN", Flight: "100"},
		{OriginalDate: "2026-09-19", FromAirportCode: "DEN", ToAirportCode: "MDW", Flight: "200"},
	}
	f.fareRepo.changePage.Links.ChangeShopping.Body = []entity.BoundReference{
		{BoundReference: "bound-ref-1"},
		{BoundReference: "bound-ref-2"},
	}

	query, err := f.checker.getSearchQuery(f.fareRepo.changePage, f.flight)

	require.NoError(t, err)
	require.Len(t, query, 2)
	assert.True(t, query["outbound"].IsChangeBound)
	assert.False(t, query["inbound"].IsChangeBound)
	assert.Equal(t, "bound-ref-2", query["inbound"].BoundReference)
	assert.Equal(t, "DEN", query["outbound"].DestinationAirport)
	assert.Equal(t, "DEN", query["inbound"].OriginAirport)
}

func TestGetSearchQueryErrorsWithoutShoppingLink(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.fareRepo.changePage.Links = nil

	_, err := f.checker.getSearchQuery(f.fareRepo.changePage, f.flight)

	require.Error(t, err)
}

func TestGetMatchingFlightsUsesInboundCardsForReturnBound(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.reservationRepo.reservations["AAA111"] = &entity.Reservation{
		Bounds: []entity.Bound{
			{FareProductDetails: &entity.FareProductDetails{FareProductID: "WGA"}},
			{FareProductDetails: &entity.FareProductDetails{FareProductID: "ANY"}},
		},
	}
	f.fareRepo.changePage.BoundSelections = []entity.BoundSelection{
		{OriginalDate: "2026-09-12", FromAirportCode: "MDW", ToAirportCode: "DEN", Flight: "999"},
		{OriginalDate: "2026-09-19", FromAirportCode: "DEN", ToAirportCode: "MDW", Flight: "100"},
	}
	f.fareRepo.shoppingPage.InboundPage = entity.CardPage{Cards: []entity.FlightCard{{FlightNumbers: "300"}}}

	cards, fareType, err := f.checker.getMatchingFlights(context.Background(), f.flight)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "300", cards[0].FlightNumbers)
	assert.Equal(t, "ANY", fareType)
}

func TestGetLowestFarePicksCheapestMatchingCard(t *testing.T) {
	f := newFareFixture("3,000", "-")
	f.checker.filter = AnyFlightFilter

	cards := []entity.FlightCard{
		{FlightNumbers: "100", Fares: []entity.Fare{{
			Meta:            entity.FareMeta{FareProductID: "WGA"},
			PriceDifference: &entity.PriceDifference{Amount: "200", Sign: "-", CurrencyCode: "USD"},
		}}},
		{FlightNumbers: "200", Fares: []entity.Fare{{
			Meta:            entity.FareMeta{FareProductID: "WGA"},
			PriceDifference: &entity.PriceDifference{Amount: "800", Sign: "-", CurrencyCode: "USD"},
		}}},
		{FlightNumbers: "300", Fares: []entity.Fare{{
			Meta:            entity.FareMeta{FareProductID: "OTHER"},
			PriceDifference: &entity.PriceDifference{Amount: "9,999", Sign: "-", CurrencyCode: "USD"},
		}}},
	}

	price := f.checker.getLowestFare(f.flight, cards, "WGA")

	assert.Equal(t, entity.Price{Amount: -800, CurrencyCode: "USD"}, price)
}

func TestGetLowestFareWithoutMatchesIsZero(t *testing.T) {
	f := newFareFixture("3,000", "-")

	price := f.checker.getLowestFare(f.flight, nil, "WGA")

	assert.Equal(t, entity.Price{Amount: 0, CurrencyCode: "USD"}, price)
}

func TestFareFilters(t *testing.T) {
	flight := flightAt(time.Now(), "100", "MDW")
	sameFlight := &entity.FlightCard{FlightNumbers: "100", StopDescription: "Nonstop"}
	otherNonstop := &entity.FlightCard{FlightNumbers: "200", StopDescription: "Nonstop"}
	oneStop := &entity.FlightCard{FlightNumbers: "300", StopDescription: "1 Stop"}

	assert.True(t, SameFlightFilter(flight, sameFlight))
	assert.False(t, SameFlightFilter(flight, otherNonstop))

	assert.True(t, NonstopFlightFilter(flight, otherNonstop))
	assert.False(t, NonstopFlightFilter(flight, oneStop))

	assert.True(t, AnyFlightFilter(flight, oneStop))
}

func TestGetFareCheckFilter(t *testing.T) {
	for _, option := range []CheckFaresOption{CheckFaresSameFlight, CheckFaresSameDayNonstop, CheckFaresSameDay} {
		filter, err := GetFareCheckFilter(option)
		require.NoError(t, err)
		assert.NotNil(t, filter)
	}

	_, err := GetFareCheckFilter(CheckFaresOption("sometimes"))
	assert.Error(t, err)
}
