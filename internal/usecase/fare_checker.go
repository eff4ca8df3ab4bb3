package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/metrics"
)

// CheckFaresOption selects which flights count when looking for a lower fare
type CheckFaresOption string

const (
	CheckFaresNo             CheckFaresOption = "no"
	CheckFaresSameFlight     CheckFaresOption = "same_flight"
	CheckFaresSameDayNonstop CheckFaresOption = "same_day_nonstop"
	CheckFaresSameDay        CheckFaresOption = "same_day"
)

// FareFilter reports whether a flight card is eligible for fare comparison
type FareFilter func(flight *entity.Flight, card *entity.FlightCard) bool

// SameFlightFilter matches only the exact flight on the reservation
func SameFlightFilter(flight *entity.Flight, card *entity.FlightCard) bool {
	return card.FlightNumbers == flight.FlightNumber
}

// NonstopFlightFilter matches any nonstop flight on the same day
func NonstopFlightFilter(flight *entity.Flight, card *entity.FlightCard) bool {
	return card.StopDescription == "Nonstop"
}

// AnyFlightFilter matches every flight on the same day
func AnyFlightFilter(flight *entity.Flight, card *entity.FlightCard) bool {
	return true
}

// GetFareCheckFilter maps a configured option to its filter
func GetFareCheckFilter(option CheckFaresOption) (FareFilter, error) {
	switch option {
	case CheckFaresSameFlight:
		return SameFlightFilter, nil
	case CheckFaresSameDayNonstop:
		return NonstopFlightFilter, nil
	case CheckFaresSameDay:
		return AnyFlightFilter, nil
	}
	return nil, fmt.Errorf("unknown check fares option %q", option)
}

// FareChecker monitors tracked flights for price drops by walking the
// airline's flight-change and change-shopping pages.
type FareChecker struct {
	reservationRepo  repository.ReservationRepository
	fareRepo         repository.FareRepository
	notificationRepo repository.NotificationRepository
	logger           logger.Logger
	metrics          *metrics.Metrics
	filter           FareFilter
}

// NewFareChecker creates a new fare checker
func NewFareChecker(
	reservationRepo repository.ReservationRepository,
	fareRepo repository.FareRepository,
	notificationRepo repository.NotificationRepository,
	log logger.Logger,
	m *metrics.Metrics,
	filter FareFilter,
) *FareChecker {
	return &FareChecker{
		reservationRepo:  reservationRepo,
		fareRepo:         fareRepo,
		notificationRepo: notificationRepo,
		logger:           log,
		metrics:          m,
		filter:           filter,
	}
}

// CheckFlightPrice checks one flight for a lower fare and notifies when the
// price dropped. Unchangeable reservations (companion attached, no change
// link) are skipped quietly.
func (c *FareChecker) CheckFlightPrice(ctx context.Context, flight *entity.Flight) error {
	price, err := c.getFlightPrice(ctx, flight)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotChangeable) {
			c.logger.Debug("Skipping fare check",
				"flight", flight.FlightNumber,
				"reason", err)
			return nil
		}
		return err
	}

	// A -1 fare is a false positive from the airline and is treated as a
	// higher fare
	if price.Amount < -1 {
		c.logger.Info("Lower fare found",
			"flight", flight.FlightNumber,
			"amount", price.Amount,
			"currencyCode", price.CurrencyCode)
		if c.metrics != nil {
			c.metrics.LowerFares.Inc()
		}
		return c.notificationRepo.LowerFare(ctx, flight, price)
	}

	return nil
}

func (c *FareChecker) getFlightPrice(ctx context.Context, flight *entity.Flight) (entity.Price, error) {
	cards, fareType, err := c.getMatchingFlights(ctx, flight)
	if err != nil {
		return entity.Price{}, err
	}
	return c.getLowestFare(flight, cards, fareType), nil
}

// getMatchingFlights retrieves the shopping cards for the bound the flight
// belongs to along with the fare type originally purchased for that bound
func (c *FareChecker) getMatchingFlights(ctx context.Context, flight *entity.Flight) ([]entity.FlightCard, string, error) {
	reservation, err := c.reservationRepo.GetReservation(ctx, flight.ConfirmationNumber)
	if err != nil {
		return nil, "", err
	}

	changePage, err := c.fareRepo.GetChangeFlightPage(ctx, reservation)
	if err != nil {
		return nil, "", err
	}

	query, err := c.getSearchQuery(changePage, flight)
	if err != nil {
		return nil, "", err
	}

	// The bound being changed selects both the result page and the fare type
	// to compare against. Neither bound matching means the airline changed
	// its flight number formatting.
	boundIndex := -1
	if bound, ok := query["outbound"]; ok && bound.IsChangeBound {
		boundIndex = 0
	} else if bound, ok := query["inbound"]; ok && bound.IsChangeBound {
		boundIndex = 1
	}
	if boundIndex < 0 {
		return nil, "", fmt.Errorf("no reservation bound matches flight %s", flight.FlightNumber)
	}

	fareType := ""
	if boundIndex < len(reservation.Bounds) && reservation.Bounds[boundIndex].FareProductDetails != nil {
		fareType = reservation.Bounds[boundIndex].FareProductDetails.FareProductID
	}

	shoppingPage, err := c.fareRepo.GetShoppingPage(ctx, changePage.Links.ChangeShopping.Href, query)
	if err != nil {
		return nil, "", err
	}

	cards := shoppingPage.OutboundPage.Cards
	if boundIndex == 1 {
		cards = shoppingPage.InboundPage.Cards
	}

	return cards, fareType, nil
}

// getSearchQuery builds the change-shopping request: every bound of the
// reservation keyed outbound/inbound, with the bound the flight belongs to
// marked as the change bound
func (c *FareChecker) getSearchQuery(changePage *entity.ChangeFlightPage, flight *entity.Flight) (map[string]entity.BoundQuery, error) {
	if changePage.Links == nil || changePage.Links.ChangeShopping == nil {
		return nil, fmt.Errorf("change flight page has no shopping link")
	}

	references := changePage.Links.ChangeShopping.Body
	query := make(map[string]entity.BoundQuery, len(changePage.BoundSelections))

	for i, selection := range changePage.BoundSelections {
		name := "outbound"
		if i == 1 {
			name = "inbound"
		}

		reference := ""
		if i < len(references) {
			reference = references[i].BoundReference
		}

		query[name] = entity.BoundQuery{
			BoundReference:     reference,
			Date:               selection.OriginalDate,
			DestinationAirport: selection.ToAirportCode,
			OriginAirport:      selection.FromAirportCode,
			IsChangeBound:      selection.Flight == flight.FlightNumber,
		}
	}

	return query, nil
}

// getLowestFare returns the lowest fare among the cards passing the filter.
// No matching fare yields a zero price so no notification fires.
func (c *FareChecker) getLowestFare(flight *entity.Flight, cards []entity.FlightCard, fareType string) entity.Price {
	lowest := entity.Price{Amount: 0, CurrencyCode: "USD"}
	found := false

	for i := range cards {
		card := &cards[i]
		if !c.filter(flight, card) {
			continue
		}

		price, ok := c.getMatchingFare(card.Fares, fareType)
		if !ok {
			continue
		}

		if !found || price.Amount < lowest.Amount {
			lowest = price
			found = true
		}
	}

	return lowest
}

// getMatchingFare finds the fare of the purchased fare type on a card
func (c *FareChecker) getMatchingFare(fares []entity.Fare, fareType string) (entity.Price, bool) {
	for _, fare := range fares {
		if fare.Meta.FareProductID != fareType || fare.PriceDifference == nil {
			continue
		}

		price, err := fare.PriceDifference.Parse()
		if err != nil {
			c.logger.Error("Failed to parse fare price", "error", err)
			continue
		}
		return price, true
	}
	return entity.Price{}, false
}
