package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/utils"
)

const (
	viewReservationPath = "/mobile-air-booking/v1/mobile-air-booking/page/view-reservation"
	checkInPath         = "/mobile-air-operations/v1/mobile-air-operations/page/check-in"
)

var (
	_ repository.ReservationRepository = (*SouthwestRepository)(nil)
	_ repository.CheckInRepository     = (*SouthwestRepository)(nil)
	_ repository.FareRepository        = (*SouthwestRepository)(nil)
)

// SouthwestRepository talks to the airline's mobile API. It implements the
// reservation retrieval, check-in and fare shopping contracts with one shared
// HTTP client.
type SouthwestRepository struct {
	logger    logger.Logger
	client    *http.Client
	baseURL   string
	firstName string
	lastName  string
	headers   map[string]string
}

// NewSouthwestRepository creates a new airline API repository
func NewSouthwestRepository(log logger.Logger, baseURL, firstName, lastName string) *SouthwestRepository {
	return &SouthwestRepository{
		logger:    log,
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		firstName: firstName,
		lastName:  lastName,
		headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		},
	}
}

// GetReservation retrieves the current reservation for a confirmation number
func (r *SouthwestRepository) GetReservation(ctx context.Context, confirmationNumber string) (*entity.Reservation, error) {
	reqURL := fmt.Sprintf("%s%s/%s?first-name=%s&last-name=%s",
		r.baseURL, viewReservationPath, confirmationNumber,
		url.QueryEscape(r.firstName), url.QueryEscape(r.lastName))

	var response struct {
		ViewReservationViewPage entity.Reservation `json:"viewReservationViewPage"`
	}
	if err := utils.MakeRequest(ctx, r.client, http.MethodGet, reqURL, r.headers, nil, &response); err != nil {
		return nil, err
	}

	r.logger.Debug("Retrieved reservation",
		"confirmationNumber", confirmationNumber,
		"bounds", len(response.ViewReservationViewPage.Bounds))

	return &response.ViewReservationViewPage, nil
}

// CheckIn performs the check-in call for a flight
func (r *SouthwestRepository) CheckIn(ctx context.Context, flight *entity.Flight) error {
	body := map[string]string{
		"confirmationNumber": flight.ConfirmationNumber,
		"firstName":          r.firstName,
		"lastName":           r.lastName,
	}

	var response struct {
		CheckInConfirmationPage struct {
			Title string `json:"title"`
		} `json:"checkInConfirmationPage"`
	}
	if err := utils.MakeRequest(ctx, r.client, http.MethodPost, r.baseURL+checkInPath, r.headers, body, &response); err != nil {
		return err
	}

	r.logger.Info("Check-in request accepted",
		"confirmationNumber", flight.ConfirmationNumber,
		"flight", flight.FlightNumber)

	return nil
}

// GetChangeFlightPage retrieves the change-flight page for a reservation.
// Companion reservations and reservations without a change link cannot be
// shopped and return ErrFlightNotChangeable.
func (r *SouthwestRepository) GetChangeFlightPage(ctx context.Context, reservation *entity.Reservation) (*entity.ChangeFlightPage, error) {
	if reservation.GreyBoxMessage != nil &&
		strings.Contains(strings.ToLower(reservation.GreyBoxMessage.Body), "companion") {
		return nil, fmt.Errorf("%w: companion reservation attached", repository.ErrFlightNotChangeable)
	}
	if reservation.Links == nil || reservation.Links.Change == nil {
		return nil, fmt.Errorf("%w: no change link on reservation", repository.ErrFlightNotChangeable)
	}

	var response struct {
		ChangeFlightPage entity.ChangeFlightPage `json:"changeFlightPage"`
	}
	reqURL := r.baseURL + "/mobile-air-booking" + reservation.Links.Change.Href
	if err := utils.MakeRequest(ctx, r.client, http.MethodGet, reqURL, r.headers, nil, &response); err != nil {
		return nil, err
	}

	return &response.ChangeFlightPage, nil
}

// GetShoppingPage retrieves the change-shopping page matching a search query
func (r *SouthwestRepository) GetShoppingPage(ctx context.Context, href string, query map[string]entity.BoundQuery) (*entity.ShoppingPage, error) {
	var response struct {
		ChangeShoppingPage struct {
			Flights entity.ShoppingPage `json:"flights"`
		} `json:"changeShoppingPage"`
	}
	reqURL := r.baseURL + "/mobile-air-booking" + href
	if err := utils.MakeRequest(ctx, r.client, http.MethodPost, reqURL, r.headers, query, &response); err != nil {
		return nil, err
	}

	return &response.ChangeShoppingPage.Flights, nil
}
