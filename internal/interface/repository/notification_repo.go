package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/utils"
	"github.com/chriseckman/auto-southwest-check-in/templates"
)

// WebhookNotificationRepository posts structured events to a notification
// webhook. With no webhook configured every event is a logged no-op.
type WebhookNotificationRepository struct {
	logger     logger.Logger
	client     *http.Client
	webhookURL string
}

// NewWebhookNotificationRepository creates a new notification repository
func NewWebhookNotificationRepository(log logger.Logger, webhookURL string) *WebhookNotificationRepository {
	return &WebhookNotificationRepository{
		logger:     log,
		client:     &http.Client{Timeout: 30 * time.Second},
		webhookURL: webhookURL,
	}
}

// NewFlights notifies about a batch of newly scheduled flights
func (r *WebhookNotificationRepository) NewFlights(ctx context.Context, flights []*entity.Flight) error {
	numbers := make([]string, 0, len(flights))
	for _, flight := range flights {
		numbers = append(numbers, flight.FlightNumber)
	}

	return r.send(ctx, &entity.Notification{
		Type: entity.EventNewFlights,
		Text: templates.NewFlightsMessage(flights),
		Metadata: map[string]interface{}{
			"flightNumbers": numbers,
		},
		CreatedAt: time.Now(),
	})
}

// FailedReservationRetrieval notifies about a reservation that could not be
// retrieved
func (r *WebhookNotificationRepository) FailedReservationRetrieval(ctx context.Context, confirmationNumber string, reason error) error {
	return r.send(ctx, &entity.Notification{
		Type: entity.EventFailedRetrieval,
		Text: templates.FailedRetrievalMessage(confirmationNumber, reason),
		Metadata: map[string]interface{}{
			"confirmationNumber": confirmationNumber,
		},
		CreatedAt: time.Now(),
	})
}

// SuccessfulCheckIn notifies about a completed check-in
func (r *WebhookNotificationRepository) SuccessfulCheckIn(ctx context.Context, flight *entity.Flight) error {
	return r.send(ctx, &entity.Notification{
		Type: entity.EventCheckInSuccess,
		Text: templates.CheckInSuccessMessage(flight),
		Metadata: map[string]interface{}{
			"flightNumber":       flight.FlightNumber,
			"confirmationNumber": flight.ConfirmationNumber,
		},
		CreatedAt: time.Now(),
	})
}

// FailedCheckIn notifies about a check-in attempt that failed
func (r *WebhookNotificationRepository) FailedCheckIn(ctx context.Context, flight *entity.Flight, reason error) error {
	return r.send(ctx, &entity.Notification{
		Type: entity.EventCheckInFailed,
		Text: templates.CheckInFailedMessage(flight, reason),
		Metadata: map[string]interface{}{
			"flightNumber":       flight.FlightNumber,
			"confirmationNumber": flight.ConfirmationNumber,
		},
		CreatedAt: time.Now(),
	})
}

// LowerFare notifies about a fare drop on a tracked flight
func (r *WebhookNotificationRepository) LowerFare(ctx context.Context, flight *entity.Flight, price entity.Price) error {
	return r.send(ctx, &entity.Notification{
		Type: entity.EventLowerFare,
		Text: templates.LowerFareMessage(flight, price),
		Metadata: map[string]interface{}{
			"flightNumber": flight.FlightNumber,
			"amount":       price.Amount,
			"currencyCode": price.CurrencyCode,
		},
		CreatedAt: time.Now(),
	})
}

func (r *WebhookNotificationRepository) send(ctx context.Context, notification *entity.Notification) error {
	if r.webhookURL == "" {
		r.logger.Debug("No notification webhook configured, skipping event",
			"type", notification.Type)
		return nil
	}

	if err := utils.MakeRequest(ctx, r.client, http.MethodPost, r.webhookURL, nil, notification, nil); err != nil {
		r.logger.Error("Failed to post notification", "type", notification.Type, "error", err)
		return err
	}

	r.logger.Info("Posted notification", "type", notification.Type)
	return nil
}
