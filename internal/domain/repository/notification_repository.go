package repository

import (
	"context"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// NotificationRepository defines the interface for the notification sink
type NotificationRepository interface {
	NewFlights(ctx context.Context, flights []*entity.Flight) error
	FailedReservationRetrieval(ctx context.Context, confirmationNumber string, reason error) error
	SuccessfulCheckIn(ctx context.Context, flight *entity.Flight) error
	FailedCheckIn(ctx context.Context, flight *entity.Flight, reason error) error
	LowerFare(ctx context.Context, flight *entity.Flight, price entity.Price) error
}
