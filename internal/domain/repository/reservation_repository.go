package repository

import (
	"context"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// ReservationRepository defines the interface for retrieving reservations
// from the airline. Failures are reported as *utils.RequestError so callers
// can inspect the airline's structured error code.
type ReservationRepository interface {
	GetReservation(ctx context.Context, confirmationNumber string) (*entity.Reservation, error)
}
