package repository

import (
	"context"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// CheckInRepository defines the interface for performing the check-in call
// against the airline once a flight's check-in window opens.
type CheckInRepository interface {
	CheckIn(ctx context.Context, flight *entity.Flight) error
}
