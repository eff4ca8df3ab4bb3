package repository

import (
	"context"
	"errors"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// ErrFlightNotChangeable is returned when a reservation cannot be shopped for
// fare changes, e.g. it has an attached companion reservation or no change
// link.
var ErrFlightNotChangeable = errors.New("reservation cannot be changed")

// FareRepository defines the interface for the airline's fare shopping pages
type FareRepository interface {
	GetChangeFlightPage(ctx context.Context, reservation *entity.Reservation) (*entity.ChangeFlightPage, error)
	GetShoppingPage(ctx context.Context, href string, query map[string]entity.BoundQuery) (*entity.ShoppingPage, error)
}
