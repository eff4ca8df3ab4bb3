package repository

import (
	"context"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// CheckInRecordRepository defines the interface for persisting scheduled
// check-ins
type CheckInRecordRepository interface {
	Upsert(ctx context.Context, record *entity.CheckInRecord) error
	DeleteByFlightKey(ctx context.Context, flightKey string) error
}
