package usecase

import (
	"context"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
)

// ReservationMonitor drives the scheduling engine: it owns the polling
// cadence and invokes one reconciliation pass (plus fare checks) per tick.
// The engine itself never polls on its own.
type ReservationMonitor struct {
	scheduler           *CheckInScheduler
	fareChecker         *FareChecker // optional
	confirmationNumbers []string
	interval            time.Duration
	logger              logger.Logger
}

// NewReservationMonitor creates a new monitor
func NewReservationMonitor(
	scheduler *CheckInScheduler,
	fareChecker *FareChecker,
	confirmationNumbers []string,
	interval time.Duration,
	log logger.Logger,
) *ReservationMonitor {
	return &ReservationMonitor{
		scheduler:           scheduler,
		fareChecker:         fareChecker,
		confirmationNumbers: confirmationNumbers,
		interval:            interval,
		logger:              log,
	}
}

// Start runs the monitor until the context is cancelled. The first pass runs
// immediately.
func (m *ReservationMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Reservation monitor stopped")
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *ReservationMonitor) runOnce(ctx context.Context) {
	m.logger.Info("Processing reservations", "count", len(m.confirmationNumbers))
	m.scheduler.ProcessReservations(ctx, m.confirmationNumbers)

	if m.fareChecker == nil {
		return
	}

	for _, flight := range m.scheduler.TrackedFlights() {
		if err := m.fareChecker.CheckFlightPrice(ctx, flight); err != nil {
			m.logger.Error("Fare check failed",
				"flight", flight.FlightNumber,
				"error", err)
		}
	}
}
