package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func startMonitor(t *testing.T, monitor *ReservationMonitor) (context.CancelFunc, chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitor.Start(ctx)
		close(done)
	}()
	return cancel, done
}

func waitForStop(t *testing.T, cancel context.CancelFunc, done chan struct{}) {
	t.Helper()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestMonitorRunsFirstPassImmediately(t *testing.T) {
	f := newSchedulerFixture()
	departure := time.Now().Add(48 * time.Hour)
	f.reservationRepo.reservations["AAA111"] = &entity.Reservation{
		Bounds: []entity.Bound{boundAt(departure, "100", "MDW")},
	}

	// A one-hour interval guarantees no tick fires during the test
	monitor := NewReservationMonitor(f.scheduler, nil, []string{"AAA111"}, time.Hour, logger.NewNopLogger())
	cancel, done := startMonitor(t, monitor)

	waitFor(t, func() bool { return f.reservationRepo.callCount() == 1 },
		"first pass did not run before the first tick")
	assert.Len(t, f.scheduler.TrackedFlights(), 1)

	waitForStop(t, cancel, done)
}

func TestMonitorReconcilesOnEveryTick(t *testing.T) {
	f := newSchedulerFixture()

	monitor := NewReservationMonitor(f.scheduler, nil, []string{"AAA111"}, 10*time.Millisecond, logger.NewNopLogger())
	cancel, done := startMonitor(t, monitor)

	waitFor(t, func() bool { return f.reservationRepo.callCount() >= 3 },
		"reconciliation did not recur on ticks")

	waitForStop(t, cancel, done)
}

func TestMonitorChecksFaresForTrackedFlights(t *testing.T) {
	f := newSchedulerFixture()
	departure := time.Now().Add(48 * time.Hour)
	reservation := &entity.Reservation{
		Bounds: []entity.Bound{boundAt(departure, "100", "MDW")},
	}
	reservation.Bounds[0].FareProductDetails = &entity.FareProductDetails{FareProductID: "WGA"}
	f.reservationRepo.reservations["AAA111"] = reservation

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
				FlightNumbers: "100",
				Fares: []entity.Fare{{
					Meta:            entity.FareMeta{FareProductID: "WGA"},
					PriceDifference: &entity.PriceDifference{Amount: "3,000", Sign: "-", CurrencyCode: "PTS"},
				}},
			}}},
		},
	}
	checker := NewFareChecker(f.reservationRepo, fareRepo, f.notificationRepo, logger.NewNopLogger(), nil, SameFlightFilter)

	monitor := NewReservationMonitor(f.scheduler, checker, []string{"AAA111"}, 10*time.Millisecond, logger.NewNopLogger())
	cancel, done := startMonitor(t, monitor)

	// Reconcile schedules the flight, then the fare check finds the drop
	waitFor(t, func() bool { return f.notificationRepo.lowerFareCount() >= 1 },
		"fare check did not run on the tracked flight")
	assert.Len(t, f.scheduler.TrackedFlights(), 1)

	waitForStop(t, cancel, done)
}
