package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/metrics"
	"github.com/chriseckman/auto-southwest-check-in/pkg/utils"
)

// sameDayWindow is the rolling window within which a later flight counts as a
// same-day connection of an earlier one. The boundary is inclusive.
const sameDayWindow = 24 * time.Hour

// CheckInScheduler reconciles the live reservation set against the flights it
// already tracks: matching flights get their reservation payload refreshed in
// place, unseen flights get a check-in handler, and flights that disappeared
// get their handler stopped and are dropped. The flights and checkinHandlers
// registries always have the same length and ordering; one mutex guards both
// against concurrently firing handlers.
type CheckInScheduler struct {
	reservationRepo  repository.ReservationRepository
	checkinRepo      repository.CheckInRepository
	notificationRepo repository.NotificationRepository
	timezoneRepo     repository.TimezoneRepository
	recordRepo       repository.CheckInRecordRepository
	policy           *CheckInPolicy
	logger           logger.Logger
	metrics          *metrics.Metrics

	mu              sync.Mutex
	flights         []*entity.Flight
	checkinHandlers []*CheckInHandler
	now             func() time.Time
}

// NewCheckInScheduler creates a new scheduling engine. recordRepo and metrics
// are optional.
func NewCheckInScheduler(
	reservationRepo repository.ReservationRepository,
	checkinRepo repository.CheckInRepository,
	notificationRepo repository.NotificationRepository,
	timezoneRepo repository.TimezoneRepository,
	recordRepo repository.CheckInRecordRepository,
	policy *CheckInPolicy,
	log logger.Logger,
	m *metrics.Metrics,
) *CheckInScheduler {
	return &CheckInScheduler{
		reservationRepo:  reservationRepo,
		checkinRepo:      checkinRepo,
		notificationRepo: notificationRepo,
		timezoneRepo:     timezoneRepo,
		recordRepo:       recordRepo,
		policy:           policy,
		logger:           log,
		metrics:          m,
		now:              time.Now,
	}
}

// ProcessReservations retrieves the current flights of every reservation and
// reconciles them against the tracked set. A failed retrieval contributes zero
// flights and never aborts the other reservations. The lock covers only the
// registry reconciliation; webhook and record store calls happen after it is
// released so a slow collaborator never blocks registry readers.
func (s *CheckInScheduler) ProcessReservations(ctx context.Context, confirmationNumbers []string) {
	start := s.now()

	currentFlights := make([]*entity.Flight, 0)
	for _, confirmationNumber := range confirmationNumbers {
		currentFlights = append(currentFlights, s.getFlights(ctx, confirmationNumber)...)
	}

	s.mu.Lock()
	newFlights, removedFlights := s.updateScheduledFlights(currentFlights)
	s.mu.Unlock()

	if len(newFlights) > 0 {
		s.notificationRepo.NewFlights(ctx, newFlights)
	}
	for _, flight := range newFlights {
		s.persistRecord(ctx, flight)
	}
	for _, flight := range removedFlights {
		s.deleteRecord(ctx, flight)
	}

	if s.metrics != nil {
		s.metrics.ReconcileTime.Observe(s.now().Sub(start).Seconds())
	}
}

// TrackedFlights returns a snapshot of the currently tracked flights in
// discovery order
func (s *CheckInScheduler) TrackedFlights() []*entity.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	flights := make([]*entity.Flight, len(s.flights))
	copy(flights, s.flights)
	return flights
}

// getFlights retrieves one reservation and normalizes its bounds into
// flights. Departed flights are dropped and a leg that cannot be normalized
// only loses that one leg.
func (s *CheckInScheduler) getFlights(ctx context.Context, confirmationNumber string) []*entity.Flight {
	reservation, err := s.reservationRepo.GetReservation(ctx, confirmationNumber)
	if err != nil {
		s.handleRetrievalError(ctx, confirmationNumber, err)
		return nil
	}

	flights := make([]*entity.Flight, 0, len(reservation.Bounds))
	for i := range reservation.Bounds {
		flight, err := s.buildFlight(ctx, &reservation.Bounds[i], reservation, confirmationNumber)
		if err != nil {
			s.logger.Error("Failed to build flight from bound",
				"confirmationNumber", confirmationNumber,
				"error", err)
			continue
		}

		if !flight.DepartureTime.After(s.now()) {
			s.logger.Debug("Skipping departed flight",
				"flight", flight.FlightNumber,
				"departure", flight.DisplayTime())
			continue
		}

		s.setSameDayFlight(flight, flights)
		flights = append(flights, flight)
	}

	return flights
}

// buildFlight resolves the departure airport's timezone and constructs the
// flight entity
func (s *CheckInScheduler) buildFlight(ctx context.Context, bound *entity.Bound, reservation *entity.Reservation, confirmationNumber string) (*entity.Flight, error) {
	timezone, err := s.timezoneRepo.GetByAirportCode(ctx, bound.DepartureAirport.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone for airport %q: %w", bound.DepartureAirport.Code, err)
	}

	location, err := time.LoadLocation(timezone.TzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q for airport %q: %w", timezone.TzName, bound.DepartureAirport.Code, err)
	}

	return entity.NewFlight(bound, reservation, confirmationNumber, location)
}

// handleRetrievalError decides whether a failed retrieval is worth a
// notification. The "flights in past" code on a reservation that already has
// tracked flights just means they departed since the last pass; the same code
// on a never-scheduled reservation means it was never schedulable, which the
// user wants to know about. Every other error always notifies.
func (s *CheckInScheduler) handleRetrievalError(ctx context.Context, confirmationNumber string, err error) {
	if s.metrics != nil {
		s.metrics.RetrievalFailures.Inc()
	}

	var reqErr *utils.RequestError
	if errors.As(err, &reqErr) && reqErr.Code == utils.FlightInPastCode && s.trackedFlightCount(confirmationNumber) > 0 {
		s.logger.Debug("Reservation only has departed flights",
			"confirmationNumber", confirmationNumber)
		return
	}

	s.logger.Error("Failed to retrieve reservation",
		"confirmationNumber", confirmationNumber,
		"error", err)
	s.notificationRepo.FailedReservationRetrieval(ctx, confirmationNumber, err)
}

func (s *CheckInScheduler) trackedFlightCount(confirmationNumber string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, flight := range s.flights {
		if flight.ConfirmationNumber == confirmationNumber {
			count++
		}
	}
	return count
}

// setSameDayFlight marks a newly retrieved flight as same-day when a flight
// retrieved earlier in this same pass departs before it and at most 24 hours
// earlier
func (s *CheckInScheduler) setSameDayFlight(newFlight *entity.Flight, previousFlights []*entity.Flight) {
	for _, previous := range previousFlights {
		if !previous.DepartureTime.Before(newFlight.DepartureTime) {
			continue
		}
		if newFlight.DepartureTime.Sub(previous.DepartureTime) <= sameDayWindow {
			newFlight.IsSameDay = true
			return
		}
	}
}

// updateScheduledFlights reconciles the freshly retrieved flights against the
// tracked set. Refresh must happen before removal so a flight present in both
// sets is never treated as removed and re-added. Caller holds s.mu; the newly
// scheduled and removed flights are returned so notifications and record
// writes can run without the lock.
func (s *CheckInScheduler) updateScheduledFlights(currentFlights []*entity.Flight) (newFlights, removedFlights []*entity.Flight) {
	newFlights = make([]*entity.Flight, 0)
	for _, current := range currentFlights {
		if tracked := s.findTracked(current); tracked != nil {
			// Reservation payloads change even when the flight itself has
			// not; the tracked flight keeps the latest one
			tracked.Reservation = current.Reservation
		} else {
			newFlights = append(newFlights, current)
		}
	}

	s.scheduleFlights(newFlights)
	removedFlights = s.removeOldFlights(currentFlights)
	return newFlights, removedFlights
}

func (s *CheckInScheduler) findTracked(flight *entity.Flight) *entity.Flight {
	for _, tracked := range s.flights {
		if tracked.Matches(flight) {
			return tracked
		}
	}
	return nil
}

// scheduleFlights starts a check-in handler for every new flight. Arming the
// timer is in-process work, so it stays under the lock. Caller holds s.mu.
func (s *CheckInScheduler) scheduleFlights(newFlights []*entity.Flight) {
	for _, flight := range newFlights {
		handler := NewCheckInHandler(flight, s.checkinRepo, s.notificationRepo, s.policy, s.logger, s.metrics)
		handler.ScheduleCheckIn()

		s.flights = append(s.flights, flight)
		s.checkinHandlers = append(s.checkinHandlers, handler)

		if s.metrics != nil {
			s.metrics.CheckInsScheduled.Inc()
		}
	}
}

// removeOldFlights drops every tracked flight absent from the survivor list,
// stopping its handler first, and returns the removed flights. Caller holds
// s.mu.
func (s *CheckInScheduler) removeOldFlights(currentFlights []*entity.Flight) []*entity.Flight {
	keptFlights := make([]*entity.Flight, 0, len(s.flights))
	keptHandlers := make([]*CheckInHandler, 0, len(s.checkinHandlers))
	removedFlights := make([]*entity.Flight, 0)

	for i, tracked := range s.flights {
		if containsFlight(currentFlights, tracked) {
			keptFlights = append(keptFlights, tracked)
			keptHandlers = append(keptHandlers, s.checkinHandlers[i])
			continue
		}

		s.checkinHandlers[i].StopCheckIn()
		removedFlights = append(removedFlights, tracked)

		if s.metrics != nil {
			s.metrics.FlightsRemoved.Inc()
		}
		s.logger.Info("Removed flight from scheduler",
			"flight", tracked.FlightNumber,
			"confirmationNumber", tracked.ConfirmationNumber,
			"departure", tracked.DisplayTime())
	}

	s.flights = keptFlights
	s.checkinHandlers = keptHandlers
	return removedFlights
}

func containsFlight(flights []*entity.Flight, flight *entity.Flight) bool {
	for _, f := range flights {
		if f.Matches(flight) {
			return true
		}
	}
	return false
}

func (s *CheckInScheduler) persistRecord(ctx context.Context, flight *entity.Flight) {
	if s.recordRepo == nil {
		return
	}

	record := &entity.CheckInRecord{
		FlightKey:          flight.Key(),
		ConfirmationNumber: flight.ConfirmationNumber,
		FlightNumber:       flight.FlightNumber,
		DepartureAirport:   flight.DepartureAirport.Code,
		ArrivalAirport:     flight.ArrivalAirport.Code,
		DepartureUTC:       flight.DepartureTime,
		CheckInUTC:         s.policy.CheckInTime(flight.DepartureTime, flight.IsSameDay),
		IsSameDay:          flight.IsSameDay,
	}
	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		s.logger.Error("Failed to persist check-in record",
			"flightKey", record.FlightKey,
			"error", err)
	}
}

func (s *CheckInScheduler) deleteRecord(ctx context.Context, flight *entity.Flight) {
	if s.recordRepo == nil {
		return
	}

	if err := s.recordRepo.DeleteByFlightKey(ctx, flight.Key()); err != nil {
		s.logger.Error("Failed to delete check-in record",
			"flightKey", flight.Key(),
			"error", err)
	}
}
