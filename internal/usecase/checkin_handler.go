package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
	"github.com/chriseckman/auto-southwest-check-in/internal/domain/repository"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/metrics"
)

// CheckInState is the lifecycle state of a check-in handler
type CheckInState int

const (
	StateScheduled CheckInState = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s CheckInState) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// checkInCallTimeout bounds the airline call once the timer fires.
const checkInCallTimeout = 2 * time.Minute

// CheckInHandler owns the timing and execution of one flight's check-in. It
// arms a single-shot timer at the instant the policy computes and performs the
// check-in call when it fires. The handler always reaches StateCompleted once
// running; failures of the call itself are reported through the notification
// sink, not the state machine.
type CheckInHandler struct {
	flight           *entity.Flight
	checkinRepo      repository.CheckInRepository
	notificationRepo repository.NotificationRepository
	policy           *CheckInPolicy
	logger           logger.Logger
	metrics          *metrics.Metrics

	mu    sync.Mutex
	state CheckInState
	timer *time.Timer
	now   func() time.Time
}

// NewCheckInHandler creates a handler bound to one flight
func NewCheckInHandler(
	flight *entity.Flight,
	checkinRepo repository.CheckInRepository,
	notificationRepo repository.NotificationRepository,
	policy *CheckInPolicy,
	log logger.Logger,
	m *metrics.Metrics,
) *CheckInHandler {
	return &CheckInHandler{
		flight:           flight,
		checkinRepo:      checkinRepo,
		notificationRepo: notificationRepo,
		policy:           policy,
		logger:           log,
		metrics:          m,
		now:              time.Now,
	}
}

// Flight returns the flight this handler owns
func (h *CheckInHandler) Flight() *entity.Flight {
	return h.flight
}

// State returns the current lifecycle state
func (h *CheckInHandler) State() CheckInState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// CheckInTime returns the instant the check-in will fire
func (h *CheckInHandler) CheckInTime() time.Time {
	return h.policy.CheckInTime(h.flight.DepartureTime, h.flight.IsSameDay)
}

// ScheduleCheckIn arms the single-shot timer. Instants already in the past
// fire immediately.
func (h *CheckInHandler) ScheduleCheckIn() {
	h.mu.Lock()
	defer h.mu.Unlock()

	checkInTime := h.CheckInTime()
	delay := checkInTime.Sub(h.now())
	if delay < 0 {
		delay = 0
	}

	h.state = StateScheduled
	h.timer = time.AfterFunc(delay, h.performCheckIn)

	h.logger.Info("Scheduled check-in",
		"flight", h.flight.FlightNumber,
		"confirmationNumber", h.flight.ConfirmationNumber,
		"checkinTime", checkInTime,
		"sameDay", h.flight.IsSameDay)
}

// StopCheckIn cancels the armed timer. Safe to call on an already-fired or
// already-cancelled handler.
func (h *CheckInHandler) StopCheckIn() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateScheduled {
		return
	}

	if h.timer != nil {
		h.timer.Stop()
	}
	h.state = StateCancelled

	h.logger.Info("Stopped check-in",
		"flight", h.flight.FlightNumber,
		"confirmationNumber", h.flight.ConfirmationNumber)
}

func (h *CheckInHandler) performCheckIn() {
	h.mu.Lock()
	if h.state != StateScheduled {
		// Lost the race against StopCheckIn
		h.mu.Unlock()
		return
	}
	h.state = StateRunning
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), checkInCallTimeout)
	defer cancel()

	if err := h.checkinRepo.CheckIn(ctx, h.flight); err != nil {
		h.logger.Error("Check-in failed",
			"flight", h.flight.FlightNumber,
			"confirmationNumber", h.flight.ConfirmationNumber,
			"error", err)
		if h.metrics != nil {
			h.metrics.CheckInsCompleted.WithLabelValues("failed").Inc()
		}
		h.notificationRepo.FailedCheckIn(ctx, h.flight, err)
	} else {
		h.logger.Info("Check-in completed",
			"flight", h.flight.FlightNumber,
			"confirmationNumber", h.flight.ConfirmationNumber)
		if h.metrics != nil {
			h.metrics.CheckInsCompleted.WithLabelValues("success").Inc()
		}
		h.notificationRepo.SuccessfulCheckIn(ctx, h.flight)
	}

	h.mu.Lock()
	h.state = StateCompleted
	h.mu.Unlock()
}
