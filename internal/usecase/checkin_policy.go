package usecase

import "time"

const (
	defaultCheckInOffset = 24 * time.Hour
	defaultSameDayBuffer = 5 * time.Minute
)

// CheckInPolicy computes the instant a flight's check-in should fire: the
// configured offset before departure. Same-day connecting flights are pushed
// back by a small buffer so the two check-in calls of a connection do not race
// each other.
type CheckInPolicy struct {
	Offset        time.Duration
	SameDayBuffer time.Duration
}

// NewCheckInPolicy creates a policy, falling back to the defaults for
// non-positive values
func NewCheckInPolicy(offset, sameDayBuffer time.Duration) *CheckInPolicy {
	if offset <= 0 {
		offset = defaultCheckInOffset
	}
	if sameDayBuffer <= 0 {
		sameDayBuffer = defaultSameDayBuffer
	}
	return &CheckInPolicy{
		Offset:        offset,
		SameDayBuffer: sameDayBuffer,
	}
}

// CheckInTime returns the absolute instant to fire a check-in
func (p *CheckInPolicy) CheckInTime(departureTime time.Time, isSameDay bool) time.Time {
	checkInTime := departureTime.Add(-p.Offset)
	if isSameDay {
		checkInTime = checkInTime.Add(p.SameDayBuffer)
	}
	return checkInTime
}
