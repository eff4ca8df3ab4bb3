package entity

import (
	"fmt"
	"strings"
	"time"
)

// Flight is one normalized flight leg parsed from a reservation bound.
// IsSameDay and Reservation are the only fields mutated after construction:
// IsSameDay is derived during retrieval, Reservation is refreshed whenever a
// matching flight is retrieved again.
type Flight struct {
	FlightNumber       string
	ConfirmationNumber string
	DepartureAirport   Airport
	ArrivalAirport     Airport
	DepartureTime      time.Time
	IsSameDay          bool
	Reservation        *Reservation
}

const boundTimeLayout = "2006-01-02 15:04"

// NewFlight builds a Flight from a reservation bound. The departure time is
// parsed in the departure airport's local zone and stored in UTC; construction
// fails when the bound carries no departure instant or it cannot be parsed.
func NewFlight(bound *Bound, reservation *Reservation, confirmation string, departureLoc *time.Location) (*Flight, error) {
	if departureLoc == nil {
		return nil, fmt.Errorf("no timezone resolved for airport %q", bound.DepartureAirport.Code)
	}
	if bound.DepartureDate == "" || bound.DepartureTime == "" {
		return nil, fmt.Errorf("bound for airport %q has no departure time", bound.DepartureAirport.Code)
	}

	departure, err := time.ParseInLocation(boundTimeLayout, bound.DepartureDate+" "+bound.DepartureTime, departureLoc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse departure time: %w", err)
	}

	numbers := make([]string, 0, len(bound.Flights))
	for _, f := range bound.Flights {
		numbers = append(numbers, f.Number)
	}

	return &Flight{
		FlightNumber:       strings.Join(numbers, "/"),
		ConfirmationNumber: confirmation,
		DepartureAirport:   bound.DepartureAirport,
		ArrivalAirport:     bound.ArrivalAirport,
		DepartureTime:      departure.UTC(),
		Reservation:        reservation,
	}, nil
}

// Matches reports whether two flights are the same flight. The flight number
// is the primary discriminator; the departure airport and instant disambiguate
// renumbered or rebooked legs.
func (f *Flight) Matches(other *Flight) bool {
	return f.FlightNumber == other.FlightNumber &&
		f.DepartureAirport.Code == other.DepartureAirport.Code &&
		f.DepartureTime.Equal(other.DepartureTime)
}

// Key returns a stable identity string for record keeping
func (f *Flight) Key() string {
	return fmt.Sprintf("%s:%s:%s", f.FlightNumber, f.DepartureAirport.Code, f.DepartureTime.UTC().Format(time.RFC3339))
}

// DisplayTime formats the departure instant for logs and notifications
func (f *Flight) DisplayTime() string {
	return f.DepartureTime.UTC().Format("2006-01-02 15:04 MST")
}
