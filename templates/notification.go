package templates

import (
	"fmt"
	"strings"

	"github.com/chriseckman/auto-southwest-check-in/internal/domain/entity"
)

// Message templates for notification events. The notification repository
// renders these before posting the event to the webhook.

// NewFlightsMessage describes a batch of newly scheduled flights
func NewFlightsMessage(flights []*entity.Flight) string {
	lines := make([]string, 0, len(flights)+1)
	lines = append(lines, fmt.Sprintf("Scheduled check-in for %d new flight(s):", len(flights)))
	for _, flight := range flights {
		lines = append(lines, fmt.Sprintf("- Flight %s from %s to %s departing %s",
			flight.FlightNumber,
			flight.DepartureAirport.Name,
			flight.ArrivalAirport.Name,
			flight.DisplayTime()))
	}
	return strings.Join(lines, "\n")
}

// FailedRetrievalMessage describes a reservation that could not be retrieved
func FailedRetrievalMessage(confirmationNumber string, reason error) string {
	return fmt.Sprintf("Failed to retrieve reservation %s. Check-ins will not be scheduled: %v",
		confirmationNumber, reason)
}

// CheckInSuccessMessage describes a completed check-in
func CheckInSuccessMessage(flight *entity.Flight) string {
	return fmt.Sprintf("Successfully checked in for flight %s from %s departing %s",
		flight.FlightNumber, flight.DepartureAirport.Name, flight.DisplayTime())
}

// CheckInFailedMessage describes a check-in attempt that failed
func CheckInFailedMessage(flight *entity.Flight, reason error) string {
	return fmt.Sprintf("Failed to check in for flight %s from %s departing %s: %v",
		flight.FlightNumber, flight.DepartureAirport.Name, flight.DisplayTime(), reason)
}

// LowerFareMessage describes a fare drop on a tracked flight
func LowerFareMessage(flight *entity.Flight, price entity.Price) string {
	return fmt.Sprintf("Lower fare found for flight %s from %s to %s: %s",
		flight.FlightNumber,
		flight.DepartureAirport.Name,
		flight.ArrivalAirport.Name,
		price)
}
