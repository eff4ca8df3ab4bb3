package entity

import (
	"time"
)

// CheckInRecord is the persisted trace of a scheduled check-in. One document
// exists per tracked flight; it is upserted when the flight is scheduled and
// deleted when the flight leaves the reservation set.
type CheckInRecord struct {
	ID                 string    `bson:"_id,omitempty"`
	FlightKey          string    `bson:"flightKey"` // {number}:{airport}:{departure} - unique index
	ConfirmationNumber string    `bson:"confirmationNumber"`
	FlightNumber       string    `bson:"flightNumber"`
	DepartureAirport   string    `bson:"departureAirport"`
	ArrivalAirport     string    `bson:"arrivalAirport"`
	DepartureUTC       time.Time `bson:"departureUtc"`
	CheckInUTC         time.Time `bson:"checkinUtc"`
	IsSameDay          bool      `bson:"isSameDay"`
	CreatedAt          time.Time `bson:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt"`
}
