package entity

import "encoding/json"

// Reservation is the raw reservation payload returned by the airline API. The
// latest payload is retained on every Flight built from it: each retrieval of
// the reservation swaps a fresh payload onto the tracked flights.
type Reservation struct {
	Bounds         []Bound           `json:"bounds"`
	GreyBoxMessage *GreyBoxMessage   `json:"greyBoxMessage"`
	Links          *ReservationLinks `json:"_links"`
}

// GreyBoxMessage carries inline warnings from the airline, notably the
// companion-reservation notice that blocks flight changes.
type GreyBoxMessage struct {
	Body string `json:"body"`
}

// ReservationLinks holds the follow-up links of a reservation
type ReservationLinks struct {
	Change *Link `json:"change"`
}

// Link is a follow-up request description embedded in an API response
type Link struct {
	Href  string          `json:"href"`
	Query json.RawMessage `json:"query,omitempty"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// Bound is one leg group of a reservation (an outbound or inbound journey)
type Bound struct {
	DepartureAirport   Airport             `json:"departureAirport"`
	ArrivalAirport     Airport             `json:"arrivalAirport"`
	DepartureDate      string              `json:"departureDate"`
	DepartureTime      string              `json:"departureTime"`
	Flights            []BoundFlight       `json:"flights"`
	FareProductDetails *FareProductDetails `json:"fareProductDetails,omitempty"`
}

// BoundFlight is one flight segment within a bound
type BoundFlight struct {
	Number string `json:"number"`
}

// Airport identifies an airport in reservation payloads
type Airport struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
}
