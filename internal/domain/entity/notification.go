package entity

import "time"

// EventType defines the type of an outbound notification
type EventType string

const (
	EventNewFlights      EventType = "new_flights"
	EventFailedRetrieval EventType = "failed_reservation_retrieval"
	EventCheckInSuccess  EventType = "checkin_success"
	EventCheckInFailed   EventType = "checkin_failed"
	EventLowerFare       EventType = "lower_fare"
)

// Notification is the structured event posted to the notification webhook
type Notification struct {
	Type      EventType              `json:"type"`
	Text      string                 `json:"text"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
