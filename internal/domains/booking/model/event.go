package model

import "time"

const (
	EventCreated    = "booking.created"
	EventCheckedIn  = "booking.checked_in"
	EventCheckedOut = "booking.checked_out"
	EventCancelled  = "booking.cancelled"
)

// Event is published to the booking events topic after a change commits.
type Event struct {
	Type           string    `json:"type"`
	BookingID      string    `json:"booking_id"`
	RoomID         string    `json:"room_id"`
	CustomerID     string    `json:"customer_id"`
	CheckInDate    string    `json:"check_in_date"`
	CheckOutDate   string    `json:"check_out_date"`
	Status         Status    `json:"status"`
	PreviousStatus Status    `json:"previous_status,omitempty"`
	RoomStatus     string    `json:"room_status,omitempty"`
	Actor          string    `json:"actor"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(eventType string, booking Booking, actor string, at time.Time) Event {
	stay := booking.Stay()

	return Event{
		Type:         eventType,
		BookingID:    booking.ID,
		RoomID:       booking.RoomID,
		CustomerID:   booking.CustomerID,
		CheckInDate:  stay.CheckInString(),
		CheckOutDate: stay.CheckOutString(),
		Status:       booking.Status,
		Actor:        actor,
		OccurredAt:   at,
	}
}
