// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried in BookingEvent.Kind.
const (
	KindBookingCreated   = "booking.created"
	KindBookingCancelled = "booking.cancelled"
	KindPaymentRemoved   = "payment.removed"
)

// BookingEvent is published whenever a booking changes state.  It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type BookingEvent struct {
	Kind       string   `json:"kind"`
	BookingID  uint64   `json:"booking_id"`
	UserEmail  string   `json:"user_email"`
	ShowID     uint64   `json:"show_id"`
	Status     string   `json:"status"`
	NumSeats   int      `json:"num_seats"`
	SeatIDs    []uint64 `json:"seat_ids,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}
