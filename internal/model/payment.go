package model

import "time"

// Payment records the amount captured for one booking.  Payment rows
// are deleted when the booking is cancelled through payment removal;
// a payment never outlives a purged booking.
type Payment struct {
	ID          uint64    // payments.pid
	BookingID   uint64    // payments.bid
	Method      string    // payments.pmethod
	PaidAt      time.Time // payments.pdatetime
	AmountCents uint32    // payments.amount
}
