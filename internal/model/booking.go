package model

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.  The source data
// contains mixed-case spellings ("pending", "Pending"), so statuses
// are normalized through ParseBookingStatus before comparison and a
// known status is always written at insert time.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusPaid      BookingStatus = "Paid"
	StatusCancelled BookingStatus = "Cancelled"
)

// ParseBookingStatus maps a raw status string onto the canonical
// enum value, ignoring case.  The second return is false for
// unrecognized values.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, true
	case "paid":
		return StatusPaid, true
	case "cancelled":
		return StatusCancelled, true
	}
	return "", false
}

// Booking aggregates one or more show seats reserved for one user and
// one show.  Once allocation completes, exactly NumSeats show_seats
// rows carry this booking's ID; once the booking is Cancelled, none do.
//
// Fields:
//  ID        – primary key identifier, generated by the database.
//  Status    – Pending, Paid or Cancelled.
//  BookedAt  – when the booking row was created (UTC).
//  NumSeats  – number of seats reserved under this booking.
//  ShowID    – show the seats belong to.
//  UserEmail – user who made the booking.
type Booking struct {
	ID        uint64        // bookings.bid
	Status    BookingStatus // bookings.status
	BookedAt  time.Time     // bookings.bdatetime
	NumSeats  int           // bookings.seats
	ShowID    uint64        // bookings.sid
	UserEmail string        // bookings.email
}
