// Package booking implements the seat allocation and booking
// orchestration core.  All mutations run inside explicit store
// transactions so that multi-step sequences are atomic with respect
// to other sessions sharing the same database.
package booking

import (
	"errors"
	"fmt"
)

// Validation failures.  Each maps to one step of the create-booking
// validation ladder so callers can report exactly which input was
// rejected and re-prompt for it.
var (
	ErrUnknownUser       = errors.New("unknown user email")
	ErrUnknownTheater    = errors.New("theater does not exist in that cinema")
	ErrUnknownShow       = errors.New("show does not exist for that movie")
	ErrShowNotPlayedHere = errors.New("show is not played at that theater")
	ErrInvalidSeatCount  = errors.New("at least one seat must be requested")
)

// Terminal failures for individual operations.
var (
	ErrPriceMismatch    = errors.New("seats are in different price tiers")
	ErrNotPaid          = errors.New("booking is not in Paid status")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSeatNotInBooking = errors.New("seat is not reserved under this booking")
)

// SeatUnavailableError reports that a requested show seat is either
// missing, bound to another booking, or was taken between check and
// write.  It carries the rejected seat so interactive callers can ask
// for a different one and retry.
type SeatUnavailableError struct {
	SeatID uint64
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("show seat %d is not available", e.SeatID)
}

// IsSeatUnavailable reports whether err is a SeatUnavailableError.
func IsSeatUnavailable(err error) bool {
	var su *SeatUnavailableError
	return errors.As(err, &su)
}
