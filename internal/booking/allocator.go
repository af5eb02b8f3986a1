package booking

import "context"

// allocateSeats binds each requested seat to the booking, in order,
// inside the supplied transaction.  Each assignment is one conditional
// write; a seat that is missing, belongs to another show, or was taken
// by a concurrent session yields a SeatUnavailableError and aborts the
// enclosing transaction without committing any partial assignment.
// It returns the number of seats assigned (equal to len(seatIDs) on
// success).
func allocateSeats(ctx context.Context, tx Tx, showID uint64, seatIDs []uint64, bookingID uint64) (int, error) {
	assigned := 0
	for _, sid := range seatIDs {
		ok, err := tx.AssignSeat(ctx, showID, sid, bookingID)
		if err != nil {
			return assigned, err
		}
		if !ok {
			return assigned, &SeatUnavailableError{SeatID: sid}
		}
		assigned++
	}
	return assigned, nil
}

// AllocateSeats assigns additional seats to an existing booking, all
// in one transaction.  It is used to complete a booking that predates
// this service and was left with fewer assigned seats than requested.
// The booking must exist and belong to the given show.
func (s *Service) AllocateSeats(ctx context.Context, showID uint64, seatIDs []uint64, bookingID uint64) (int, error) {
	if len(seatIDs) == 0 {
		return 0, ErrInvalidSeatCount
	}
	var assigned int
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		b, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}
		if b.ShowID != showID {
			return ErrUnknownShow
		}
		assigned, err = allocateSeats(ctx, tx, showID, seatIDs, bookingID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return assigned, nil
}

// ExchangeSeat swaps one reserved seat for a free one of the same
// price tier on the same show.  Freeing the old seat and binding the
// new one happen in a single transaction, so an interrupted exchange
// can never leave the booking short a seat or holding both.
func (s *Service) ExchangeSeat(ctx context.Context, bookingID, oldSeatID, newSeatID uint64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		oldSeat, err := tx.SeatByID(ctx, oldSeatID)
		if err != nil {
			return err
		}
		if oldSeat == nil || oldSeat.BookingID == nil || *oldSeat.BookingID != bookingID {
			return ErrSeatNotInBooking
		}
		newSeat, err := tx.SeatByID(ctx, newSeatID)
		if err != nil {
			return err
		}
		if newSeat == nil || newSeat.ShowID != oldSeat.ShowID {
			return &SeatUnavailableError{SeatID: newSeatID}
		}
		if newSeat.SeatType != oldSeat.SeatType {
			return ErrPriceMismatch
		}
		// Conditional assign first: if the new seat was taken since the
		// read above, the transaction aborts with the old seat untouched.
		ok, err := tx.AssignSeat(ctx, newSeat.ShowID, newSeatID, bookingID)
		if err != nil {
			return err
		}
		if !ok {
			return &SeatUnavailableError{SeatID: newSeatID}
		}
		ok, err = tx.ReleaseSeat(ctx, oldSeatID, bookingID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSeatNotInBooking
		}
		return nil
	})
}

// ReleaseSeats frees every seat currently bound to the booking and
// returns how many were released.  Releasing a booking that holds no
// seats is a no-op, not an error.
func (s *Service) ReleaseSeats(ctx context.Context, bookingID uint64) (int64, error) {
	var released int64
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		released, err = tx.ReleaseSeats(ctx, bookingID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
