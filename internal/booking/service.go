package booking

import (
	"context"
	"time"

	"github.com/arman-dp/movie-ticketing/internal/model"
)

// Service orchestrates booking creation, cancellation sweeps, payment
// removal and show removal over an injected Store.  One Service is
// shared by all handlers; it keeps no state beyond the store handle.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service bound to the given store.
func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreateBookingRequest carries the already-parsed operator input for a
// new booking.  SeatIDs are show seat identifiers chosen by the
// operator, in selection order.
type CreateBookingRequest struct {
	Email     string
	CinemaID  uint64
	TheaterID uint64
	ShowID    uint64
	MovieID   uint64
	SeatIDs   []uint64
}

// CreateBooking validates the request, inserts a Pending booking and
// binds every requested seat to it, all inside one transaction.
//
// The validation ladder fails with a distinct error per step:
// ErrUnknownUser, ErrUnknownTheater, ErrUnknownShow,
// ErrShowNotPlayedHere, ErrInvalidSeatCount.  A seat that is no longer
// free fails with SeatUnavailableError and rolls the whole transaction
// back, so a rejected seat never leaves an orphan Pending booking
// behind; the caller re-prompts and submits again.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	if len(req.SeatIDs) == 0 {
		return nil, ErrInvalidSeatCount
	}
	b := &model.Booking{
		Status:    model.StatusPending,
		BookedAt:  s.now(),
		NumSeats:  len(req.SeatIDs),
		ShowID:    req.ShowID,
		UserEmail: req.Email,
	}
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.UserExists(ctx, req.Email)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownUser
		}
		ok, err = tx.TheaterInCinema(ctx, req.TheaterID, req.CinemaID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownTheater
		}
		ok, err = tx.ShowOfMovie(ctx, req.ShowID, req.MovieID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownShow
		}
		ok, err = tx.ShowPlayedAt(ctx, req.ShowID, req.TheaterID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrShowNotPlayedHere
		}
		// The booking row must exist before seats can reference it.
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		_, err = allocateSeats(ctx, tx, req.ShowID, req.SeatIDs, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CancelAllPending releases the seats of every Pending booking and
// marks it Cancelled, in one transaction.  Paid bookings are never
// touched.  The sweep is idempotent: a second run finds no Pending
// rows and cancels nothing.  It returns the number of bookings
// cancelled.
func (s *Service) CancelAllPending(ctx context.Context) (int, error) {
	var cancelled int
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		ids, err := tx.BookingIDsByStatus(ctx, model.StatusPending)
		if err != nil {
			return err
		}
		for _, id := range ids {
			// Seats are released before the status flips so a seat is
			// never left bound to a Cancelled booking.
			if _, err := tx.ReleaseSeats(ctx, id); err != nil {
				return err
			}
			if err := tx.SetBookingStatus(ctx, id, model.StatusCancelled); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cancelled, nil
}

// RemovePayment reverses a captured payment: the payment rows are
// deleted, the booking is marked Cancelled and its seats are released,
// as one unit.  It fails with ErrNotPaid when the booking is not in
// Paid status and ErrBookingNotFound when no such booking exists.
func (s *Service) RemovePayment(ctx context.Context, bookingID uint64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		b, err := tx.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBookingNotFound
		}
		if b.Status != model.StatusPaid {
			return ErrNotPaid
		}
		if _, err := tx.DeletePayments(ctx, bookingID); err != nil {
			return err
		}
		if err := tx.SetBookingStatus(ctx, bookingID, model.StatusCancelled); err != nil {
			return err
		}
		_, err = tx.ReleaseSeats(ctx, bookingID)
		return err
	})
}

// ClearCancelled hard-deletes every Cancelled booking.  The storage
// layer is not assumed to cascade, so each booking's seats are
// released and its payments deleted before the row itself goes.  It
// returns the number of bookings purged.
func (s *Service) ClearCancelled(ctx context.Context) (int, error) {
	var purged int
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		ids, err := tx.BookingIDsByStatus(ctx, model.StatusCancelled)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.ReleaseSeats(ctx, id); err != nil {
				return err
			}
			if _, err := tx.DeletePayments(ctx, id); err != nil {
				return err
			}
			if err := tx.DeleteBooking(ctx, id); err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// RemoveShowsOnDate removes every show screened on the given date at
// theaters of the named cinema.  Each show is processed in its own
// transaction: its bookings are cancelled and their payments deleted,
// then the show's seats, plays rows and the show itself are removed in
// FK order.  Date is YYYY-MM-DD.  It returns the number of shows
// removed.
func (s *Service) RemoveShowsOnDate(ctx context.Context, cinemaName, date string) (int, error) {
	var showIDs []uint64
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		showIDs, err = tx.ShowIDsOnDateAtCinema(ctx, cinemaName, date)
		return err
	})
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, sid := range showIDs {
		err := s.store.WithinTx(ctx, func(tx Tx) error {
			bids, err := tx.BookingIDsByShow(ctx, sid)
			if err != nil {
				return err
			}
			for _, bid := range bids {
				if _, err := tx.DeletePayments(ctx, bid); err != nil {
					return err
				}
				if err := tx.SetBookingStatus(ctx, bid, model.StatusCancelled); err != nil {
					return err
				}
				if _, err := tx.ReleaseSeats(ctx, bid); err != nil {
					return err
				}
			}
			if err := tx.DeleteShowSeats(ctx, sid); err != nil {
				return err
			}
			if err := tx.DeletePlays(ctx, sid); err != nil {
				return err
			}
			return tx.DeleteShow(ctx, sid)
		})
		if err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
