package booking

import (
	"context"

	"github.com/arman-dp/movie-ticketing/internal/model"
)

// SeatState is the allocator's view of one show seat: where it lives,
// who holds it and what tier it belongs to.  BookingID is nil when
// the seat is free.
type SeatState struct {
	ID           uint64
	ShowID       uint64
	CinemaSeatID uint64
	BookingID    *uint64
	PriceCents   uint32
	SeatType     string
}

// Store is the gateway to the relational backend.  There is no other
// path to the database from this package: every mutation issued by the
// allocator and the booking manager runs inside WithinTx so that a
// multi-step sequence either commits as a whole or leaves no trace.
type Store interface {
	// WithinTx begins a transaction, invokes fn with a transaction-scoped
	// view, and commits when fn returns nil.  Any error from fn (or from
	// commit) rolls the transaction back and is returned to the caller.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row operations available inside one transaction.
// Every method issues parameterized statements only; implementations
// must never interpolate caller-supplied values into SQL text.
type Tx interface {
	// Validation reads used by the create-booking ladder.
	UserExists(ctx context.Context, email string) (bool, error)
	TheaterInCinema(ctx context.Context, theaterID, cinemaID uint64) (bool, error)
	ShowOfMovie(ctx context.Context, showID, movieID uint64) (bool, error)
	ShowPlayedAt(ctx context.Context, showID, theaterID uint64) (bool, error)

	// Booking rows.  InsertBooking populates the generated ID.
	InsertBooking(ctx context.Context, b *model.Booking) error
	BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error)
	BookingIDsByStatus(ctx context.Context, status model.BookingStatus) ([]uint64, error)
	SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error
	DeleteBooking(ctx context.Context, bookingID uint64) error

	// Seat rows.  AssignSeat is the load-bearing primitive: it must be a
	// single conditional write that binds the seat to the booking only if
	// the seat still belongs to the show and is still free, returning
	// false when zero rows were affected.  ReleaseSeat is the targeted
	// inverse and returns false when the seat was not bound to bookingID.
	SeatByID(ctx context.Context, seatID uint64) (*SeatState, error)
	AssignSeat(ctx context.Context, showID, seatID, bookingID uint64) (bool, error)
	ReleaseSeat(ctx context.Context, seatID, bookingID uint64) (bool, error)
	ReleaseSeats(ctx context.Context, bookingID uint64) (int64, error)

	// Payment rows.
	DeletePayments(ctx context.Context, bookingID uint64) (int64, error)

	// Show removal support.  Date is YYYY-MM-DD, normalized by the caller.
	ShowIDsOnDateAtCinema(ctx context.Context, cinemaName, date string) ([]uint64, error)
	BookingIDsByShow(ctx context.Context, showID uint64) ([]uint64, error)
	DeleteShowSeats(ctx context.Context, showID uint64) error
	DeletePlays(ctx context.Context, showID uint64) error
	DeleteShow(ctx context.Context, showID uint64) error
}
