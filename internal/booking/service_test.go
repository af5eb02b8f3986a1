package booking_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman-dp/movie-ticketing/internal/booking"
	"github.com/arman-dp/movie-ticketing/internal/model"
)

const (
	userEmail = "amelia@example.com"
	cinemaID  = uint64(1)
	theaterID = uint64(10)
	movieID   = uint64(5)
	showID    = uint64(100)
)

// newFixture seeds one cinema with one theater screening one show that
// has four free seats: two GOLD, two SILVER.
func newFixture() (*memStore, *booking.Service) {
	store := newMemStore()
	store.addUser(userEmail)
	store.addCinema(cinemaID, "Grand Plaza")
	store.addTheater(theaterID, cinemaID)
	store.addShow(showID, movieID, "2026-09-01", theaterID)
	store.addSeat(1001, showID, 11, 1500, "GOLD")
	store.addSeat(1002, showID, 12, 1500, "GOLD")
	store.addSeat(1003, showID, 13, 900, "SILVER")
	store.addSeat(1004, showID, 14, 900, "SILVER")
	return store, booking.NewService(store)
}

func validRequest(seatIDs ...uint64) booking.CreateBookingRequest {
	return booking.CreateBookingRequest{
		Email:     userEmail,
		CinemaID:  cinemaID,
		TheaterID: theaterID,
		ShowID:    showID,
		MovieID:   movieID,
		SeatIDs:   seatIDs,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	store, svc := newFixture()

	b, err := svc.CreateBooking(context.Background(), validRequest(1001, 1003))
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, 2, b.NumSeats)
	assert.Equal(t, showID, b.ShowID)
	assert.Equal(t, userEmail, b.UserEmail)
	assert.NotZero(t, b.ID)

	for _, sid := range []uint64{1001, 1003} {
		owner := store.seatOwner(sid)
		if assert.NotNil(t, owner, "seat %d should be bound", sid) {
			assert.Equal(t, b.ID, *owner)
		}
	}
	assert.Nil(t, store.seatOwner(1002))
	assert.Nil(t, store.seatOwner(1004))
}

func TestCreateBooking_ValidationLadder(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*booking.CreateBookingRequest)
		wantErr error
	}{
		{"unknown user", func(r *booking.CreateBookingRequest) { r.Email = "nobody@example.com" }, booking.ErrUnknownUser},
		{"theater not in cinema", func(r *booking.CreateBookingRequest) { r.CinemaID = 99 }, booking.ErrUnknownTheater},
		{"show of another movie", func(r *booking.CreateBookingRequest) { r.MovieID = 99 }, booking.ErrUnknownShow},
		{"nonexistent theater", func(r *booking.CreateBookingRequest) { r.TheaterID = 77 }, booking.ErrUnknownTheater},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(1001)
			tc.mutate(&req)
			b, err := svc.CreateBooking(ctx, req)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateBooking_ShowNotPlayedHere(t *testing.T) {
	store, svc := newFixture()
	// A second theater in the same cinema that does not screen the show.
	store.addTheater(11, cinemaID)

	req := validRequest(1001)
	req.TheaterID = 11
	b, err := svc.CreateBooking(context.Background(), req)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, booking.ErrShowNotPlayedHere)
	assert.Nil(t, store.seatOwner(1001))
}

func TestCreateBooking_NoSeats(t *testing.T) {
	_, svc := newFixture()
	b, err := svc.CreateBooking(context.Background(), validRequest())
	assert.Nil(t, b)
	assert.ErrorIs(t, err, booking.ErrInvalidSeatCount)
}

func TestCreateBooking_SeatTaken_LeavesNothingBehind(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, validRequest(1002))
	require.NoError(t, err)

	// Second request wants a free seat plus the taken one; the whole
	// transaction must roll back.
	b, err := svc.CreateBooking(ctx, validRequest(1001, 1002))
	assert.Nil(t, b)
	assert.True(t, booking.IsSeatUnavailable(err))

	var su *booking.SeatUnavailableError
	require.ErrorAs(t, err, &su)
	assert.Equal(t, uint64(1002), su.SeatID)

	// The free seat the failed request touched first is free again and
	// no second booking row exists.
	assert.Nil(t, store.seatOwner(1001))
	owner := store.seatOwner(1002)
	require.NotNil(t, owner)
	assert.Equal(t, first.ID, *owner)
	assert.Nil(t, store.booking(first.ID+1))
}

func TestCreateBooking_ConcurrentOverlap_SingleOwner(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*model.Booking, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CreateBooking(ctx, validRequest(1001))
		}(i)
	}
	wg.Wait()

	okCount := 0
	var winner *model.Booking
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			okCount++
			winner = results[i]
		} else {
			assert.True(t, booking.IsSeatUnavailable(errs[i]))
		}
	}
	require.Equal(t, 1, okCount, "exactly one booking must win the seat")

	owner := store.seatOwner(1001)
	require.NotNil(t, owner)
	assert.Equal(t, winner.ID, *owner)
}

func TestCancelAllPending(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b1, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	b2, err := svc.CreateBooking(ctx, validRequest(1002))
	require.NoError(t, err)
	paid, err := svc.CreateBooking(ctx, validRequest(1003))
	require.NoError(t, err)
	require.NoError(t, store.WithinTx(ctx, func(tx booking.Tx) error {
		return tx.SetBookingStatus(ctx, paid.ID, model.StatusPaid)
	}))

	n, err := svc.CancelAllPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, model.StatusCancelled, store.booking(b1.ID).Status)
	assert.Equal(t, model.StatusCancelled, store.booking(b2.ID).Status)
	assert.Equal(t, model.StatusPaid, store.booking(paid.ID).Status)

	assert.Nil(t, store.seatOwner(1001))
	assert.Nil(t, store.seatOwner(1002))
	owner := store.seatOwner(1003)
	if assert.NotNil(t, owner, "paid booking keeps its seat") {
		assert.Equal(t, paid.ID, *owner)
	}

	// Second sweep finds nothing Pending.
	n, err = svc.CancelAllPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCancelAllPending_SeatsBookableAgain(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	old, err := svc.CreateBooking(ctx, validRequest(1001, 1002, 1003))
	require.NoError(t, err)

	n, err := svc.CancelAllPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// The full round trip: the exact seats the cancelled booking held
	// are free again and a new booking can take all of them.
	fresh, err := svc.CreateBooking(ctx, validRequest(1001, 1002, 1003))
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.NotEqual(t, old.ID, fresh.ID)

	for _, sid := range []uint64{1001, 1002, 1003} {
		owner := store.seatOwner(sid)
		if assert.NotNil(t, owner, "seat %d should be rebooked", sid) {
			assert.Equal(t, fresh.ID, *owner)
		}
	}
	assert.Equal(t, model.StatusCancelled, store.booking(old.ID).Status)
	assert.Equal(t, model.StatusPending, store.booking(fresh.ID).Status)
}

func TestRemovePayment_Success(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001, 1002))
	require.NoError(t, err)
	require.NoError(t, store.WithinTx(ctx, func(tx booking.Tx) error {
		return tx.SetBookingStatus(ctx, b.ID, model.StatusPaid)
	}))
	store.addPayment(b.ID)

	require.NoError(t, svc.RemovePayment(ctx, b.ID))

	assert.Equal(t, model.StatusCancelled, store.booking(b.ID).Status)
	assert.Zero(t, store.paymentCount(b.ID))
	assert.Nil(t, store.seatOwner(1001))
	assert.Nil(t, store.seatOwner(1002))
}

func TestRemovePayment_NotFound(t *testing.T) {
	_, svc := newFixture()
	err := svc.RemovePayment(context.Background(), 42)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestRemovePayment_NotPaid(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	store.addPayment(b.ID)

	err = svc.RemovePayment(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrNotPaid)

	// Nothing changed: still Pending, payment intact, seat still bound.
	assert.Equal(t, model.StatusPending, store.booking(b.ID).Status)
	assert.Equal(t, 1, store.paymentCount(b.ID))
	assert.NotNil(t, store.seatOwner(1001))
}

func TestClearCancelled(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	victim, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	store.addPayment(victim.ID)
	require.NoError(t, store.WithinTx(ctx, func(tx booking.Tx) error {
		return tx.SetBookingStatus(ctx, victim.ID, model.StatusCancelled)
	}))
	keeper, err := svc.CreateBooking(ctx, validRequest(1002))
	require.NoError(t, err)

	n, err := svc.ClearCancelled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Nil(t, store.booking(victim.ID))
	assert.Zero(t, store.paymentCount(victim.ID))
	assert.Nil(t, store.seatOwner(1001))

	assert.NotNil(t, store.booking(keeper.ID))
	assert.NotNil(t, store.seatOwner(1002))
}

func TestRemoveShowsOnDate(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	// A show at the same cinema on another date must survive.
	store.addShow(101, movieID, "2026-09-02", theaterID)
	store.addSeat(1101, 101, 15, 900, "SILVER")

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	store.addPayment(b.ID)

	n, err := svc.RemoveShowsOnDate(ctx, "Grand Plaza", "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.False(t, store.hasShow(showID))
	assert.True(t, store.hasShow(101))
	assert.Nil(t, store.seatOwner(1101))

	// The dependent booking is cancelled and stripped of payments.
	assert.Equal(t, model.StatusCancelled, store.booking(b.ID).Status)
	assert.Zero(t, store.paymentCount(b.ID))
}

func TestRemoveShowsOnDate_UnknownCinema(t *testing.T) {
	store, svc := newFixture()

	n, err := svc.RemoveShowsOnDate(context.Background(), "No Such Cinema", "2026-09-01")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, store.hasShow(showID))
}
