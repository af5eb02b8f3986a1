package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arman-dp/movie-ticketing/internal/booking"
)

func TestAllocateSeats_Success(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)

	n, err := svc.AllocateSeats(ctx, showID, []uint64{1002, 1003}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, sid := range []uint64{1001, 1002, 1003} {
		owner := store.seatOwner(sid)
		if assert.NotNil(t, owner) {
			assert.Equal(t, b.ID, *owner)
		}
	}
}

func TestAllocateSeats_BookingNotFound(t *testing.T) {
	_, svc := newFixture()
	n, err := svc.AllocateSeats(context.Background(), showID, []uint64{1001}, 42)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestAllocateSeats_WrongShow(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)

	n, err := svc.AllocateSeats(ctx, 999, []uint64{1002}, b.ID)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, booking.ErrUnknownShow)
	assert.Nil(t, store.seatOwner(1002))
}

func TestAllocateSeats_PartialFailureRollsBack(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	other, err := svc.CreateBooking(ctx, validRequest(1003))
	require.NoError(t, err)

	// 1002 is free, 1003 belongs to the other booking: the whole call
	// must fail and 1002 stay free.
	n, err := svc.AllocateSeats(ctx, showID, []uint64{1002, 1003}, b.ID)
	assert.Zero(t, n)
	assert.True(t, booking.IsSeatUnavailable(err))
	assert.Nil(t, store.seatOwner(1002))

	owner := store.seatOwner(1003)
	require.NotNil(t, owner)
	assert.Equal(t, other.ID, *owner)
}

func TestExchangeSeat_Success(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)

	require.NoError(t, svc.ExchangeSeat(ctx, b.ID, 1001, 1002))

	assert.Nil(t, store.seatOwner(1001))
	owner := store.seatOwner(1002)
	require.NotNil(t, owner)
	assert.Equal(t, b.ID, *owner)
}

func TestExchangeSeat_SeatNotInBooking(t *testing.T) {
	_, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)

	// 1002 is free, not part of the booking.
	err = svc.ExchangeSeat(ctx, b.ID, 1002, 1003)
	assert.ErrorIs(t, err, booking.ErrSeatNotInBooking)
}

func TestExchangeSeat_PriceMismatch(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001)) // GOLD
	require.NoError(t, err)

	err = svc.ExchangeSeat(ctx, b.ID, 1001, 1003) // SILVER
	assert.ErrorIs(t, err, booking.ErrPriceMismatch)

	// Old seat still belongs to the booking, new seat untouched.
	owner := store.seatOwner(1001)
	require.NotNil(t, owner)
	assert.Equal(t, b.ID, *owner)
	assert.Nil(t, store.seatOwner(1003))
}

func TestExchangeSeat_NewSeatTaken(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, validRequest(1002))
	require.NoError(t, err)

	err = svc.ExchangeSeat(ctx, b.ID, 1001, 1002)
	assert.True(t, booking.IsSeatUnavailable(err))

	owner := store.seatOwner(1001)
	require.NotNil(t, owner)
	assert.Equal(t, b.ID, *owner)
}

func TestExchangeSeat_DifferentShow(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	store.addShow(101, movieID, "2026-09-02", theaterID)
	store.addSeat(1101, 101, 15, 1500, "GOLD")

	b, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)

	err = svc.ExchangeSeat(ctx, b.ID, 1001, 1101)
	assert.True(t, booking.IsSeatUnavailable(err))
	assert.Nil(t, store.seatOwner(1101))
}

func TestReleaseSeats_SeatReusableByAnotherBooking(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, validRequest(1001))
	require.NoError(t, err)
	second, err := svc.CreateBooking(ctx, validRequest(1002))
	require.NoError(t, err)

	n, err := svc.ReleaseSeats(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// The freed seat can now be bound to a different booking.
	assigned, err := svc.AllocateSeats(ctx, showID, []uint64{1001}, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)

	owner := store.seatOwner(1001)
	require.NotNil(t, owner)
	assert.Equal(t, second.ID, *owner)
}

func TestReleaseSeats(t *testing.T) {
	store, svc := newFixture()
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, validRequest(1001, 1002, 1003))
	require.NoError(t, err)

	n, err := svc.ReleaseSeats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, sid := range []uint64{1001, 1002, 1003} {
		assert.Nil(t, store.seatOwner(sid))
	}

	// A second release finds nothing and is not an error.
	n, err = svc.ReleaseSeats(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
