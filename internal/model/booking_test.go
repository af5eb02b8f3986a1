package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arman-dp/movie-ticketing/internal/model"
)

func TestParseBookingStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want model.BookingStatus
		ok   bool
	}{
		{"Pending", model.StatusPending, true},
		{"pending", model.StatusPending, true},
		{"PENDING", model.StatusPending, true},
		{"Paid", model.StatusPaid, true},
		{"paid", model.StatusPaid, true},
		{"Cancelled", model.StatusCancelled, true},
		{"CANCELLED", model.StatusCancelled, true},
		{"", "", false},
		{"refunded", "", false},
	}
	for _, tc := range cases {
		got, ok := model.ParseBookingStatus(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		}
	}
}

func TestShowSeatFree(t *testing.T) {
	var s model.ShowSeat
	assert.True(t, s.Free())

	bid := uint64(7)
	s.BookingID = &bid
	assert.False(t, s.Free())
}
