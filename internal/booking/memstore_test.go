package booking_test

// An in-memory Store used by the service tests.  WithinTx serializes
// transactions with a mutex and snapshots the whole state up front, so
// an error from fn restores the snapshot and the test can assert that
// a failed operation left nothing behind.

import (
	"context"
	"sync"

	"github.com/arman-dp/movie-ticketing/internal/booking"
	"github.com/arman-dp/movie-ticketing/internal/model"
)

type memShow struct {
	movieID uint64
	date    string
}

type memSeat struct {
	showID       uint64
	cinemaSeatID uint64
	bookingID    *uint64
	priceCents   uint32
	seatType     string
}

type playKey struct {
	showID    uint64
	theaterID uint64
}

type memState struct {
	users      map[string]bool
	theaters   map[uint64]uint64 // theater -> cinema
	cinemas    map[uint64]string // cinema -> name
	shows      map[uint64]memShow
	plays      map[playKey]bool
	seats      map[uint64]*memSeat
	bookings   map[uint64]*model.Booking
	payments   map[uint64]int // booking -> payment row count
	nextBookID uint64
}

func newMemState() *memState {
	return &memState{
		users:      map[string]bool{},
		theaters:   map[uint64]uint64{},
		cinemas:    map[uint64]string{},
		shows:      map[uint64]memShow{},
		plays:      map[playKey]bool{},
		seats:      map[uint64]*memSeat{},
		bookings:   map[uint64]*model.Booking{},
		payments:   map[uint64]int{},
		nextBookID: 1,
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextBookID = s.nextBookID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.theaters {
		c.theaters[k] = v
	}
	for k, v := range s.cinemas {
		c.cinemas[k] = v
	}
	for k, v := range s.shows {
		c.shows[k] = v
	}
	for k, v := range s.plays {
		c.plays[k] = v
	}
	for k, v := range s.seats {
		seat := *v
		if v.bookingID != nil {
			bid := *v.bookingID
			seat.bookingID = &bid
		}
		c.seats[k] = &seat
	}
	for k, v := range s.bookings {
		b := *v
		c.bookings[k] = &b
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

type memStore struct {
	mu    sync.Mutex
	state *memState
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state.clone()
	if err := fn(&memTx{state: s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// ----- fixture builders -----

func (s *memStore) addUser(email string) {
	s.state.users[email] = true
}

func (s *memStore) addCinema(cinemaID uint64, name string) {
	s.state.cinemas[cinemaID] = name
}

func (s *memStore) addTheater(theaterID, cinemaID uint64) {
	s.state.theaters[theaterID] = cinemaID
}

func (s *memStore) addShow(showID, movieID uint64, date string, theaterIDs ...uint64) {
	s.state.shows[showID] = memShow{movieID: movieID, date: date}
	for _, tid := range theaterIDs {
		s.state.plays[playKey{showID: showID, theaterID: tid}] = true
	}
}

func (s *memStore) addSeat(seatID, showID, cinemaSeatID uint64, price uint32, seatType string) {
	s.state.seats[seatID] = &memSeat{
		showID:       showID,
		cinemaSeatID: cinemaSeatID,
		priceCents:   price,
		seatType:     seatType,
	}
}

func (s *memStore) addPayment(bookingID uint64) {
	s.state.payments[bookingID]++
}

func (s *memStore) booking(id uint64) *model.Booking {
	b, ok := s.state.bookings[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (s *memStore) seatOwner(seatID uint64) *uint64 {
	seat, ok := s.state.seats[seatID]
	if !ok || seat.bookingID == nil {
		return nil
	}
	bid := *seat.bookingID
	return &bid
}

func (s *memStore) paymentCount(bookingID uint64) int {
	return s.state.payments[bookingID]
}

func (s *memStore) hasShow(showID uint64) bool {
	_, ok := s.state.shows[showID]
	return ok
}

// ----- Tx implementation -----

type memTx struct {
	state *memState
}

func (t *memTx) UserExists(ctx context.Context, email string) (bool, error) {
	return t.state.users[email], nil
}

func (t *memTx) TheaterInCinema(ctx context.Context, theaterID, cinemaID uint64) (bool, error) {
	cid, ok := t.state.theaters[theaterID]
	return ok && cid == cinemaID, nil
}

func (t *memTx) ShowOfMovie(ctx context.Context, showID, movieID uint64) (bool, error) {
	sh, ok := t.state.shows[showID]
	return ok && sh.movieID == movieID, nil
}

func (t *memTx) ShowPlayedAt(ctx context.Context, showID, theaterID uint64) (bool, error) {
	return t.state.plays[playKey{showID: showID, theaterID: theaterID}], nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	b.ID = t.state.nextBookID
	t.state.nextBookID++
	cp := *b
	t.state.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, ok := t.state.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) BookingIDsByStatus(ctx context.Context, status model.BookingStatus) ([]uint64, error) {
	var ids []uint64
	for id, b := range t.state.bookings {
		if b.Status == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (t *memTx) SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
	if b, ok := t.state.bookings[bookingID]; ok {
		b.Status = status
	}
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, bookingID uint64) error {
	delete(t.state.bookings, bookingID)
	return nil
}

func (t *memTx) SeatByID(ctx context.Context, seatID uint64) (*booking.SeatState, error) {
	seat, ok := t.state.seats[seatID]
	if !ok {
		return nil, nil
	}
	st := &booking.SeatState{
		ID:           seatID,
		ShowID:       seat.showID,
		CinemaSeatID: seat.cinemaSeatID,
		PriceCents:   seat.priceCents,
		SeatType:     seat.seatType,
	}
	if seat.bookingID != nil {
		bid := *seat.bookingID
		st.BookingID = &bid
	}
	return st, nil
}

func (t *memTx) AssignSeat(ctx context.Context, showID, seatID, bookingID uint64) (bool, error) {
	seat, ok := t.state.seats[seatID]
	if !ok || seat.showID != showID || seat.bookingID != nil {
		return false, nil
	}
	bid := bookingID
	seat.bookingID = &bid
	return true, nil
}

func (t *memTx) ReleaseSeat(ctx context.Context, seatID, bookingID uint64) (bool, error) {
	seat, ok := t.state.seats[seatID]
	if !ok || seat.bookingID == nil || *seat.bookingID != bookingID {
		return false, nil
	}
	seat.bookingID = nil
	return true, nil
}

func (t *memTx) ReleaseSeats(ctx context.Context, bookingID uint64) (int64, error) {
	var n int64
	for _, seat := range t.state.seats {
		if seat.bookingID != nil && *seat.bookingID == bookingID {
			seat.bookingID = nil
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeletePayments(ctx context.Context, bookingID uint64) (int64, error) {
	n := int64(t.state.payments[bookingID])
	delete(t.state.payments, bookingID)
	return n, nil
}

func (t *memTx) ShowIDsOnDateAtCinema(ctx context.Context, cinemaName, date string) ([]uint64, error) {
	var ids []uint64
	for showID, sh := range t.state.shows {
		if sh.date != date {
			continue
		}
		for pk := range t.state.plays {
			if pk.showID != showID {
				continue
			}
			cid, ok := t.state.theaters[pk.theaterID]
			if ok && t.state.cinemas[cid] == cinemaName {
				ids = append(ids, showID)
				break
			}
		}
	}
	return ids, nil
}

func (t *memTx) BookingIDsByShow(ctx context.Context, showID uint64) ([]uint64, error) {
	var ids []uint64
	for id, b := range t.state.bookings {
		if b.ShowID == showID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (t *memTx) DeleteShowSeats(ctx context.Context, showID uint64) error {
	for id, seat := range t.state.seats {
		if seat.showID == showID {
			delete(t.state.seats, id)
		}
	}
	return nil
}

func (t *memTx) DeletePlays(ctx context.Context, showID uint64) error {
	for pk := range t.state.plays {
		if pk.showID == showID {
			delete(t.state.plays, pk)
		}
	}
	return nil
}

func (t *memTx) DeleteShow(ctx context.Context, showID uint64) error {
	delete(t.state.shows, showID)
	return nil
}
