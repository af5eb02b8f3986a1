package model

// CinemaSeat is a physical seat inside a theater.  SeatNumber gives
// its position and SeatType its price tier; seats may only be
// exchanged within the same tier.
type CinemaSeat struct {
	ID         uint64 // cinema_seats.csid
	TheaterID  uint64 // cinema_seats.tid
	SeatNumber uint32 // cinema_seats.sno
	SeatType   string // cinema_seats.stype (price tier)
}
