package model

// ShowSeat scopes one physical cinema seat to one show and is the unit
// of reservation.  A nil BookingID means the seat is free; a non-nil
// value binds the seat to exactly one booking.  At most one ShowSeat
// row exists per (show, cinema seat) pair.
//
// Fields:
//  ID           – primary key identifier.
//  ShowID       – the show this seat instance belongs to.
//  CinemaSeatID – the underlying physical seat.
//  BookingID    – booking currently holding the seat, nil when free.
//  PriceCents   – price for this seat at this show, in cents.
type ShowSeat struct {
	ID           uint64  // show_seats.ssid
	ShowID       uint64  // show_seats.sid
	CinemaSeatID uint64  // show_seats.csid
	BookingID    *uint64 // show_seats.bid (nullable)
	PriceCents   uint32  // show_seats.price
}

// Free reports whether the seat is currently unassigned.
func (s *ShowSeat) Free() bool { return s.BookingID == nil }
