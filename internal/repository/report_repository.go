package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/arman-dp/movie-ticketing/internal/model"
)

// ReportRepo runs the fixed read-only reporting queries.  These flow
// straight from the handlers to the database and carry no invariants;
// every query is a single parameterized SELECT.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// TheatersPlayingShow lists the theaters of one cinema that play the
// given show.
func (r *ReportRepo) TheatersPlayingShow(ctx context.Context, cinemaID, showID uint64) ([]model.Theater, error) {
	const q = `SELECT t.tid, t.tname, t.tseats, t.cid
	           FROM theaters t
	           JOIN plays p ON p.tid = t.tid
	           WHERE p.sid = ? AND t.cid = ?
	           ORDER BY t.tname`
	rows, err := r.db.QueryContext(ctx, q, showID, cinemaID)
	if err != nil {
		return nil, storeErr("theaters playing show", err)
	}
	defer rows.Close()
	out := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.CinemaID); err != nil {
			return nil, storeErr("theaters playing show scan", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("theaters playing show rows", err)
	}
	return out, nil
}

// ShowsStartingAt lists the shows on a date that begin at exactly the
// given time.  Date is YYYY-MM-DD, time HH:MM:SS.
func (r *ReportRepo) ShowsStartingAt(ctx context.Context, date, startTime string) ([]model.Show, error) {
	const q = `SELECT sid, mvid, sdate, sttime, edtime FROM shows
	           WHERE sdate = ? AND sttime = ?
	           ORDER BY sid`
	rows, err := r.db.QueryContext(ctx, q, date, startTime)
	if err != nil {
		return nil, storeErr("shows starting at", err)
	}
	defer rows.Close()
	out := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.Date, &s.StartTime, &s.EndTime); err != nil {
			return nil, storeErr("shows starting at scan", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("shows starting at rows", err)
	}
	return out, nil
}

// SearchMovies returns movies whose title contains the given fragment
// (case-insensitive) released strictly after the cutoff date
// (YYYY-MM-DD).  An empty fragment matches everything after the
// cutoff.
func (r *ReportRepo) SearchMovies(ctx context.Context, titleFragment, releasedAfter string) ([]model.Movie, error) {
	const q = `SELECT mvid, title, rdate, country, description, duration, lang, genre
	           FROM movies
	           WHERE LOWER(title) LIKE ? AND rdate > ?
	           ORDER BY rdate, title`
	pattern := "%" + strings.ToLower(titleFragment) + "%"
	rows, err := r.db.QueryContext(ctx, q, pattern, releasedAfter)
	if err != nil {
		return nil, storeErr("search movies", err)
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.Country,
			&m.Description, &m.Duration, &m.Language, &m.Genre); err != nil {
			return nil, storeErr("search movies scan", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("search movies rows", err)
	}
	return out, nil
}

// PendingUser is one row of the users-with-pending-booking report.
type PendingUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UsersWithPendingBooking lists each distinct user holding at least one
// Pending booking.
func (r *ReportRepo) UsersWithPendingBooking(ctx context.Context) ([]PendingUser, error) {
	const q = `SELECT u.fname, u.lname, u.email
	           FROM users u
	           WHERE u.email IN (
	               SELECT DISTINCT b.email FROM bookings b WHERE LOWER(b.status) = 'pending'
	           )
	           ORDER BY u.email`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("users with pending booking", err)
	}
	defer rows.Close()
	out := make([]PendingUser, 0)
	for rows.Next() {
		var u PendingUser
		if err := rows.Scan(&u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, storeErr("users with pending booking scan", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("users with pending booking rows", err)
	}
	return out, nil
}

// MovieShowing is one row of the date-range listing: a show of the
// searched movie at the searched cinema.
type MovieShowing struct {
	Title     string `json:"title"`
	Duration  uint32 `json:"duration"`
	ShowDate  string `json:"show_date"`
	StartTime string `json:"start_time"`
}

// ShowingsAtCinemaInRange lists title, duration, date and start time
// of shows playing the named movie at the named cinema between the two
// dates (inclusive, YYYY-MM-DD).
func (r *ReportRepo) ShowingsAtCinemaInRange(ctx context.Context, movieTitle, cinemaName, fromDate, toDate string) ([]MovieShowing, error) {
	const q = `SELECT m.title, m.duration, s.sdate, s.sttime
	           FROM movies m
	           JOIN shows s ON s.mvid = m.mvid
	           JOIN plays p ON p.sid = s.sid
	           JOIN theaters t ON t.tid = p.tid
	           JOIN cinemas c ON c.cid = t.cid
	           WHERE m.title = ? AND c.cname = ? AND s.sdate BETWEEN ? AND ?
	           ORDER BY s.sdate, s.sttime`
	rows, err := r.db.QueryContext(ctx, q, movieTitle, cinemaName, fromDate, toDate)
	if err != nil {
		return nil, storeErr("showings in range", err)
	}
	defer rows.Close()
	out := make([]MovieShowing, 0)
	for rows.Next() {
		var s MovieShowing
		if err := rows.Scan(&s.Title, &s.Duration, &s.ShowDate, &s.StartTime); err != nil {
			return nil, storeErr("showings in range scan", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("showings in range rows", err)
	}
	return out, nil
}

// UserBooking is one row of a user's booking history: the movie, the
// show slot, the theater and the seats reserved.
type UserBooking struct {
	BookingID  uint64   `json:"booking_id"`
	Status     string   `json:"status"`
	MovieTitle string   `json:"movie_title"`
	ShowDate   string   `json:"show_date"`
	StartTime  string   `json:"start_time"`
	Theater    string   `json:"theater"`
	SeatIDs    []uint64 `json:"cinema_seat_ids"`
}

// BookingHistory lists every booking of the given user with the movie
// title, show date and time, theater name and the cinema seat IDs
// reserved under it.  Bookings are ordered newest first; seats are
// fetched in one extra query and attached in memory.
func (r *ReportRepo) BookingHistory(ctx context.Context, email string) ([]UserBooking, error) {
	const q = `SELECT b.bid, b.status, m.title, s.sdate, s.sttime, t.tname
	           FROM bookings b
	           JOIN shows s    ON s.sid = b.sid
	           JOIN movies m   ON m.mvid = s.mvid
	           JOIN plays p    ON p.sid = s.sid
	           JOIN theaters t ON t.tid = p.tid
	           WHERE b.email = ?
	           ORDER BY b.bdatetime DESC, b.bid DESC`
	rows, err := r.db.QueryContext(ctx, q, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, storeErr("booking history", err)
	}
	defer rows.Close()
	out := make([]UserBooking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var b UserBooking
		var rawStatus string
		if err := rows.Scan(&b.BookingID, &rawStatus, &b.MovieTitle, &b.ShowDate, &b.StartTime, &b.Theater); err != nil {
			return nil, storeErr("booking history scan", err)
		}
		if st, ok := model.ParseBookingStatus(rawStatus); ok {
			b.Status = string(st)
		} else {
			b.Status = rawStatus
		}
		b.SeatIDs = []uint64{}
		index[b.BookingID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("booking history rows", err)
	}
	if len(out) == 0 {
		return out, nil
	}
	// Attach seats for all bookings in one query.
	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, b := range out {
		ids = append(ids, b.BookingID)
		placeholders = append(placeholders, "?")
	}
	seatQ := `SELECT bid, csid FROM show_seats
	          WHERE bid IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY bid, csid`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, storeErr("booking history seats", err)
	}
	defer srows.Close()
	for srows.Next() {
		var bid, csid uint64
		if err := srows.Scan(&bid, &csid); err != nil {
			return nil, storeErr("booking history seats scan", err)
		}
		if i, ok := index[bid]; ok {
			out[i].SeatIDs = append(out[i].SeatIDs, csid)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, storeErr("booking history seats rows", err)
	}
	return out, nil
}
