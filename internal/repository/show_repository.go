package repository

import (
	"context"
	"database/sql"
)

// ShowRepo creates movie showings and answers seat availability
// questions used by the booking flow.
type ShowRepo struct {
	db *sql.DB
}

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying pool for callers that need to open a
// transaction spanning several repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// NewShowing carries the operator input for adding a movie showing to
// an existing theater: a new movie, one show of it, and the theater
// that plays it.  Dates are YYYY-MM-DD, times HH:MM:SS.
type NewShowing struct {
	Title       string
	ReleaseDate string
	Country     string
	Description string
	Duration    uint32
	Language    string
	Genre       string
	ShowDate    string
	StartTime   string
	EndTime     string
	TheaterID   uint64
}

// CreateShowing inserts the movie, its show and the plays row in one
// transaction, so an interrupted run cannot leave a show without a
// movie or a theater.  It returns the generated movie and show IDs.
func (r *ShowRepo) CreateShowing(ctx context.Context, in NewShowing) (movieID, showID uint64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, storeErr("begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO movies (title, rdate, country, description, duration, lang, genre)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.ReleaseDate, in.Country, in.Description, in.Duration, in.Language, in.Genre)
	if err != nil {
		return 0, 0, storeErr("insert movie", err)
	}
	mid, err := res.LastInsertId()
	if err != nil {
		return 0, 0, storeErr("insert movie id", err)
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO shows (mvid, sdate, sttime, edtime) VALUES (?, ?, ?, ?)`,
		mid, in.ShowDate, in.StartTime, in.EndTime)
	if err != nil {
		return 0, 0, storeErr("insert show", err)
	}
	sid, err := res.LastInsertId()
	if err != nil {
		return 0, 0, storeErr("insert show id", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO plays (sid, tid) VALUES (?, ?)`, sid, in.TheaterID); err != nil {
		return 0, 0, storeErr("insert plays", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, storeErr("commit tx", err)
	}
	committed = true
	return uint64(mid), uint64(sid), nil
}

// FreeSeat is one selectable seat for a show, as presented to the
// operator during seat selection.
type FreeSeat struct {
	ShowSeatID uint64 `json:"show_seat_id"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	PriceCents uint32 `json:"price_cents"`
}

// FreeSeatsForShow lists the unassigned show seats of a show at one
// theater, ordered by seat number.  The list is advisory: a seat may
// be taken by another session between listing and booking, in which
// case the conditional assignment rejects it.
func (r *ShowRepo) FreeSeatsForShow(ctx context.Context, showID, theaterID uint64) ([]FreeSeat, error) {
	const q = `SELECT ss.ssid, cs.sno, cs.stype, ss.price
	           FROM show_seats ss
	           JOIN cinema_seats cs ON cs.csid = ss.csid
	           WHERE ss.sid = ? AND cs.tid = ? AND ss.bid IS NULL
	           ORDER BY cs.sno`
	rows, err := r.db.QueryContext(ctx, q, showID, theaterID)
	if err != nil {
		return nil, storeErr("free seats for show", err)
	}
	defer rows.Close()
	seats := make([]FreeSeat, 0)
	for rows.Next() {
		var s FreeSeat
		if err := rows.Scan(&s.ShowSeatID, &s.SeatNumber, &s.SeatType, &s.PriceCents); err != nil {
			return nil, storeErr("free seats scan", err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("free seats rows", err)
	}
	return seats, nil
}
