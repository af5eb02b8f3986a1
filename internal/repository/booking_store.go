package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arman-dp/movie-ticketing/internal/booking"
	"github.com/arman-dp/movie-ticketing/internal/model"
)

// BookingStore is the MySQL implementation of booking.Store.  Every
// statement is parameterized; all writes issued through a bookingTx
// share one sql.Tx and commit or roll back together.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given pool.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// WithinTx runs fn inside a database transaction.  The transaction is
// rolled back unless fn returns nil and the commit succeeds.
func (s *BookingStore) WithinTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin tx", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit tx", err)
	}
	committed = true
	return nil
}

// bookingTx implements booking.Tx over one sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

// exists runs a 1-row existence probe and folds sql.ErrNoRows into
// false.
func (t *bookingTx) exists(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(op, err)
	}
	return true, nil
}

func (t *bookingTx) UserExists(ctx context.Context, email string) (bool, error) {
	return t.exists(ctx, "user exists",
		`SELECT 1 FROM users WHERE email = ? LIMIT 1`, email)
}

func (t *bookingTx) TheaterInCinema(ctx context.Context, theaterID, cinemaID uint64) (bool, error) {
	return t.exists(ctx, "theater in cinema",
		`SELECT 1 FROM theaters WHERE tid = ? AND cid = ? LIMIT 1`, theaterID, cinemaID)
}

func (t *bookingTx) ShowOfMovie(ctx context.Context, showID, movieID uint64) (bool, error) {
	return t.exists(ctx, "show of movie",
		`SELECT 1 FROM shows WHERE sid = ? AND mvid = ? LIMIT 1`, showID, movieID)
}

func (t *bookingTx) ShowPlayedAt(ctx context.Context, showID, theaterID uint64) (bool, error) {
	return t.exists(ctx, "show played at theater",
		`SELECT 1 FROM plays WHERE sid = ? AND tid = ? LIMIT 1`, showID, theaterID)
}

// InsertBooking inserts the booking row and populates the
// database-generated ID on b.  IDs come from AUTO_INCREMENT, so they
// are monotonic and never reused even under concurrent creation.
func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (status, bdatetime, seats, sid, email) VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		string(b.Status), b.BookedAt.UTC().Format("2006-01-02 15:04:05"), b.NumSeats, b.ShowID, b.UserEmail)
	if err != nil {
		return storeErr("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("insert booking id", err)
	}
	b.ID = uint64(id)
	return nil
}

func (t *bookingTx) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT bid, status, bdatetime, seats, sid, email FROM bookings WHERE bid = ?`
	var b model.Booking
	var rawStatus string
	err := t.tx.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &rawStatus, &b.BookedAt, &b.NumSeats, &b.ShowID, &b.UserEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("booking by id", err)
	}
	// Legacy rows carry mixed-case status spellings; normalize on read.
	if st, ok := model.ParseBookingStatus(rawStatus); ok {
		b.Status = st
	} else {
		b.Status = model.BookingStatus(rawStatus)
	}
	return &b, nil
}

func (t *bookingTx) BookingIDsByStatus(ctx context.Context, status model.BookingStatus) ([]uint64, error) {
	const q = `SELECT bid FROM bookings WHERE LOWER(status) = LOWER(?) ORDER BY bid`
	rows, err := t.tx.QueryContext(ctx, q, string(status))
	if err != nil {
		return nil, storeErr("bookings by status", err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("bookings by status scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("bookings by status rows", err)
	}
	return ids, nil
}

func (t *bookingTx) SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ? WHERE bid = ?`
	_, err := t.tx.ExecContext(ctx, q, string(status), bookingID)
	return storeErr("set booking status", err)
}

func (t *bookingTx) DeleteBooking(ctx context.Context, bookingID uint64) error {
	const q = `DELETE FROM bookings WHERE bid = ?`
	_, err := t.tx.ExecContext(ctx, q, bookingID)
	return storeErr("delete booking", err)
}

func (t *bookingTx) SeatByID(ctx context.Context, seatID uint64) (*booking.SeatState, error) {
	const q = `SELECT ss.ssid, ss.sid, ss.csid, ss.bid, ss.price, cs.stype
	           FROM show_seats ss
	           JOIN cinema_seats cs ON cs.csid = ss.csid
	           WHERE ss.ssid = ?`
	var st booking.SeatState
	var bid sql.NullInt64
	err := t.tx.QueryRowContext(ctx, q, seatID).Scan(
		&st.ID, &st.ShowID, &st.CinemaSeatID, &bid, &st.PriceCents, &st.SeatType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("seat by id", err)
	}
	if bid.Valid {
		b := uint64(bid.Int64)
		st.BookingID = &b
	}
	return &st, nil
}

// AssignSeat binds the seat to the booking only if it still belongs to
// the show and is still free.  The availability check and the write
// are one statement, so a concurrent session racing for the same seat
// loses cleanly: its update affects zero rows and false is returned.
func (t *bookingTx) AssignSeat(ctx context.Context, showID, seatID, bookingID uint64) (bool, error) {
	const q = `UPDATE show_seats SET bid = ? WHERE ssid = ? AND sid = ? AND bid IS NULL`
	res, err := t.tx.ExecContext(ctx, q, bookingID, seatID, showID)
	if err != nil {
		return false, storeErr("assign seat", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("assign seat rows", err)
	}
	return n > 0, nil
}

func (t *bookingTx) ReleaseSeat(ctx context.Context, seatID, bookingID uint64) (bool, error) {
	const q = `UPDATE show_seats SET bid = NULL WHERE ssid = ? AND bid = ?`
	res, err := t.tx.ExecContext(ctx, q, seatID, bookingID)
	if err != nil {
		return false, storeErr("release seat", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("release seat rows", err)
	}
	return n > 0, nil
}

func (t *bookingTx) ReleaseSeats(ctx context.Context, bookingID uint64) (int64, error) {
	const q = `UPDATE show_seats SET bid = NULL WHERE bid = ?`
	res, err := t.tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return 0, storeErr("release seats", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("release seats rows", err)
	}
	return n, nil
}

func (t *bookingTx) DeletePayments(ctx context.Context, bookingID uint64) (int64, error) {
	const q = `DELETE FROM payments WHERE bid = ?`
	res, err := t.tx.ExecContext(ctx, q, bookingID)
	if err != nil {
		return 0, storeErr("delete payments", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete payments rows", err)
	}
	return n, nil
}

func (t *bookingTx) ShowIDsOnDateAtCinema(ctx context.Context, cinemaName, date string) ([]uint64, error) {
	const q = `SELECT DISTINCT s.sid
	           FROM shows s
	           JOIN plays p    ON p.sid = s.sid
	           JOIN theaters t ON t.tid = p.tid
	           JOIN cinemas c  ON c.cid = t.cid
	           WHERE s.sdate = ? AND c.cname = ?`
	rows, err := t.tx.QueryContext(ctx, q, date, cinemaName)
	if err != nil {
		return nil, storeErr("shows on date at cinema", err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("shows on date scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("shows on date rows", err)
	}
	return ids, nil
}

func (t *bookingTx) BookingIDsByShow(ctx context.Context, showID uint64) ([]uint64, error) {
	const q = `SELECT bid FROM bookings WHERE sid = ? ORDER BY bid`
	rows, err := t.tx.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, storeErr("bookings by show", err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("bookings by show scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("bookings by show rows", err)
	}
	return ids, nil
}

func (t *bookingTx) DeleteShowSeats(ctx context.Context, showID uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM show_seats WHERE sid = ?`, showID)
	return storeErr("delete show seats", err)
}

func (t *bookingTx) DeletePlays(ctx context.Context, showID uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM plays WHERE sid = ?`, showID)
	return storeErr("delete plays", err)
}

func (t *bookingTx) DeleteShow(ctx context.Context, showID uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM shows WHERE sid = ?`, showID)
	return storeErr("delete show", err)
}
