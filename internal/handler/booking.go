package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arman-dp/movie-ticketing/internal/booking"
	"github.com/arman-dp/movie-ticketing/internal/model"
	"github.com/arman-dp/movie-ticketing/internal/queue"
	queue_publisher "github.com/arman-dp/movie-ticketing/internal/service"
)

// BookingHandler exposes the booking transaction over HTTP.  Every
// endpoint delegates to the booking service, which runs the mutation
// inside one store transaction.
type BookingHandler struct {
	Svc *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// ----- DTOs -----

type createBookingReq struct {
	Email     string   `json:"email"`
	CinemaID  uint64   `json:"cinema_id"`
	TheaterID uint64   `json:"theater_id"`
	ShowID    uint64   `json:"show_id"`
	MovieID   uint64   `json:"movie_id"`
	SeatIDs   []uint64 `json:"seat_ids"`
}

type bookingResp struct {
	ID       uint64 `json:"id"`
	Status   string `json:"status"`
	BookedAt string `json:"booked_at"`
	NumSeats int    `json:"num_seats"`
	ShowID   uint64 `json:"show_id"`
	Email    string `json:"email"`
}

type exchangeSeatReq struct {
	OldSeatID uint64 `json:"old_seat_id"`
	NewSeatID uint64 `json:"new_seat_id"`
}

type removeShowsReq struct {
	CinemaName string `json:"cinema_name"`
	Date       string `json:"date"` // YYYY-MM-DD
}

// bookingError translates the service error taxonomy into HTTP codes.
// Validation-ladder failures are 422 because the body parsed fine and
// the referenced entity is what does not exist.
func bookingError(c echo.Context, err error) error {
	var su *booking.SeatUnavailableError
	switch {
	case errors.As(err, &su):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable", "seat_id": su.SeatID})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrUnknownUser),
		errors.Is(err, booking.ErrUnknownTheater),
		errors.Is(err, booking.ErrUnknownShow),
		errors.Is(err, booking.ErrShowNotPlayedHere),
		errors.Is(err, booking.ErrInvalidSeatCount):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotPaid),
		errors.Is(err, booking.ErrPriceMismatch),
		errors.Is(err, booking.ErrSeatNotInBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}

// publishEvent ships a booking event to the broker without blocking
// the response.  Failures are logged inside the publisher.
func publishEvent(ev queue.BookingEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingEvent(ctx, ev)
	}()
}

func parseID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	return n, err == nil && n > 0
}

func pathID(c echo.Context, name string) (uint64, bool) {
	return parseID(c.Param(name))
}

// Create books the requested seats for a user in one transaction.  A
// seat already owned by another booking fails the whole request with
// 409 and leaves no partial state behind.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Svc.CreateBooking(ctx, booking.CreateBookingRequest{
		Email:     req.Email,
		CinemaID:  req.CinemaID,
		TheaterID: req.TheaterID,
		ShowID:    req.ShowID,
		MovieID:   req.MovieID,
		SeatIDs:   req.SeatIDs,
	})
	if err != nil {
		return bookingError(c, err)
	}

	publishEvent(queue.BookingEvent{
		Kind:       queue.KindBookingCreated,
		BookingID:  b.ID,
		UserEmail:  b.UserEmail,
		ShowID:     b.ShowID,
		Status:     string(b.Status),
		NumSeats:   b.NumSeats,
		SeatIDs:    req.SeatIDs,
		OccurredAt: b.BookedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, bookingResp{
		ID:       b.ID,
		Status:   string(b.Status),
		BookedAt: b.BookedAt.Format(time.RFC3339),
		NumSeats: b.NumSeats,
		ShowID:   b.ShowID,
		Email:    b.UserEmail,
	})
}

// AllocateSeats binds additional free seats to an existing booking.
func (h *BookingHandler) AllocateSeats(c echo.Context) error {
	bid, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		ShowID  uint64   `json:"show_id"`
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	n, err := h.Svc.AllocateSeats(ctx, req.ShowID, req.SeatIDs, bid)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": bid, "allocated": n})
}

// ExchangeSeat swaps one reserved seat of a booking for a free seat of
// the same show and the same price tier.
func (h *BookingHandler) ExchangeSeat(c echo.Context) error {
	bid, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req exchangeSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OldSeatID == 0 || req.NewSeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old/new seat required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Svc.ExchangeSeat(ctx, bid, req.OldSeatID, req.NewSeatID); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": bid, "old_seat_id": req.OldSeatID, "new_seat_id": req.NewSeatID})
}

// CancelPending flips every Pending booking to Cancelled and frees its
// seats.  Running it twice is harmless; the second run reports zero.
func (h *BookingHandler) CancelPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	n, err := h.Svc.CancelAllPending(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	if n > 0 {
		publishEvent(queue.BookingEvent{
			Kind:       queue.KindBookingCancelled,
			Status:     string(model.StatusCancelled),
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": n})
}

// RemovePayment refunds a Paid booking: its payment rows are deleted,
// the booking flips to Cancelled and its seats are released.
func (h *BookingHandler) RemovePayment(c echo.Context) error {
	bid, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Svc.RemovePayment(ctx, bid); err != nil {
		return bookingError(c, err)
	}
	publishEvent(queue.BookingEvent{
		Kind:       queue.KindPaymentRemoved,
		BookingID:  bid,
		Status:     string(model.StatusCancelled),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"booking_id": bid, "status": string(model.StatusCancelled)})
}

// ClearCancelled purges every Cancelled booking together with its
// payments, releasing any seat still pointing at it first.
func (h *BookingHandler) ClearCancelled(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	n, err := h.Svc.ClearCancelled(ctx)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

// RemoveShowsOnDate deletes every show of a cinema on one date,
// cancelling the bookings that depended on those shows.
func (h *BookingHandler) RemoveShowsOnDate(c echo.Context) error {
	var req removeShowsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CinemaName == "" || req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cinema_name/date required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	n, err := h.Svc.RemoveShowsOnDate(ctx, req.CinemaName, req.Date)
	if err != nil {
		log.Printf("remove shows on date failed: %v", err)
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"removed_shows": n})
}
