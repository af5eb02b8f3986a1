package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arman-dp/movie-ticketing/internal/repository"
)

// ReportHandler serves the read-only administrative queries.  All
// endpoints are GETs and sit behind the Redis response cache.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(reports *repository.ReportRepo) *ReportHandler {
	if reports == nil {
		panic("nil repository passed to NewReportHandler")
	}
	return &ReportHandler{Reports: reports}
}

// ----- response DTOs -----

type theaterPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
}

type showPart struct {
	ID        uint64 `json:"id"`
	MovieID   uint64 `json:"movie_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type moviePart struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Country     string `json:"country"`
	Language    string `json:"language"`
	Genre       string `json:"genre"`
}

func reportCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 10*time.Second)
}

// TheatersPlayingShow lists the theaters of a cinema screening a given
// show.  Query params: cinema_id, show_id.
func (h *ReportHandler) TheatersPlayingShow(c echo.Context) error {
	cinemaID, ok := queryID(c, "cinema_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema_id"})
	}
	showID, ok := queryID(c, "show_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_id"})
	}

	ctx, cancel := reportCtx(c)
	defer cancel()

	theaters, err := h.Reports.TheatersPlayingShow(ctx, cinemaID, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]theaterPart, 0, len(theaters))
	for _, t := range theaters {
		out = append(out, theaterPart{ID: t.ID, Name: t.Name, Capacity: t.Capacity})
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": out})
}

// ShowsStartingAt lists the shows starting at an exact date and time.
// Query params: date (YYYY-MM-DD), start_time (HH:MM:SS).
func (h *ReportHandler) ShowsStartingAt(c echo.Context) error {
	date := c.QueryParam("date")
	startTime := c.QueryParam("start_time")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04:05", startTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM:SS"})
	}

	ctx, cancel := reportCtx(c)
	defer cancel()

	shows, err := h.Reports.ShowsStartingAt(ctx, date, startTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]showPart, 0, len(shows))
	for _, s := range shows {
		out = append(out, showPart{ID: s.ID, MovieID: s.MovieID, Date: s.Date, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// SearchMovies finds movies whose title contains a fragment and that
// were released after a date.  Query params: title, released_after.
func (h *ReportHandler) SearchMovies(c echo.Context) error {
	fragment := strings.TrimSpace(c.QueryParam("title"))
	releasedAfter := c.QueryParam("released_after")
	if fragment == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if _, err := time.Parse("2006-01-02", releasedAfter); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "released_after must be YYYY-MM-DD"})
	}

	ctx, cancel := reportCtx(c)
	defer cancel()

	movies, err := h.Reports.SearchMovies(ctx, fragment, releasedAfter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]moviePart, 0, len(movies))
	for _, m := range movies {
		out = append(out, moviePart{ID: m.ID, Title: m.Title, ReleaseDate: m.ReleaseDate, Country: m.Country, Language: m.Language, Genre: m.Genre})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": out})
}

// UsersWithPendingBooking lists the name and email of every user who
// currently holds a Pending booking.
func (h *ReportHandler) UsersWithPendingBooking(c echo.Context) error {
	ctx, cancel := reportCtx(c)
	defer cancel()

	users, err := h.Reports.UsersWithPendingBooking(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// ShowingsInRange lists the showings of a movie at a cinema between
// two dates.  Query params: movie, cinema, from, to.
func (h *ReportHandler) ShowingsInRange(c echo.Context) error {
	movie := strings.TrimSpace(c.QueryParam("movie"))
	cinema := strings.TrimSpace(c.QueryParam("cinema"))
	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if movie == "" || cinema == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie/cinema required"})
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from/to must be YYYY-MM-DD"})
		}
	}

	ctx, cancel := reportCtx(c)
	defer cancel()

	rowsOut, err := h.Reports.ShowingsAtCinemaInRange(ctx, movie, cinema, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showings": rowsOut})
}

// BookingHistory lists every booking of one user, newest first, with
// the seats reserved under each.
func (h *ReportHandler) BookingHistory(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reportCtx(c)
	defer cancel()

	history, err := h.Reports.BookingHistory(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"email": email, "bookings": history})
}

func queryID(c echo.Context, name string) (uint64, bool) {
	return parseID(c.QueryParam(name))
}
