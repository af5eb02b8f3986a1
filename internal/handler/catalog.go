package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arman-dp/movie-ticketing/internal/repository"
)

// CatalogHandler manages the movie/show side of the catalog: adding a
// showing and listing the seats still free for a show.
type CatalogHandler struct {
	Shows *repository.ShowRepo
}

func NewCatalogHandler(shows *repository.ShowRepo) *CatalogHandler {
	if shows == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Shows: shows}
}

type addShowingReq struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // YYYY-MM-DD
	Country     string `json:"country"`
	Description string `json:"description"`
	Duration    uint32 `json:"duration_min"`
	Language    string `json:"language"`
	Genre       string `json:"genre"`
	ShowDate    string `json:"show_date"`  // YYYY-MM-DD
	StartTime   string `json:"start_time"` // HH:MM:SS
	EndTime     string `json:"end_time"`   // HH:MM:SS
	TheaterID   uint64 `json:"theater_id"`
}

// AddShowing registers a new movie together with one show of it at an
// existing theater.  Movie, show and plays rows are inserted in one
// transaction.
func (h *CatalogHandler) AddShowing(c echo.Context) error {
	var req addShowingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.TheaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/theater_id required"})
	}
	for _, d := range []string{req.ReleaseDate, req.ShowDate} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
		}
	}
	for _, t := range []string{req.StartTime, req.EndTime} {
		if _, err := time.Parse("15:04:05", t); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "times must be HH:MM:SS"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	movieID, showID, err := h.Shows.CreateShowing(ctx, repository.NewShowing{
		Title:       req.Title,
		ReleaseDate: req.ReleaseDate,
		Country:     req.Country,
		Description: req.Description,
		Duration:    req.Duration,
		Language:    req.Language,
		Genre:       req.Genre,
		ShowDate:    req.ShowDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TheaterID:   req.TheaterID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showing failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"movie_id": movieID, "show_id": showID})
}

// FreeSeats lists the still-unbooked seats of a show at one theater.
// The list is advisory; the booking transaction makes the final call.
func (h *CatalogHandler) FreeSeats(c echo.Context) error {
	showID, ok := pathID(c, "show_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	theaterID, ok := pathID(c, "theater_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seats, err := h.Shows.FreeSeatsForShow(ctx, showID, theaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list free seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "theater_id": theaterID, "seats": seats})
}
