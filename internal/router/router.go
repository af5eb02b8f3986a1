package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/arman-dp/movie-ticketing/internal/config"
	"github.com/arman-dp/movie-ticketing/internal/handler"
	"github.com/arman-dp/movie-ticketing/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the registration and login endpoints under
// /v1/auth.  Both are unauthenticated; login issues the access token
// used by the protected groups.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterBooking registers every mutating booking endpoint behind the
// JWT middleware.  All of these change seat ownership or booking
// state, so anonymous access is never allowed.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.POST("/bookings", b.Create)
	g.POST("/bookings/:id/seats", b.AllocateSeats)
	g.POST("/bookings/:id/exchange-seat", b.ExchangeSeat)
	g.POST("/bookings/cancel-pending", b.CancelPending)
	g.DELETE("/bookings/:id/payment", b.RemovePayment)
	g.DELETE("/bookings/cancelled", b.ClearCancelled)
	g.POST("/shows/remove-on-date", b.RemoveShowsOnDate)

	g.POST("/showings", cat.AddShowing)
}

// RegisterReports registers the read-only reporting endpoints.  They
// are public, rate limited, and cached in Redis when a client is
// available; a nil Redis client turns both middlewares into
// pass-throughs.
func RegisterReports(e *echo.Echo, r *handler.ReportHandler, cat *handler.CatalogHandler, rdb *redis.Client) {
	g := e.Group("/v1/reports")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	g.GET("/theaters", r.TheatersPlayingShow)
	g.GET("/shows-starting-at", r.ShowsStartingAt)
	g.GET("/movies", r.SearchMovies)
	g.GET("/pending-users", r.UsersWithPendingBooking)
	g.GET("/showings", r.ShowingsInRange)
	g.GET("/booking-history", r.BookingHistory)

	e.GET("/v1/shows/:show_id/theaters/:theater_id/free-seats", cat.FreeSeats)
}
