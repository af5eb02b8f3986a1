package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/arman-dp/movie-ticketing/internal/booking"
	"github.com/arman-dp/movie-ticketing/internal/config"
	"github.com/arman-dp/movie-ticketing/internal/database"
	"github.com/arman-dp/movie-ticketing/internal/handler"
	"github.com/arman-dp/movie-ticketing/internal/queue"
	"github.com/arman-dp/movie-ticketing/internal/repository"
	"github.com/arman-dp/movie-ticketing/internal/router"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Optional Redis for report caching and rate limiting.  A nil
	// client degrades both middlewares to pass-throughs.
	rdb := config.NewRedisClient()

	store := repository.NewBookingStore(db)
	svc := booking.NewService(store)

	authH := handler.NewAuthHandler(cfg, repository.NewUserRepo(db))
	bookingH := handler.NewBookingHandler(svc)
	catalogH := handler.NewCatalogHandler(repository.NewShowRepo(db))
	reportH := handler.NewReportHandler(repository.NewReportRepo(db))

	// Background consumer that appends booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterBooking(e, bookingH, catalogH, cfg.JWTSecret)
	router.RegisterReports(e, reportH, catalogH, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
