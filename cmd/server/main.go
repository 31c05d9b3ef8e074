package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/booking"
	"github.com/skybook/flight-reservation-api/internal/config"
	"github.com/skybook/flight-reservation-api/internal/database"
	"github.com/skybook/flight-reservation-api/internal/handler"
	"github.com/skybook/flight-reservation-api/internal/queue"
	"github.com/skybook/flight-reservation-api/internal/repository"
	"github.com/skybook/flight-reservation-api/internal/router"
	"github.com/skybook/flight-reservation-api/internal/validator"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.OpenWithRetry(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
		cfg.DBConnectAttempts, cfg.DBConnectBackoff)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	tokens := repository.NewTokenRepo(db)
	airports := repository.NewAirportRepo(db)
	airlines := repository.NewAirlineRepo(db)
	aircraft := repository.NewAircraftRepo(db)
	seats := repository.NewSeatRepo(db)
	schedules := repository.NewScheduleRepo(db)
	flights := repository.NewFlightRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)

	sessions := booking.NewStore(booking.DefaultTTL)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, roles, tokens),
		Search:       handler.NewSearchHandler(flights, airports, seats),
		Booking:      handler.NewBookingHandler(sessions, flights, seats, reservations, payments),
		Reservations: handler.NewReservationHandler(reservations, payments),
		AdminCatalog: handler.NewAdminCatalogHandler(airports, airlines, aircraft, seats, schedules),
		AdminFlights: handler.NewAdminFlightHandler(flights, airports, schedules, aircraft),
		AdminUsers:   handler.NewAdminUserHandler(users, roles),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	router.Register(e, h, cfg, rdb)

	// Background consumer writes confirmed reservations to logs/reservations.log.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
