// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/skybook/flight-reservation-api/internal/config"
	"github.com/skybook/flight-reservation-api/internal/handler"
	"github.com/skybook/flight-reservation-api/internal/middleware"
	"github.com/skybook/flight-reservation-api/internal/repository"
)

// Handlers groups everything the router needs to register the API surface.
type Handlers struct {
	Auth         *handler.AuthHandler
	Search       *handler.SearchHandler
	Booking      *handler.BookingHandler
	Reservations *handler.ReservationHandler
	AdminCatalog *handler.AdminCatalogHandler
	AdminFlights *handler.AdminFlightHandler
	AdminUsers   *handler.AdminUserHandler
}

// Register registers every route of the API: public browse, auth, the
// authenticated booking flow and the admin console.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	cached := middleware.NewRedisCache(cacheCfg, rdb)
	limited := middleware.NewTokenBucket(rateCfg, rdb)

	// Public browse. Responses are cacheable; search and catalog reads are
	// the hottest endpoints.
	pub := e.Group("/v1", cached)
	pub.GET("/airports", h.Search.Airports)
	pub.GET("/airports/:code", h.Search.AirportByCode)
	pub.GET("/flights/search", h.Search.Search)
	pub.GET("/flights/:id", h.Search.FlightDetail)

	// Auth. Rate-limited so credential stuffing burns out quickly.
	auth := e.Group("/v1/auth", limited)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Everything below requires a valid access token.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	v1.GET("/me", h.Auth.Me)
	v1.PUT("/me", h.Auth.UpdateMe)
	v1.PUT("/me/password", h.Auth.ChangePassword)

	v1.POST("/bookings", h.Booking.Start)
	v1.GET("/bookings/:sid", h.Booking.State)
	v1.PUT("/bookings/:sid/seats", h.Booking.SelectSeat)
	v1.DELETE("/bookings/:sid/seats/:passenger", h.Booking.DeselectSeat)
	v1.GET("/bookings/:sid/quote", h.Booking.Quote)
	v1.POST("/bookings/:sid/confirm", h.Booking.Confirm)
	v1.DELETE("/bookings/:sid", h.Booking.Abandon)

	v1.GET("/reservations", h.Reservations.ListMine)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.DELETE("/reservations/:id", h.Reservations.Cancel)
	v1.GET("/reservations/:id/qrcode", h.Reservations.QRCode)
	v1.GET("/payments", h.Reservations.PaymentHistory)

	// Admin console.
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireRole(repository.RoleAdmin))

	admin.POST("/airports", h.AdminCatalog.CreateAirport)
	admin.PUT("/airports/:id", h.AdminCatalog.UpdateAirport)
	admin.DELETE("/airports/:id", h.AdminCatalog.DeleteAirport)

	admin.GET("/airlines", h.AdminCatalog.ListAirlines)
	admin.POST("/airlines", h.AdminCatalog.CreateAirline)
	admin.PUT("/airlines/:id", h.AdminCatalog.UpdateAirline)
	admin.DELETE("/airlines/:id", h.AdminCatalog.DeleteAirline)

	admin.GET("/aircraft", h.AdminCatalog.ListAircraft)
	admin.POST("/aircraft", h.AdminCatalog.CreateAircraft)
	admin.DELETE("/aircraft/:id", h.AdminCatalog.DeleteAircraft)
	admin.GET("/aircraft/:id/seats", h.AdminCatalog.ListSeats)
	admin.POST("/aircraft/:id/seats", h.AdminCatalog.GenerateSeats)

	admin.GET("/schedules", h.AdminCatalog.ListSchedules)
	admin.POST("/schedules", h.AdminCatalog.CreateSchedule)
	admin.PUT("/schedules/:id", h.AdminCatalog.UpdateSchedule)
	admin.DELETE("/schedules/:id", h.AdminCatalog.DeleteSchedule)

	admin.GET("/flights", h.AdminFlights.List)
	admin.POST("/flights", h.AdminFlights.Create)
	admin.PUT("/flights/:id", h.AdminFlights.Update)
	admin.DELETE("/flights/:id", h.AdminFlights.Delete)

	admin.GET("/users", h.AdminUsers.List)
	admin.GET("/users/:id", h.AdminUsers.Get)
	admin.PUT("/users/:id/role", h.AdminUsers.SetRole)
	admin.DELETE("/users/:id", h.AdminUsers.Delete)
}
