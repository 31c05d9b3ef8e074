package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

// AdminFlightHandler manages flight rows: route, gate, schedule and
// aircraft assignment.
type AdminFlightHandler struct {
	Flights   *repository.FlightRepo
	Airports  *repository.AirportRepo
	Schedules *repository.ScheduleRepo
	Aircraft  *repository.AircraftRepo
}

func NewAdminFlightHandler(f *repository.FlightRepo, a *repository.AirportRepo, s *repository.ScheduleRepo, ac *repository.AircraftRepo) *AdminFlightHandler {
	return &AdminFlightHandler{Flights: f, Airports: a, Schedules: s, Aircraft: ac}
}

type flightReq struct {
	DepartureAirportID uint64  `json:"departure_airport_id" validate:"required"`
	ArrivalAirportID   uint64  `json:"arrival_airport_id" validate:"required"`
	Gate               string  `json:"gate" validate:"omitempty,max=8"`
	Duration           *uint32 `json:"duration_minutes" validate:"omitempty,gte=10,lte=1440"`
	ScheduleID         uint64  `json:"schedule_id" validate:"required"`
	AircraftID         uint64  `json:"aircraft_id" validate:"required"`
}

// checkRefs verifies every foreign key of a flight request exists and that
// the route is not a loop. Returns a ready-to-send error response or nil.
func (h *AdminFlightHandler) checkRefs(c echo.Context, req *flightReq) error {
	if req.DepartureAirportID == req.ArrivalAirportID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure and arrival airports must differ"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Airports.GetByID(ctx, req.DepartureAirportID); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "departure airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if _, err := h.Airports.GetByID(ctx, req.ArrivalAirportID); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "arrival airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if _, err := h.Schedules.GetByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if _, err := h.Aircraft.GetByID(ctx, req.AircraftID); err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return nil
}

func (h *AdminFlightHandler) Create(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if resp := h.checkRefs(c, &req); resp != nil {
		return resp
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &repository.Flight{
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		Gate:               req.Gate,
		Duration:           req.Duration,
		ScheduleID:         req.ScheduleID,
		AircraftID:         req.AircraftID,
	}
	if err := h.Flights.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flight failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *AdminFlightHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Flights.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flights failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": list})
}

func (h *AdminFlightHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if resp := h.checkRefs(c, &req); resp != nil {
		return resp
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &repository.Flight{
		ID:                 id,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		Gate:               req.Gate,
		Duration:           req.Duration,
		ScheduleID:         req.ScheduleID,
		AircraftID:         req.AircraftID,
	}
	if err := h.Flights.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update flight failed"})
	}
	return c.JSON(http.StatusOK, f)
}

func (h *AdminFlightHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Flights.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete flight failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
