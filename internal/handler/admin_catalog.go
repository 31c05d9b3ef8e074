package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

// AdminCatalogHandler covers the admin CRUD surface for the static catalog:
// airports, airlines, aircraft, seats and weekly schedules.
type AdminCatalogHandler struct {
	Airports  *repository.AirportRepo
	Airlines  *repository.AirlineRepo
	Aircraft  *repository.AircraftRepo
	Seats     *repository.SeatRepo
	Schedules *repository.ScheduleRepo
}

func NewAdminCatalogHandler(ap *repository.AirportRepo, al *repository.AirlineRepo, ac *repository.AircraftRepo, s *repository.SeatRepo, sc *repository.ScheduleRepo) *AdminCatalogHandler {
	return &AdminCatalogHandler{Airports: ap, Airlines: al, Aircraft: ac, Seats: s, Schedules: sc}
}

// ----- airports -----

type airportReq struct {
	CountryID uint64 `json:"country_id" validate:"required"`
	Code      string `json:"code" validate:"required,len=3,alpha"`
	Name      string `json:"name" validate:"required,max=128"`
	Address   string `json:"address" validate:"omitempty,max=256"`
	Status    string `json:"status" validate:"omitempty,oneof=Active Inactive UnderMaintenance"`
}

func (h *AdminCatalogHandler) CreateAirport(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = repository.AirportActive
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &repository.Airport{CountryID: req.CountryID, Code: req.Code, Name: req.Name, Address: req.Address, Status: req.Status}
	if err := h.Airports.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airport failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AdminCatalogHandler) UpdateAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = repository.AirportActive
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &repository.Airport{ID: id, CountryID: req.CountryID, Code: req.Code, Name: req.Name, Address: req.Address, Status: req.Status}
	if err := h.Airports.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airport failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAirport refuses to remove an airport that still has flights
// departing or arriving through it.
func (h *AdminCatalogHandler) DeleteAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airport id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	dep, err := h.Airports.DepartureFlightIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airport failed"})
	}
	arr, err := h.Airports.ArrivalFlightIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airport failed"})
	}
	if len(dep)+len(arr) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "airport still has flights"})
	}
	if err := h.Airports.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airport failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- airlines -----

type airlineReq struct {
	Name string `json:"name" validate:"required,max=128"`
	Code string `json:"code" validate:"required,min=2,max=3,alphanum"`
}

func (h *AdminCatalogHandler) CreateAirline(c echo.Context) error {
	var req airlineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &repository.Airline{Name: req.Name, Code: req.Code}
	if err := h.Airlines.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airline failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AdminCatalogHandler) ListAirlines(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Airlines.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airlines failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"airlines": list})
}

func (h *AdminCatalogHandler) UpdateAirline(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airline id"})
	}
	var req airlineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &repository.Airline{ID: id, Name: req.Name, Code: req.Code}
	if err := h.Airlines.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrAirlineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airline not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airline failed"})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AdminCatalogHandler) DeleteAirline(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airline id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fleet, err := h.Aircraft.ListByAirline(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airline failed"})
	}
	if len(fleet) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "airline still has aircraft"})
	}
	if err := h.Airlines.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAirlineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airline not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airline failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- aircraft and seats -----

type aircraftReq struct {
	AirlineID         uint64  `json:"airline_id" validate:"required"`
	Model             string  `json:"model" validate:"required,max=64"`
	ManufacturingYear *uint16 `json:"manufacturing_year" validate:"omitempty,gte=1950,lte=2100"`
}

// seatLayoutReq describes a generated cabin: rows of seats per class block.
type seatLayoutReq struct {
	FirstClassRows uint `json:"first_class_rows" validate:"lte=10"`
	BusinessRows   uint `json:"business_rows" validate:"lte=20"`
	EconomyRows    uint `json:"economy_rows" validate:"required,gte=1,lte=60"`
	SeatsPerRow    uint `json:"seats_per_row" validate:"required,gte=2,lte=10"`
}

func (h *AdminCatalogHandler) CreateAircraft(c echo.Context) error {
	var req aircraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Airlines.GetByID(ctx, req.AirlineID); err != nil {
		if errors.Is(err, repository.ErrAirlineNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airline not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create aircraft failed"})
	}
	a := &repository.Aircraft{AirlineID: req.AirlineID, Model: req.Model, ManufacturingYear: req.ManufacturingYear}
	if err := h.Aircraft.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create aircraft failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AdminCatalogHandler) ListAircraft(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Aircraft.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load aircraft failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"aircraft": list})
}

func (h *AdminCatalogHandler) DeleteAircraft(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Seats.DeleteByAircraft(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete aircraft failed"})
	}
	if err := h.Aircraft.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete aircraft failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateSeats lays out an aircraft cabin: first class rows, then business,
// then economy, lettered A.. within each numbered row.
func (h *AdminCatalogHandler) GenerateSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}
	var req seatLayoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Aircraft.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAircraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate seats failed"})
	}
	existing, err := h.Seats.ListByAircraft(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate seats failed"})
	}
	if len(existing) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "aircraft already has seats"})
	}

	var seats []repository.Seat
	row := uint(0)
	appendRows := func(count uint, class string) {
		for r := uint(0); r < count; r++ {
			row++
			for s := uint(0); s < req.SeatsPerRow; s++ {
				seats = append(seats, repository.Seat{
					AircraftID: id,
					SeatNumber: fmt.Sprintf("%c%d", 'A'+s, row),
					SeatClass:  class,
				})
			}
		}
	}
	appendRows(req.FirstClassRows, repository.SeatClassFirstClass)
	appendRows(req.BusinessRows, repository.SeatClassBusiness)
	appendRows(req.EconomyRows, repository.SeatClassEconomy)

	if err := h.Seats.CreateBulk(ctx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"aircraft_id": id, "seats_created": len(seats)})
}

func (h *AdminCatalogHandler) ListSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid aircraft id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	seats, err := h.Seats.ListByAircraft(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats, "count": len(seats)})
}

// ----- weekly schedules -----

type scheduleReq struct {
	DayOfWeek     string `json:"day_of_week" validate:"required"`
	DepartureTime string `json:"departure_time" validate:"required,len=5"`
}

func (h *AdminCatalogHandler) CreateSchedule(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !repository.ValidWeekday(req.DayOfWeek) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown day of week"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &repository.WeeklySchedule{DayOfWeek: req.DayOfWeek, DepartureTime: req.DepartureTime}
	if err := h.Schedules.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *AdminCatalogHandler) ListSchedules(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Schedules.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedules failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": list})
}

func (h *AdminCatalogHandler) UpdateSchedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !repository.ValidWeekday(req.DayOfWeek) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown day of week"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := &repository.WeeklySchedule{ID: id, DayOfWeek: req.DayOfWeek, DepartureTime: req.DepartureTime}
	if err := h.Schedules.Update(ctx, s); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update schedule failed"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminCatalogHandler) DeleteSchedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
