package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

// SearchHandler serves the public browse endpoints: flight search, flight
// detail and the airport catalog.
type SearchHandler struct {
	Flights     *repository.FlightRepo
	AirportRepo *repository.AirportRepo
	Seats       *repository.SeatRepo
}

func NewSearchHandler(f *repository.FlightRepo, a *repository.AirportRepo, s *repository.SeatRepo) *SearchHandler {
	return &SearchHandler{Flights: f, AirportRepo: a, Seats: s}
}

type flightResp struct {
	ID            uint64  `json:"id"`
	From          string  `json:"from"`
	FromName      string  `json:"from_name"`
	To            string  `json:"to"`
	ToName        string  `json:"to_name"`
	Gate          string  `json:"gate"`
	Duration      *uint32 `json:"duration_minutes"`
	DayOfWeek     string  `json:"day_of_week"`
	DepartureTime string  `json:"departure_time"`
	AircraftModel string  `json:"aircraft_model"`
}

func toFlightResp(r repository.FlightSearchRow) flightResp {
	return flightResp{
		ID:            r.FlightID,
		From:          r.FromCode,
		FromName:      r.FromName,
		To:            r.ToCode,
		ToName:        r.ToName,
		Gate:          r.Gate,
		Duration:      r.Duration,
		DayOfWeek:     r.DayOfWeek,
		DepartureTime: r.DepartureTime,
		AircraftModel: r.AircraftModel,
	}
}

// Search lists flights between two airports on the weekday of the given
// date. Unknown or blank codes produce an empty list, not an error.
func (h *SearchHandler) Search(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Flights.Search(ctx, repository.FlightSearchQuery{
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
		Date: date,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	out := make([]flightResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, toFlightResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": out, "count": len(out)})
}

// FlightDetail returns one flight with its route, schedule and the seats of
// its aircraft (including which are already taken).
func (h *SearchHandler) FlightDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	row, err := h.Flights.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	seats, err := h.Seats.ListByAircraft(ctx, row.AircraftID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	taken, err := h.Seats.TakenSeatIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}

	type seatResp struct {
		ID         uint64 `json:"id"`
		SeatNumber string `json:"seat_number"`
		SeatClass  string `json:"seat_class"`
		Taken      bool   `json:"taken"`
	}
	seatOut := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		_, isTaken := taken[s.ID]
		seatOut = append(seatOut, seatResp{ID: s.ID, SeatNumber: s.SeatNumber, SeatClass: s.SeatClass, Taken: isTaken})
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": toFlightResp(*row), "seats": seatOut})
}

// Airports lists the airport catalog.
func (h *SearchHandler) Airports(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.AirportRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airports failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"airports": list})
}

// AirportByCode looks one airport up by its code.
func (h *SearchHandler) AirportByCode(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.AirportRepo.GetByCode(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrAirportNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airport failed"})
	}
	return c.JSON(http.StatusOK, a)
}
