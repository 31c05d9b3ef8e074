package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/repository"
	"github.com/skybook/flight-reservation-api/internal/utils"
)

// ReservationHandler serves a user's own reservations: history, detail,
// cancellation and the boarding QR code.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Payments     *repository.PaymentRepo
}

func NewReservationHandler(r *repository.ReservationRepo, p *repository.PaymentRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Payments: p}
}

// ListMine returns the authenticated user's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list, "count": len(list)})
}

// Get returns one reservation with passengers and seats. Someone else's
// reservation reads as 404, never 403, so ids cannot be probed.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Reservations.GetByIDForUser(ctx, id, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Cancel releases the seats of a confirmed reservation.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Reservations.Cancel(ctx, id, currentUserID(c)); {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already canceled"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// QRCode renders the reservation's boarding token as a PNG.
func (h *ReservationHandler) QRCode(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	size := 256
	if s := c.QueryParam("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, err := h.Reservations.GetQRCode(ctx, id, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	png, err := utils.RenderQRPNG(token, size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render qr failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// PaymentHistory returns the user's payment history.
func (h *ReservationHandler) PaymentHistory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": list, "count": len(list)})
}
