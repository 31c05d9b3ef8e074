package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/repository"
)

// AdminUserHandler manages user accounts and roles.
type AdminUserHandler struct {
	Users *repository.UserRepo
	Roles *repository.RoleRepo
}

func NewAdminUserHandler(u *repository.UserRepo, r *repository.RoleRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: u, Roles: r}
}

type adminUserResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Age      *uint8 `json:"age"`
	RoleID   uint64 `json:"role_id"`
}

func toAdminUserResp(u repository.User) adminUserResp {
	return adminUserResp{ID: u.ID, Username: u.Username, Email: u.Email, Phone: u.Phone, Age: u.Age, RoleID: u.RoleID}
}

func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "count": len(out)})
}

func (h *AdminUserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toAdminUserResp(*u))
}

type setRoleReq struct {
	Role string `json:"role" validate:"required"`
}

// SetRole moves a user onto a named role, e.g. promoting to Admin.
func (h *AdminUserHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}
	if err := h.Users.UpdateRole(ctx, id, role.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user account. Admins cannot delete themselves, which
// keeps at least one working admin around.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == currentUserID(c) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
