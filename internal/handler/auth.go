package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skybook/flight-reservation-api/internal/config"
	"github.com/skybook/flight-reservation-api/internal/repository"
	"github.com/skybook/flight-reservation-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Roles  *repository.RoleRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *repository.RoleRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Roles: r, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Age      *uint8 `json:"age" validate:"omitempty,gte=1,lte=120"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type updateProfileReq struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Age      *uint8 `json:"age" validate:"omitempty,gte=1,lte=120"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a user account and returns a token pair immediately.
// Self-registration always lands on the User role; admins are promoted
// through the admin console, never at signup.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, repository.RoleUser)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}

	hash, err := utils.SecurePassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u := &repository.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Age:          req.Age,
		RoleID:       role.ID,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.issueTokens(c, http.StatusCreated, u, role.RoleName)
}

// Login verifies credentials and returns a new token pair. Accounts created
// before hashing was introduced still carry plaintext passwords; those are
// verified as-is and rewritten in the salted format on the spot.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if utils.IsLegacyPassword(u.PasswordHash) {
		if hash, err := utils.SecurePassword(req.Password); err == nil {
			_ = h.Users.UpdatePassword(ctx, u.ID, hash)
		}
	}

	role, err := h.Roles.GetByID(ctx, u.RoleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}
	return h.issueTokens(c, http.StatusOK, u, role.RoleName)
}

func (h *AuthHandler) issueTokens(c echo.Context, status int, u *repository.User, roleName string) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, roleName, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		User:    userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: roleName},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	role, err := h.Roles.GetByID(ctx, u.RoleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load role failed"})
	}
	return h.issueTokens(c, http.StatusOK, u, role.RoleName)
}

// Logout revokes a single session when a refresh token is supplied, or all
// of the user's sessions when called with just the access token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"phone":    u.Phone,
		"age":      u.Age,
		"role":     currentRole(c),
	})
}

// UpdateMe rewrites the authenticated user's profile fields.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := &repository.User{
		ID:       currentUserID(c),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Age:      req.Age,
	}
	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword verifies the current password and stores a new one, then
// revokes every refresh token so other sessions must log in again.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid := currentUserID(c)
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	hash, err := utils.SecurePassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, uid)
	return c.NoContent(http.StatusNoContent)
}
