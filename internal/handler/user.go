package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/config"
	"github.com/iliyamo/desk-booking/internal/middleware"
	"github.com/iliyamo/desk-booking/internal/repository"
	"github.com/iliyamo/desk-booking/internal/utils"
)

// UserHandler serves the self-service account endpoints.  All methods
// assume the JWT guard ran and resolved the caller to a stored user.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
type changeTechAreaReq struct {
	TechArea string `json:"tech_area"`
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        u.ID,
		"username":  u.Username,
		"tech_area": u.TechArea,
		"role":      u.Role,
	})
}

// UpdatePassword changes the caller's password after verifying the
// current one.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password required"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, u.ID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// UpdateTechArea moves the caller into a different tech area.  Desks
// already occupied stay occupied; the match is only enforced at claim
// time.
func (h *UserHandler) UpdateTechArea(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changeTechAreaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	area := strings.TrimSpace(req.TechArea)
	if area == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tech_area required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateTechArea(ctx, u.ID, area); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update tech area failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tech area updated"})
}

// DeleteAccount removes the caller's account.  Any desk they occupy is
// released in the same transaction.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}
