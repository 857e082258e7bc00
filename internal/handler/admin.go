package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/config"
	"github.com/iliyamo/desk-booking/internal/queue"
	"github.com/iliyamo/desk-booking/internal/repository"
	queue_publisher "github.com/iliyamo/desk-booking/internal/service"
)

// AdminHandler bundles the repositories needed for account management,
// bulk import and floor resets.  Routes using it are guarded by
// RequireRole("admin").
type AdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Desks *repository.DeskRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, d *repository.DeskRepo) *AdminHandler {
	if u == nil || d == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Users: u, Desks: d}
}

type setPasswordReq struct {
	Password string `json:"password"`
}

// userResp is the wire shape for a user in admin listings.  The
// password hash never leaves the repository layer.
type userResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	TechArea string `json:"tech_area"`
}

// ListUsers handles GET /v1/admin/users with an optional ?tech_area=
// filter.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, strings.TrimSpace(c.QueryParam("tech_area")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userResp{ID: u.ID, Username: u.Username, Role: u.Role, TechArea: u.TechArea})
	}
	return c.JSON(http.StatusOK, out)
}

// ListDesks handles GET /v1/admin/desks with an optional ?tech_area=
// filter.
func (h *AdminHandler) ListDesks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	desks, err := h.Desks.List(ctx, strings.TrimSpace(c.QueryParam("tech_area")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toDeskResps(desks))
}

// importBody reads the import document either from an uploaded
// multipart file (field "file") or from the raw request body.
func importBody(c echo.Context) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request().Body)
}

// ImportUsers handles POST /v1/admin/import/users.  The whole file is
// one transaction: existing usernames are skipped untouched, any
// malformed record rolls everything back.
func (h *AdminHandler) ImportUsers(c echo.Context) error {
	body, err := importBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read import file failed"})
	}
	var doc repository.UserImportDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "import failed: invalid JSON"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Users.ImportUsers(ctx, doc, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrImportFailed) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// ImportDesks handles POST /v1/admin/import/desks with the same policy
// as ImportUsers.
func (h *AdminHandler) ImportDesks(c echo.Context) error {
	body, err := importBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read import file failed"})
	}
	var doc repository.DeskImportDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "import failed: invalid JSON"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Desks.ImportDesks(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrImportFailed) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// pathUserID parses the :id path parameter.
func pathUserID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

// DeleteUser handles DELETE /v1/admin/users/:id.  The user's desk, if
// any, is released in the same transaction.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// UpdateUserPassword handles PUT /v1/admin/users/:id/password.
func (h *AdminHandler) UpdateUserPassword(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setPasswordReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, id, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// UpdateUserTechArea handles PUT /v1/admin/users/:id/tech-area.
func (h *AdminHandler) UpdateUserTechArea(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req changeTechAreaReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TechArea) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tech_area required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateTechArea(ctx, id, strings.TrimSpace(req.TechArea)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update tech area failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "tech area updated"})
}

// ResetFloor handles POST /v1/admin/floors/:floor/reset.  Every desk on
// the floor becomes available with its occupant cleared; running it on
// an already clean floor is a no-op.
func (h *AdminHandler) ResetFloor(c echo.Context) error {
	floor := strings.TrimSpace(c.Param("floor"))
	if floor == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	count, err := h.Desks.ResetFloor(ctx, floor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}

	go func(ev queue.DeskActivityEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishDeskActivity(pubCtx, ev)
	}(queue.DeskActivityEvent{
		Action: queue.ActionFloorReset,
		Floor:  floor,
		Count:  count,
		At:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"floor": floor, "reset": count})
}
