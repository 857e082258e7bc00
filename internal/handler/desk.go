package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/middleware"
	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/queue"
	"github.com/iliyamo/desk-booking/internal/repository"
	queue_publisher "github.com/iliyamo/desk-booking/internal/service"
)

// DeskHandler serves desk listing and the claim/release operation.
type DeskHandler struct {
	Desks *repository.DeskRepo
}

func NewDeskHandler(d *repository.DeskRepo) *DeskHandler {
	if d == nil {
		panic("nil repository passed to NewDeskHandler")
	}
	return &DeskHandler{Desks: d}
}

type deskUpdateReq struct {
	Status string `json:"status"` // "occupied" or "available"
}

// deskResp is the wire shape for a desk.  The occupant id is omitted
// when the desk is free.
type deskResp struct {
	DeskID   string  `json:"desk_id"`
	Floor    string  `json:"floor"`
	TechArea string  `json:"tech_area"`
	Status   string  `json:"status"`
	UserID   *uint64 `json:"user_id,omitempty"`
}

func toDeskResp(d model.Desk) deskResp {
	return deskResp{
		DeskID:   d.DeskID,
		Floor:    d.Floor,
		TechArea: d.TechArea,
		Status:   d.Status,
		UserID:   d.UserID,
	}
}

func toDeskResps(desks []model.Desk) []deskResp {
	out := make([]deskResp, 0, len(desks))
	for _, d := range desks {
		out = append(out, toDeskResp(d))
	}
	return out
}

// ListFloorDesks handles GET /v1/floors/:floor/desks.  Public: anyone
// may inspect a floor before logging in to claim.
func (h *DeskHandler) ListFloorDesks(c echo.Context) error {
	floor := strings.TrimSpace(c.Param("floor"))
	if floor == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	desks, err := h.Desks.ListByFloor(ctx, floor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toDeskResps(desks))
}

// UpdateDesk handles POST /v1/floors/:floor/desks/:desk_id.  It runs
// the desk assignment rules on behalf of the authenticated caller:
// claims require a matching tech area and a free desk, releases clear
// the occupant unconditionally.  A successful transition emits a desk
// activity event; publish failures are ignored because the claim has
// already committed.
func (h *DeskHandler) UpdateDesk(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	floor := strings.TrimSpace(c.Param("floor"))
	deskID := strings.TrimSpace(c.Param("desk_id"))
	if floor == "" || deskID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor and desk_id required"})
	}
	var req deskUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidDeskStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be occupied or available"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	desk, err := h.Desks.Claim(ctx, *u, floor, deskID, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDeskNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "desk not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only book desks in your tech area"})
	case errors.Is(err, repository.ErrDeskOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": "desk already occupied"})
	case errors.Is(err, repository.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be occupied or available"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update desk failed"})
	}

	action := queue.ActionReleased
	if desk.Status == model.DeskOccupied {
		action = queue.ActionClaimed
	}
	go func(ev queue.DeskActivityEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishDeskActivity(pubCtx, ev)
	}(queue.DeskActivityEvent{
		Action:   action,
		DeskID:   desk.DeskID,
		Floor:    desk.Floor,
		TechArea: desk.TechArea,
		UserID:   u.ID,
		Username: u.Username,
		At:       time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, toDeskResp(desk))
}
