package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/repository"
)

// SearchHandler resolves a username query to the desk that user
// currently occupies.
type SearchHandler struct {
	Desks *repository.DeskRepo
}

func NewSearchHandler(d *repository.DeskRepo) *SearchHandler {
	return &SearchHandler{Desks: d}
}

// FindUserDesk handles GET /v1/search/:username.  The query is matched
// case-insensitively as a prefix against the usernames of current
// occupants; users without a desk are reported as not found even when
// the account exists.
func (h *SearchHandler) FindUserDesk(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Desks.FindDeskForUser(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found on any floor"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}
