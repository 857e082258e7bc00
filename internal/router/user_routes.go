package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/handler"
	"github.com/iliyamo/desk-booking/internal/middleware"
	"github.com/iliyamo/desk-booking/internal/repository"
)

// RegisterUser registers the self-service account endpoints and the
// desk claim endpoint under /v1.  All routes require a valid bearer
// token; the guard resolves it to a stored user before any handler
// runs.
func RegisterUser(e *echo.Echo, u *handler.UserHandler, d *handler.DeskHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret, users))

	g.GET("/me", u.Me)
	g.PUT("/me/password", u.UpdatePassword)
	g.PUT("/me/tech-area", u.UpdateTechArea)
	g.DELETE("/me", u.DeleteAccount)

	// Claim or release a desk.  Tech-area and occupancy rules are
	// enforced by the repository inside one transaction.
	g.POST("/floors/:floor/desks/:desk_id", d.UpdateDesk)
}
