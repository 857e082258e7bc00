package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/handler"
	"github.com/iliyamo/desk-booking/internal/middleware"
	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/repository"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin.  All
// routes require a valid bearer token resolving to a user whose stored
// role is admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret, users),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/users", a.ListUsers)
	g.GET("/desks", a.ListDesks)

	g.POST("/import/users", a.ImportUsers)
	g.POST("/import/desks", a.ImportDesks)

	g.DELETE("/users/:id", a.DeleteUser)
	g.PUT("/users/:id/password", a.UpdateUserPassword)
	g.PUT("/users/:id/tech-area", a.UpdateUserTechArea)

	g.POST("/floors/:floor/reset", a.ResetFloor)
}
