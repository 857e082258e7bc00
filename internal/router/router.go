package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/desk-booking/internal/config"
	"github.com/iliyamo/desk-booking/internal/handler"
	"github.com/iliyamo/desk-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration and login under /v1/auth.  Both
// endpoints are unauthenticated; a successful login returns the bearer
// token used everywhere else.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterPublic registers the unauthenticated read endpoints: the
// per-floor desk listing and the directory search.  Both sit behind the
// Redis response cache when one is configured; cacheCfg/rdb may be
// zero/nil to run uncached.
func RegisterPublic(e *echo.Echo, d *handler.DeskHandler, s *handler.SearchHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/floors/:floor/desks", d.ListFloorDesks, cache)
	e.GET("/v1/search/:username", s.FindUserDesk, cache)
}
