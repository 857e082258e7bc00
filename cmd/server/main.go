package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/desk-booking/internal/config"
	"github.com/iliyamo/desk-booking/internal/database"
	"github.com/iliyamo/desk-booking/internal/handler"
	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/queue"
	"github.com/iliyamo/desk-booking/internal/repository"
	"github.com/iliyamo/desk-booking/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	desks := repository.NewDeskRepo(db)

	seedAdmin(users, cfg)

	// Redis backs the response cache on the public endpoints.  A nil
	// client just disables caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache disabled")
	}

	// Desk activity log consumer.  Runs a reconnect loop for the whole
	// process lifetime.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	authH := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(cfg, users)
	deskH := handler.NewDeskHandler(desks)
	searchH := handler.NewSearchHandler(desks)
	adminH := handler.NewAdminHandler(cfg, users, desks)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterPublic(e, deskH, searchH, config.LoadCacheConfig(), rdb)
	router.RegisterUser(e, userH, deskH, cfg.JWTSecret, users)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates an initial admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and the username is not taken yet.  This is
// how the first admin gets in; registration only produces regular
// users.
func seedAdmin(users *repository.UserRepo, cfg config.Config) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	area := os.Getenv("ADMIN_TECH_AREA")
	if area == "" {
		area = "ops"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.Create(ctx, username, password, area, model.RoleAdmin, cfg.BcryptCost)
	switch {
	case err == nil:
		log.Printf("seeded admin account %q", username)
	case errors.Is(err, repository.ErrUsernameExists):
		// Already seeded on a previous start.
	default:
		log.Printf("seed admin: %v", err)
	}
}
