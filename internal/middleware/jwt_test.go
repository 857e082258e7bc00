package middleware_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/desk-booking/internal/middleware"
	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/repository"
	"github.com/iliyamo/desk-booking/internal/utils"
)

const testSecret = "test-secret"

func newGuardFixture(t *testing.T) *repository.UserRepo {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			tech_area     TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	// Desks table exists only to satisfy the delete cascade.
	_, err = db.Exec(`
		CREATE TABLE desks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			desk_id    TEXT NOT NULL UNIQUE,
			floor      TEXT NOT NULL,
			tech_area  TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'available',
			user_id    INTEGER NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	return repository.NewUserRepo(db)
}

// run sends a request through JWTAuth (and optional extra middleware)
// into a probe handler that reports the resolved username.
func run(t *testing.T, users *repository.UserRepo, authHeader string, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	wrapped := echo.HandlerFunc(func(c echo.Context) error {
		u := middleware.CurrentUser(c)
		require.NotNil(t, u, "guard must resolve a user before the handler runs")
		return c.String(http.StatusOK, u.Username)
	})
	for i := len(extra) - 1; i >= 0; i-- {
		wrapped = extra[i](wrapped)
	}
	wrapped = middleware.JWTAuth(testSecret, users)(wrapped)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, wrapped(e.NewContext(req, rec)))
	return rec
}

func TestJWTAuth_ResolvesUser(t *testing.T) {
	users := newGuardFixture(t)
	ctx := context.Background()

	id, err := users.Create(ctx, "alice", "pw", "backend", "", 4)
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(testSecret, id, model.RoleUser)
	require.NoError(t, err)

	rec := run(t, users, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", rec.Body.String())
}

func TestJWTAuth_RejectsMissingOrBadToken(t *testing.T) {
	users := newGuardFixture(t)

	rec := run(t, users, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = run(t, users, "Bearer not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	wrong, err := utils.NewAccessToken("other-secret", 1, model.RoleUser)
	require.NoError(t, err)
	rec = run(t, users, "Bearer "+wrong.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_RejectsDeletedUser(t *testing.T) {
	users := newGuardFixture(t)
	ctx := context.Background()

	id, err := users.Create(ctx, "alice", "pw", "backend", "", 4)
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(testSecret, id, model.RoleUser)
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, id))

	// The token is still signed and unexpired, but the identity no
	// longer resolves.
	rec := run(t, users, "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_EnforcesStoredRole(t *testing.T) {
	users := newGuardFixture(t)
	ctx := context.Background()

	adminID, err := users.Create(ctx, "root", "pw", "ops", model.RoleAdmin, 4)
	require.NoError(t, err)
	userID, err := users.Create(ctx, "alice", "pw", "backend", "", 4)
	require.NoError(t, err)

	adminTok, err := utils.NewAccessToken(testSecret, adminID, model.RoleAdmin)
	require.NoError(t, err)
	userTok, err := utils.NewAccessToken(testSecret, userID, model.RoleUser)
	require.NoError(t, err)

	guard := middleware.RequireRole(model.RoleAdmin)

	rec := run(t, users, "Bearer "+adminTok.Token, guard)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = run(t, users, "Bearer "+userTok.Token, guard)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
