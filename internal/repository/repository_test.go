package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/repository"
)

// Repositories run against in-memory sqlite in tests.  The SQL they
// issue is deliberately portable between MySQL and sqlite: positional ?
// placeholders, CURRENT_TIMESTAMP, no vendor functions.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One connection: every :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `
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
	_, err = db.ExecContext(ctx, `
		CREATE TABLE desks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			desk_id    TEXT NOT NULL UNIQUE,
			floor      TEXT NOT NULL,
			tech_area  TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'available',
			user_id    INTEGER NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	require.NoError(t, err)

	return db
}

func newTestRepos(t *testing.T) (*repository.UserRepo, *repository.DeskRepo) {
	t.Helper()
	db := newTestDB(t)
	return repository.NewUserRepo(db), repository.NewDeskRepo(db)
}

// mustUser registers a user with a cheap bcrypt cost and returns the row.
func mustUser(t *testing.T, users *repository.UserRepo, username, techArea, role string) model.User {
	t.Helper()
	ctx := context.Background()
	_, err := users.Create(ctx, username, "pw-"+username, techArea, role, 4)
	require.NoError(t, err)
	u, err := users.GetByUsername(ctx, username)
	require.NoError(t, err)
	return u
}

// mustDesk creates an available desk and returns its label.
func mustDesk(t *testing.T, desks *repository.DeskRepo, deskID, floor, techArea string) string {
	t.Helper()
	_, err := desks.Create(context.Background(), deskID, floor, techArea, "")
	require.NoError(t, err)
	return deskID
}
