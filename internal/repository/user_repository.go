package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/utils"
)

// UserRepo provides data access to the `users` table.  It owns every
// credential mutation so that password hashes never leave this layer in
// plain form.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, password_hash, role, tech_area, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.TechArea, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create hashes the password and inserts a new user, returning its ID.
// The username is trimmed; role defaults to "user" when empty.
func (r *UserRepo) Create(ctx context.Context, username, password, techArea, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = model.RoleUser
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role, tech_area) VALUES (?,?,?,?)",
		username, hash, role, techArea)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.  Returns ErrUserNotFound when the id no
// longer resolves, which the authorization guard maps to 401 for tokens
// issued before the account was deleted.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users, optionally filtered by tech area.  Pass an
// empty techArea for the unfiltered admin listing.
func (r *UserRepo) List(ctx context.Context, techArea string) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users"
	var args []any
	if techArea != "" {
		q += " WHERE tech_area=?"
		args = append(args, techArea)
	}
	q += " ORDER BY id ASC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdatePassword replaces the stored hash for the given user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateTechArea moves the user into a different tech area.  Desks the
// user currently occupies are not re-checked: the occupancy was valid at
// claim time and stands until released.
func (r *UserRepo) UpdateTechArea(ctx context.Context, id uint64, techArea string) error {
	// Existence is checked separately: MySQL reports zero affected rows
	// for a same-value update, which is not a missing user.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET tech_area=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", techArea, id)
	return err
}

// Delete removes a user.  Any desk the user occupies is released inside
// the same transaction so that no desk is left pointing at a deleted
// account.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"UPDATE desks SET status=?, user_id=NULL, updated_at=CURRENT_TIMESTAMP WHERE user_id=?",
		model.DeskAvailable, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrUserNotFound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// requireRow converts a zero-rows-affected result into notFound.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
