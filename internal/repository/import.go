package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/utils"
)

// Bulk import documents.  The shapes are fixed by the external tooling
// that produces them: users come as a list, desks as a map keyed by
// desk_id.
type UserImportDoc struct {
	Users []UserImportRecord `json:"users"`
}

type UserImportRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TechArea string `json:"tech_area"`
	Role     string `json:"role"`
}

type DeskImportDoc struct {
	Desks map[string]DeskImportRecord `json:"desks"`
}

type DeskImportRecord struct {
	Floor    string `json:"floor"`
	Status   string `json:"status"`
	TechArea string `json:"tech_area"`
}

// ImportResult reports what a bulk import did.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ImportUsers inserts every new user from the document inside a single
// transaction.  Existing usernames are skipped, never overwritten, so a
// re-import cannot clobber a password hash or role.  Any malformed
// record fails the whole file with ErrImportFailed and rolls back.
func (r *UserRepo) ImportUsers(ctx context.Context, doc UserImportDoc, cost int) (ImportResult, error) {
	if doc.Users == nil {
		return ImportResult{}, fmt.Errorf("%w: document has no users", ErrImportFailed)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var res ImportResult
	for i, rec := range doc.Users {
		username := strings.TrimSpace(rec.Username)
		role := strings.TrimSpace(rec.Role)
		if role == "" {
			role = model.RoleUser
		}
		if username == "" || rec.Password == "" || strings.TrimSpace(rec.TechArea) == "" {
			return ImportResult{}, fmt.Errorf("%w: users[%d]: missing required field", ErrImportFailed, i)
		}
		if role != model.RoleAdmin && role != model.RoleUser {
			return ImportResult{}, fmt.Errorf("%w: users[%d]: unknown role %q", ErrImportFailed, i, rec.Role)
		}

		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE username=? LIMIT 1", username).Scan(&exists)
		if err == nil {
			res.Skipped++
			continue
		}
		if !isNoRows(err) {
			return ImportResult{}, err
		}

		hash, err := utils.HashPassword(rec.Password, cost)
		if err != nil {
			return ImportResult{}, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (username, password_hash, role, tech_area) VALUES (?,?,?,?)",
			username, hash, role, strings.TrimSpace(rec.TechArea)); err != nil {
			return ImportResult{}, err
		}
		res.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, err
	}
	committed = true
	return res, nil
}

// ImportDesks inserts every new desk from the document inside a single
// transaction, with the same skip-existing and fail-whole-file policy
// as ImportUsers.  Imported desks never carry an occupant; occupancy is
// only established through claims.
func (r *DeskRepo) ImportDesks(ctx context.Context, doc DeskImportDoc) (ImportResult, error) {
	if doc.Desks == nil {
		return ImportResult{}, fmt.Errorf("%w: document has no desks", ErrImportFailed)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var res ImportResult
	for deskID, rec := range doc.Desks {
		deskID = strings.TrimSpace(deskID)
		status := strings.TrimSpace(rec.Status)
		if status == "" {
			status = model.DeskAvailable
		}
		if deskID == "" || strings.TrimSpace(rec.Floor) == "" || strings.TrimSpace(rec.TechArea) == "" {
			return ImportResult{}, fmt.Errorf("%w: desk %q: missing required field", ErrImportFailed, deskID)
		}
		if !model.ValidDeskStatus(status) {
			return ImportResult{}, fmt.Errorf("%w: desk %q: unknown status %q", ErrImportFailed, deskID, rec.Status)
		}
		// The document cannot name an occupant, so an "occupied" status
		// would leave the desk occupied by nobody.  Every imported desk
		// starts out available; occupancy is established through claims.
		status = model.DeskAvailable

		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM desks WHERE desk_id=? LIMIT 1", deskID).Scan(&exists)
		if err == nil {
			res.Skipped++
			continue
		}
		if !isNoRows(err) {
			return ImportResult{}, err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO desks (desk_id, floor, tech_area, status) VALUES (?,?,?,?)",
			deskID, strings.TrimSpace(rec.Floor), strings.TrimSpace(rec.TechArea), status); err != nil {
			return ImportResult{}, err
		}
		res.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, err
	}
	committed = true
	return res, nil
}
