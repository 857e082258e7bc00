package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/desk-booking/internal/model"
)

// DeskRepo provides data access to the `desks` table and implements the
// desk assignment rules: a desk may only be occupied by a user from the
// matching tech area, and the occupant column is non-null exactly when
// the status is occupied.
type DeskRepo struct{ DB *sql.DB }

func NewDeskRepo(db *sql.DB) *DeskRepo { return &DeskRepo{DB: db} }

const deskColumns = "id, desk_id, floor, tech_area, status, user_id, created_at, updated_at"

func scanDesk(row interface{ Scan(...any) error }) (model.Desk, error) {
	var d model.Desk
	var uid sql.NullInt64
	err := row.Scan(&d.ID, &d.DeskID, &d.Floor, &d.TechArea, &d.Status, &uid, &d.CreatedAt, &d.UpdatedAt)
	if uid.Valid {
		v := uint64(uid.Int64)
		d.UserID = &v
	}
	return d, err
}

// Create inserts a desk.  Used by seeding; bulk import goes through
// ImportDesks which runs inside a single transaction.
func (r *DeskRepo) Create(ctx context.Context, deskID, floor, techArea, status string) (uint64, error) {
	if status == "" {
		status = model.DeskAvailable
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO desks (desk_id, floor, tech_area, status) VALUES (?,?,?,?)",
		deskID, floor, techArea, status)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrDeskExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByDeskID fetches a desk by its label and floor.  The floor is part
// of the lookup key so that a claim addressed to the wrong floor is a
// 404 rather than a silent cross-floor update.
func (r *DeskRepo) GetByDeskID(ctx context.Context, deskID, floor string) (model.Desk, error) {
	d, err := scanDesk(r.DB.QueryRowContext(ctx,
		"SELECT "+deskColumns+" FROM desks WHERE desk_id=? AND floor=? LIMIT 1", deskID, floor))
	if err == sql.ErrNoRows {
		return model.Desk{}, ErrDeskNotFound
	}
	return d, err
}

// ListByFloor returns every desk on the given floor ordered by desk_id.
func (r *DeskRepo) ListByFloor(ctx context.Context, floor string) ([]model.Desk, error) {
	return r.list(ctx, "SELECT "+deskColumns+" FROM desks WHERE floor=? ORDER BY desk_id ASC", floor)
}

// List returns all desks, optionally filtered by tech area.
func (r *DeskRepo) List(ctx context.Context, techArea string) ([]model.Desk, error) {
	if techArea != "" {
		return r.list(ctx, "SELECT "+deskColumns+" FROM desks WHERE tech_area=? ORDER BY desk_id ASC", techArea)
	}
	return r.list(ctx, "SELECT "+deskColumns+" FROM desks ORDER BY desk_id ASC")
}

func (r *DeskRepo) list(ctx context.Context, q string, args ...any) ([]model.Desk, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	desks := make([]model.Desk, 0)
	for rows.Next() {
		d, err := scanDesk(rows)
		if err != nil {
			return nil, err
		}
		desks = append(desks, d)
	}
	return desks, rows.Err()
}

// Claim transitions a desk between available and occupied on behalf of
// the requester.  Rules, in order:
//
//  1. ErrDeskNotFound when no desk matches (desk_id, floor).
//  2. ErrForbidden when the desk's tech area differs from the requester's.
//  3. Occupying a desk already held by a different user is ErrDeskOccupied;
//     re-occupying one's own desk succeeds without change.
//  4. Releasing clears the occupant unconditionally.
//
// The read-modify-write runs in one transaction and the occupy update is
// guarded on the previously read status, so two concurrent claims on the
// same desk resolve to exactly one winner; the loser gets ErrDeskOccupied.
func (r *DeskRepo) Claim(ctx context.Context, requester model.User, floor, deskID, target string) (model.Desk, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Desk{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	d, err := scanDesk(tx.QueryRowContext(ctx,
		"SELECT "+deskColumns+" FROM desks WHERE desk_id=? AND floor=? LIMIT 1", deskID, floor))
	if err == sql.ErrNoRows {
		return model.Desk{}, ErrDeskNotFound
	}
	if err != nil {
		return model.Desk{}, err
	}
	if d.TechArea != requester.TechArea {
		return model.Desk{}, ErrForbidden
	}

	switch target {
	case model.DeskOccupied:
		if d.Status == model.DeskOccupied {
			if d.UserID != nil && *d.UserID == requester.ID {
				// Re-claiming one's own desk is a no-op.
				if err := tx.Commit(); err != nil {
					return model.Desk{}, err
				}
				committed = true
				return d, nil
			}
			return model.Desk{}, ErrDeskOccupied
		}
		// Compare-and-set on the status read above: a concurrent claim
		// that committed first leaves zero rows affected here.
		res, err := tx.ExecContext(ctx,
			"UPDATE desks SET status=?, user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
			model.DeskOccupied, requester.ID, d.ID, d.Status)
		if err != nil {
			return model.Desk{}, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return model.Desk{}, err
		}
		if n == 0 {
			return model.Desk{}, ErrDeskOccupied
		}
		uid := requester.ID
		d.Status = model.DeskOccupied
		d.UserID = &uid
	case model.DeskAvailable:
		if _, err := tx.ExecContext(ctx,
			"UPDATE desks SET status=?, user_id=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=?",
			model.DeskAvailable, d.ID); err != nil {
			return model.Desk{}, err
		}
		d.Status = model.DeskAvailable
		d.UserID = nil
	default:
		return model.Desk{}, ErrInvalidStatus
	}

	if err := tx.Commit(); err != nil {
		return model.Desk{}, err
	}
	committed = true
	return d, nil
}

// ResetFloor releases every desk on the floor.  Returns the number of
// desks that actually changed; calling it twice in a row leaves the
// floor in the same state and reports zero on the second call.
func (r *DeskRepo) ResetFloor(ctx context.Context, floor string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE desks SET status=?, user_id=NULL, updated_at=CURRENT_TIMESTAMP
		 WHERE floor=? AND (status<>? OR user_id IS NOT NULL)`,
		model.DeskAvailable, floor, model.DeskAvailable)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
