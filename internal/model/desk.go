package model

import "time"

// Desk status values stored in desks.status.  A desk is either free or
// bound to exactly one occupant; the occupant column is non-null if and
// only if the status is occupied.
const (
	DeskAvailable = "available"
	DeskOccupied  = "occupied"
)

// Desk represents a row in the `desks` table.  DeskID is the
// human-facing label (e.g. "L2-014") and is unique across the whole
// system, not just per floor.  TechArea is fixed at creation and
// restricts who may occupy the desk.
//
// Fields:
//  ID        – primary key identifier of the row.
//  DeskID    – unique desk label.
//  Floor     – floor label the desk sits on (e.g. "L2").
//  TechArea  – technical area the desk belongs to (non-empty).
//  Status    – "available" or "occupied".
//  UserID    – id of the current occupant (nil when available).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Desk struct {
	ID        uint64    // desks.id
	DeskID    string    // desks.desk_id
	Floor     string    // desks.floor
	TechArea  string    // desks.tech_area
	Status    string    // desks.status
	UserID    *uint64   // desks.user_id (nullable)
	CreatedAt time.Time // desks.created_at
	UpdatedAt time.Time // desks.updated_at
}

// ValidDeskStatus reports whether s is one of the two desk states.
func ValidDeskStatus(s string) bool {
	return s == DeskAvailable || s == DeskOccupied
}
