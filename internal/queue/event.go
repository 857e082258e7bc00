// Package queue defines message payloads exchanged over the message broker.
package queue

// DeskActivityEvent is published whenever a desk changes occupancy: a
// user claims a desk, releases one, or an admin resets a whole floor.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type DeskActivityEvent struct {
	Action   string `json:"action"` // "claimed", "released" or "floor_reset"
	DeskID   string `json:"desk_id,omitempty"`
	Floor    string `json:"floor"`
	TechArea string `json:"tech_area,omitempty"`
	UserID   uint64 `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Count    int64  `json:"count,omitempty"` // desks affected by a floor reset
	At       string `json:"at"`              // RFC3339 UTC timestamp
}

// Actions for DeskActivityEvent.
const (
	ActionClaimed    = "claimed"
	ActionReleased   = "released"
	ActionFloorReset = "floor_reset"
)
