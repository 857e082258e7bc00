package repository

import (
	"context"
	"database/sql"
	"strings"
)

// DeskAssignment is the directory search result: where a user is
// currently sitting.
type DeskAssignment struct {
	DeskID   string `json:"desk_id"`
	Floor    string `json:"floor"`
	TechArea string `json:"tech_area"`
	Username string `json:"user"`
}

// likeEscaper neutralizes LIKE metacharacters so the query text matches
// literally.  '!' is the escape character; unlike '\' its quoting is
// identical in MySQL and sqlite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FindDeskForUser resolves a username query to that user's current desk.
// The matching policy is a case-insensitive prefix match against the
// usernames of users occupying a desk; only occupied desks are eligible,
// so a user with no desk yields ErrUserNotFound even when the username
// exists.  Ties are broken deterministically by ascending desk_id.
func (r *DeskRepo) FindDeskForUser(ctx context.Context, query string) (DeskAssignment, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return DeskAssignment{}, ErrUserNotFound
	}
	var a DeskAssignment
	err := r.DB.QueryRowContext(ctx,
		`SELECT d.desk_id, d.floor, d.tech_area, u.username
		 FROM desks d
		 JOIN users u ON u.id = d.user_id
		 WHERE d.status = 'occupied' AND LOWER(u.username) LIKE ? ESCAPE '!'
		 ORDER BY d.desk_id ASC
		 LIMIT 1`,
		likeEscaper.Replace(q)+"%").Scan(&a.DeskID, &a.Floor, &a.TechArea, &a.Username)
	if err == sql.ErrNoRows {
		return DeskAssignment{}, ErrUserNotFound
	}
	if err != nil {
		return DeskAssignment{}, err
	}
	return a, nil
}
