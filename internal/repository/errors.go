// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting database driver errors.  For example, ErrForbidden
// indicates a tech-area mismatch on a desk claim, while
// ErrDeskOccupied signals that the desk already has a different
// occupant.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrForbidden is returned when a user attempts to claim a desk outside
// their own tech area.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrDeskOccupied is returned when a claim targets a desk that is
// already occupied by a different user.  Handlers translate this into
// HTTP 409.
var ErrDeskOccupied = errors.New("desk already occupied")

// ErrDeskNotFound is returned when no desk matches the requested
// desk id and floor.  Handlers translate this into HTTP 404.
var ErrDeskNotFound = errors.New("desk not found")

// ErrUserNotFound is returned when a user lookup by id, username or
// directory search yields no row.  Handlers translate this into 404 or,
// on the authentication path, into 401.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned on registration or import when the
// username is already taken.  Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrDeskExists is returned when creating a desk whose desk_id is
// already present.
var ErrDeskExists = errors.New("desk id already exists")

// ErrInvalidStatus is returned when a desk transition names a status
// other than "available" or "occupied".  Handlers translate this into
// HTTP 400.
var ErrInvalidStatus = errors.New("invalid desk status")

// ErrImportFailed wraps any malformed record encountered during a bulk
// import.  The whole file is rolled back; no partial commits.
var ErrImportFailed = errors.New("import failed")

// isNoRows reports whether err is the no-rows sentinel from a QueryRow
// scan.
func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// isDuplicateErr reports whether the driver error signals a unique key
// violation.  MySQL reports error 1062; sqlite (used in tests) reports
// a UNIQUE constraint message.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique")
}
