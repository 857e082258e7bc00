package model

import "time"

// Role values stored in users.role.  An admin may manage accounts, run
// bulk imports and reset floors; a regular user may only operate on
// their own account and on desks within their tech area.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a row in the `users` table.  The password is never
// stored in plain text; only a bcrypt hash is persisted.  TechArea is
// the partition key restricting which desks the user may claim.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – "admin" or "user".
//  TechArea     – technical area the user belongs to (non-empty).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	TechArea     string    // users.tech_area
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
