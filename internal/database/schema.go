package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates the two application tables when they do not
// exist yet.  This is a bootstrap, not a migration system: altering an
// existing column requires manual intervention.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		tech_area     VARCHAR(64)  NOT NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS desks (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		desk_id    VARCHAR(64) NOT NULL,
		floor      VARCHAR(32) NOT NULL,
		tech_area  VARCHAR(64) NOT NULL,
		status     VARCHAR(16) NOT NULL DEFAULT 'available',
		user_id    BIGINT UNSIGNED NULL,
		created_at DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_desks_desk_id (desk_id),
		KEY idx_desks_floor (floor),
		KEY idx_desks_user (user_id),
		CONSTRAINT fk_desks_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema runs the CREATE TABLE statements.  Safe to call on every
// startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
