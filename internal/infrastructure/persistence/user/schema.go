package user

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_verified INTEGER NOT NULL DEFAULT 0,
		is_staff INTEGER NOT NULL DEFAULT 0,
		is_superuser INTEGER NOT NULL DEFAULT 0,
		otp TEXT NOT NULL DEFAULT '',
		otp_expiry TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		changed TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
}

// CreateSchema executes all necessary queries to build the user tables and indexes.
func CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
