package mysql

import (
	"context"
	"database/sql"
)

const createBoardsTable = `CREATE TABLE IF NOT EXISTS boards (
	id VARCHAR(16) NOT NULL PRIMARY KEY,
	display_name VARCHAR(255) NOT NULL DEFAULT '',
	max_squares_per_contestant INT NOT NULL DEFAULT 0,
	state VARCHAR(16) NOT NULL,
	squares JSON NOT NULL,
	teams JSON NULL,
	winners JSON NULL,
	version BIGINT NOT NULL,
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL,
	INDEX idx_boards_state (state)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate creates the boards table if it does not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createBoardsTable)
	return err
}
