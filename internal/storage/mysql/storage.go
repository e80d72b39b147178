package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/storage"
)

// erDupEntry is the MySQL error number for a duplicate key
const erDupEntry = 1062

// Storage is a MySQL-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Open connects to MySQL, verifies the connection and applies the schema
func Open(cfg Config) (*Storage, error) {
	dsn, err := cfg.FormatDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a MySQL storage over an existing connection pool
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateBoard(ctx context.Context, board *model.Board) error {
	row, err := encodeBoard(board)
	if err != nil {
		return err
	}
	row.Version = 1

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO boards (`+boardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.DisplayName, row.MaxSquares, row.State, row.Squares,
		row.Teams, row.Winners, row.Version, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return model.ErrBoardExists
		}
		return err
	}

	board.Version = row.Version
	return nil
}

func (s *Storage) GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	var row boardRow
	err := s.db.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE id = ?`, string(id),
	).Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}
	return row.decode()
}

// UpdateBoard replaces the row only when the stored version matches
func (s *Storage) UpdateBoard(ctx context.Context, board *model.Board) error {
	row, err := encodeBoard(board)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE boards
		 SET display_name = ?, max_squares_per_contestant = ?, state = ?, squares = ?,
		     teams = ?, winners = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		row.DisplayName, row.MaxSquares, row.State, row.Squares,
		row.Teams, row.Winners, row.UpdatedAt,
		row.ID, row.Version,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.missOrConflict(ctx, board.ID)
	}

	board.Version++
	return nil
}

// missOrConflict tells a missing board apart from a stale version after a no-op update
func (s *Storage) missOrConflict(ctx context.Context, id model.BoardID) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM boards WHERE id = ?`, string(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrBoardNotFound
	}
	if err != nil {
		return err
	}
	return model.ErrVersionConflict
}

func (s *Storage) ListBoardsByState(ctx context.Context, state model.BoardState) ([]*model.Board, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE state = ? ORDER BY id`, string(state),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []*model.Board{}
	for rows.Next() {
		var row boardRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, err
		}
		board, err := row.decode()
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erDupEntry
}
