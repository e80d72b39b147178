package storage

import (
	"context"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// Storage defines the interface for board persistence
type Storage interface {
	// CreateBoard inserts a new board, failing with model.ErrBoardExists on a duplicate ID
	CreateBoard(ctx context.Context, board *model.Board) error

	// GetBoard returns the stored board or model.ErrBoardNotFound
	GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error)

	// UpdateBoard replaces a stored board if its stored version still equals
	// board.Version, then increments board.Version. It fails with
	// model.ErrBoardNotFound or model.ErrVersionConflict.
	UpdateBoard(ctx context.Context, board *model.Board) error

	// ListBoardsByState returns every board in the given state
	ListBoardsByState(ctx context.Context, state model.BoardState) ([]*model.Board, error)
}
