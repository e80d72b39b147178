package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	boards map[model.BoardID]*model.Board
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		boards: make(map[model.BoardID]*model.Board),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// CreateBoard stores a copy of a new board at version 1
func (s *Storage) CreateBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.boards[board.ID]; exists {
		return model.ErrBoardExists
	}
	board.Version = 1
	s.boards[board.ID] = board.Clone()
	return nil
}

// GetBoard returns a copy of the stored board
func (s *Storage) GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[id]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	return board.Clone(), nil
}

// UpdateBoard replaces the board if its version matches the stored one
func (s *Storage) UpdateBoard(ctx context.Context, board *model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.boards[board.ID]
	if !ok {
		return model.ErrBoardNotFound
	}
	if stored.Version != board.Version {
		return model.ErrVersionConflict
	}
	board.Version++
	s.boards[board.ID] = board.Clone()
	return nil
}

// ListBoardsByState returns copies of every board in the given state
func (s *Storage) ListBoardsByState(ctx context.Context, state model.BoardState) ([]*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var boards []*model.Board
	for _, board := range s.boards {
		if board.State == state {
			boards = append(boards, board.Clone())
		}
	}
	slices.SortFunc(boards, func(a, b *model.Board) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return boards, nil
}
