package storage

import (
	"context"
	"errors"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// MaxModifyAttempts bounds how often Modify re-reads a board after a version conflict
const MaxModifyAttempts = 3

// ModifyFunc computes the next version of a board. Returning a nil board with
// a nil error leaves the stored board untouched.
type ModifyFunc func(current *model.Board) (*model.Board, error)

// Modify runs a read-validate-write cycle against a board. When another writer
// wins the race, the board is re-read and fn re-evaluated against the fresh copy.
func Modify(ctx context.Context, s Storage, id model.BoardID, fn ModifyFunc) (*model.Board, error) {
	var lastErr error
	for attempt := 0; attempt < MaxModifyAttempts; attempt++ {
		current, err := s.GetBoard(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return current, nil
		}

		next.Version = current.Version
		err = s.UpdateBoard(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
