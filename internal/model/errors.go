package model

import "errors"

// Common errors used across the application
var (
	// Request errors
	ErrInvalidInput = errors.New("invalid input")

	// Board errors
	ErrBoardNotFound   = errors.New("board not found")
	ErrBoardExists     = errors.New("board already exists")
	ErrVersionConflict = errors.New("board was modified concurrently")
	ErrWrongState      = errors.New("operation not allowed in current board state")
	ErrIncompleteBoard = errors.New("all squares must be filled before assigning teams")

	// Square errors
	ErrLimitReached = errors.New("maximum squares reached")
	ErrAlreadyTaken = errors.New("square is already taken")
	ErrNotOwner     = errors.New("square is not owned by this contestant")
)
