package model

import (
	"strings"
	"time"
)

// BoardID is the shareable code identifying a board
type BoardID string

// NormalizeBoardID trims and uppercases a user-supplied board code
func NormalizeBoardID(s string) BoardID {
	return BoardID(strings.ToUpper(strings.TrimSpace(s)))
}

// BoardState represents the current phase of a board
type BoardState string

const (
	BoardStateSetup    BoardState = "setup"    // Created, waiting for name and square limit
	BoardStateChoosing BoardState = "choosing" // Contestants claiming squares
	BoardStateTeams    BoardState = "teams"    // Reserved, never produced
	BoardStateLocked   BoardState = "locked"   // Teams and numbers assigned
)

// MaxSquaresLimit bounds MaxSquaresPerContestant
const MaxSquaresLimit = TotalSquares

// MaxContestantLength bounds a contestant name in characters
const MaxContestantLength = 64

// Board is a single squares game
type Board struct {
	ID                      BoardID              `json:"id"`
	DisplayName             string               `json:"display_name"`
	MaxSquaresPerContestant int                  `json:"max_squares_per_contestant"`
	State                   BoardState           `json:"state"`
	Squares                 map[Position]string  `json:"squares"` // cell -> contestant name
	Teams                   *TeamAssignment      `json:"teams,omitempty"`
	Winners                 map[Quarter]Position `json:"winners,omitempty"`

	// Version increments on every stored update and guards against lost writes
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBoard creates an empty board in the setup state
func NewBoard(id BoardID, now time.Time) *Board {
	return &Board{
		ID:        id,
		State:     BoardStateSetup,
		Squares:   make(map[Position]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	c := *b
	c.Squares = make(map[Position]string, len(b.Squares))
	for pos, name := range b.Squares {
		c.Squares[pos] = name
	}
	if b.Teams != nil {
		teams := b.Teams.Clone()
		c.Teams = &teams
	}
	if b.Winners != nil {
		c.Winners = make(map[Quarter]Position, len(b.Winners))
		for q, pos := range b.Winners {
			c.Winners[q] = pos
		}
	}
	return &c
}

// Owner returns the contestant holding the square, or "" if unclaimed
func (b *Board) Owner(pos Position) string {
	return b.Squares[pos]
}

// ClaimedCount returns the number of claimed squares
func (b *Board) ClaimedCount() int {
	return len(b.Squares)
}

// IsFull returns true if every square is claimed
func (b *Board) IsFull() bool {
	return len(b.Squares) == TotalSquares
}

// CountOwnedBy returns the number of squares held by a contestant
func (b *Board) CountOwnedBy(contestant string) int {
	count := 0
	for _, owner := range b.Squares {
		if owner == contestant {
			count++
		}
	}
	return count
}

// WinningQuarters returns the quarters won by the square, in quarter order
func (b *Board) WinningQuarters(pos Position) []Quarter {
	var quarters []Quarter
	for _, q := range Quarters {
		if w, ok := b.Winners[q]; ok && w == pos {
			quarters = append(quarters, q)
		}
	}
	return quarters
}
