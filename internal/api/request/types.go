package request

import (
	"fmt"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// SetupBoardRequest is the request body for setting up a board
type SetupBoardRequest struct {
	DisplayName string `json:"display_name"`
	MaxSquares  int    `json:"max_squares"`
}

// SquareRequest is the request body for claiming or releasing a square.
// The square is given either as Position ("row,col") or as Row and Col.
type SquareRequest struct {
	Position string `json:"position,omitempty"`
	Row      *int   `json:"row,omitempty"`
	Col      *int   `json:"col,omitempty"`
	Name     string `json:"name"`
	Remove   bool   `json:"remove,omitempty"`
}

// ResolvePosition returns the requested square
func (r SquareRequest) ResolvePosition() (model.Position, error) {
	if r.Position != "" {
		return model.ParsePosition(r.Position)
	}
	if r.Row == nil || r.Col == nil {
		return model.Position{}, fmt.Errorf("%w: position or row and col are required", model.ErrInvalidInput)
	}
	pos := model.Position{Row: *r.Row, Col: *r.Col}
	if !pos.IsValid() {
		return model.Position{}, fmt.Errorf("%w: position %s is outside the grid", model.ErrInvalidInput, pos)
	}
	return pos, nil
}
