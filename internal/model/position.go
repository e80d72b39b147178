package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GridSize is the dimension of every squares board (10x10)
const GridSize = 10

// TotalSquares is the number of cells on a board
const TotalSquares = GridSize * GridSize

// Position identifies a cell on the grid
type Position struct {
	Row int // 0-indexed from top, matched against axis2 digits
	Col int // 0-indexed from left, matched against axis1 digits
}

// IsValid returns true if the position is within the grid
func (p Position) IsValid() bool {
	return p.Row >= 0 && p.Row < GridSize && p.Col >= 0 && p.Col < GridSize
}

// Key returns the "row,col" form used in requests and storage
func (p Position) Key() string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

func (p Position) String() string {
	return p.Key()
}

// ParsePosition parses a "row,col" key
func ParsePosition(s string) (Position, error) {
	rowStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Position{}, fmt.Errorf("%w: position %q must be row,col", ErrInvalidInput, s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return Position{}, fmt.Errorf("%w: position %q has a non-numeric row", ErrInvalidInput, s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return Position{}, fmt.Errorf("%w: position %q has a non-numeric column", ErrInvalidInput, s)
	}
	pos := Position{Row: row, Col: col}
	if !pos.IsValid() {
		return Position{}, fmt.Errorf("%w: position %q is outside the grid", ErrInvalidInput, s)
	}
	return pos, nil
}

// MarshalText encodes the position as a map key ("row,col")
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.Key()), nil
}

// UnmarshalText decodes a "row,col" map key
func (p *Position) UnmarshalText(text []byte) error {
	pos, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// MarshalJSON encodes the position as a [row, col] pair
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON decodes a [row, col] pair
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	pos := Position{Row: pair[0], Col: pair[1]}
	if !pos.IsValid() {
		return fmt.Errorf("%w: position [%d, %d] is outside the grid", ErrInvalidInput, pos.Row, pos.Col)
	}
	*p = pos
	return nil
}
