package mysql

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// boardRow is the column layout of the boards table
type boardRow struct {
	ID          string
	DisplayName string
	MaxSquares  int
	State       string
	Squares     string
	Teams       sql.NullString // NULL until assignment
	Winners     sql.NullString // NULL until the first winner
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func encodeBoard(b *model.Board) (*boardRow, error) {
	squares := b.Squares
	if squares == nil {
		squares = map[model.Position]string{}
	}
	squaresJSON, err := json.Marshal(squares)
	if err != nil {
		return nil, err
	}

	row := &boardRow{
		ID:          string(b.ID),
		DisplayName: b.DisplayName,
		MaxSquares:  b.MaxSquaresPerContestant,
		State:       string(b.State),
		Squares:     string(squaresJSON),
		Version:     b.Version,
		CreatedAt:   b.CreatedAt.UTC(),
		UpdatedAt:   b.UpdatedAt.UTC(),
	}
	if b.Teams != nil {
		data, err := json.Marshal(b.Teams)
		if err != nil {
			return nil, err
		}
		row.Teams = sql.NullString{String: string(data), Valid: true}
	}
	if len(b.Winners) > 0 {
		data, err := json.Marshal(b.Winners)
		if err != nil {
			return nil, err
		}
		row.Winners = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func (r *boardRow) decode() (*model.Board, error) {
	b := &model.Board{
		ID:                      model.BoardID(r.ID),
		DisplayName:             r.DisplayName,
		MaxSquaresPerContestant: r.MaxSquares,
		State:                   model.BoardState(r.State),
		Squares:                 map[model.Position]string{},
		Version:                 r.Version,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
	if r.Squares != "" {
		if err := json.Unmarshal([]byte(r.Squares), &b.Squares); err != nil {
			return nil, err
		}
	}
	if r.Teams.Valid {
		var teams model.TeamAssignment
		if err := json.Unmarshal([]byte(r.Teams.String), &teams); err != nil {
			return nil, err
		}
		b.Teams = &teams
	}
	if r.Winners.Valid {
		if err := json.Unmarshal([]byte(r.Winners.String), &b.Winners); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// scanTargets returns pointers in boardColumns order
func (r *boardRow) scanTargets() []any {
	return []any{
		&r.ID, &r.DisplayName, &r.MaxSquares, &r.State, &r.Squares,
		&r.Teams, &r.Winners, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	}
}

const boardColumns = `id, display_name, max_squares_per_contestant, state, squares, teams, winners, version, created_at, updated_at`
