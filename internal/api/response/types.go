package response

import (
	"time"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// Board represents a board in API responses
type Board struct {
	ID                      string            `json:"id"`
	DisplayName             string            `json:"display_name"`
	MaxSquaresPerContestant int               `json:"max_squares_per_contestant"`
	State                   string            `json:"state"`
	Squares                 map[string]string `json:"squares"`
	ClaimedCount            int               `json:"claimed_count"`
	Teams                   *Teams            `json:"teams,omitempty"`
	Winners                 map[string]Winner `json:"winners,omitempty"`
	Version                 int64             `json:"version"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

// Axis represents one dimension's team and digit order
type Axis struct {
	Team    string `json:"team"`
	Numbers []int  `json:"numbers"`
}

// Teams represents the assigned axes; axis1 labels columns, axis2 labels rows
type Teams struct {
	Axis1 Axis `json:"axis1"`
	Axis2 Axis `json:"axis2"`
}

// Winner represents a quarter's winning square
type Winner struct {
	Position string `json:"position"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Owner    string `json:"owner"`
}

// BoardFromModel converts a model.Board to a response Board
func BoardFromModel(b *model.Board) Board {
	squares := make(map[string]string, len(b.Squares))
	for pos, name := range b.Squares {
		squares[pos.Key()] = name
	}

	resp := Board{
		ID:                      string(b.ID),
		DisplayName:             b.DisplayName,
		MaxSquaresPerContestant: b.MaxSquaresPerContestant,
		State:                   string(b.State),
		Squares:                 squares,
		ClaimedCount:            b.ClaimedCount(),
		Version:                 b.Version,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}

	if b.Teams != nil {
		resp.Teams = &Teams{
			Axis1: Axis{Team: string(b.Teams.Axis1.Team), Numbers: b.Teams.Axis1.Numbers},
			Axis2: Axis{Team: string(b.Teams.Axis2.Team), Numbers: b.Teams.Axis2.Numbers},
		}
	}

	if len(b.Winners) > 0 {
		resp.Winners = make(map[string]Winner, len(b.Winners))
		for q, pos := range b.Winners {
			resp.Winners[string(q)] = Winner{
				Position: pos.Key(),
				Row:      pos.Row,
				Col:      pos.Col,
				Owner:    b.Owner(pos),
			}
		}
	}

	return resp
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
