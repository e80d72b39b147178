package rules

import (
	"slices"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// ResolveWinner maps a quarter-end score pair to the winning square.
// The row comes from axis2's digits and the column from axis1's, each looked
// up by the score of the team bound to that axis.
func ResolveWinner(board *model.Board, scores model.ScorePair) (model.Position, bool) {
	if board.Teams == nil {
		return model.Position{}, false
	}
	col, ok := axisIndex(board.Teams.Axis1, scores)
	if !ok {
		return model.Position{}, false
	}
	row, ok := axisIndex(board.Teams.Axis2, scores)
	if !ok {
		return model.Position{}, false
	}
	return model.Position{Row: row, Col: col}, true
}

func axisIndex(axis model.Axis, scores model.ScorePair) (int, bool) {
	score, ok := scores.For(axis.Team)
	if !ok {
		return 0, false
	}
	idx := slices.Index(axis.Numbers, score)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// ApplyScores resolves each quarter's winner and returns a copy with the
// results merged into Winners. The bool reports whether any winner changed.
// Quarters that cannot be resolved are left as they were.
func ApplyScores(board *model.Board, scores []model.QuarterScore) (*model.Board, bool) {
	next := board.Clone()
	changed := false
	for _, qs := range scores {
		pos, ok := ResolveWinner(board, qs.Scores)
		if !ok {
			continue
		}
		if current, exists := next.Winners[qs.Quarter]; exists && current == pos {
			continue
		}
		if next.Winners == nil {
			next.Winners = make(map[model.Quarter]model.Position)
		}
		next.Winners[qs.Quarter] = pos
		changed = true
	}
	return next, changed
}
