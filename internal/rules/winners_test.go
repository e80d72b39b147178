package rules

import (
	"github.com/mcoot/superbowl-squares/internal/model"
)

func (s *RulesSuite) TestResolveWinnerUsesAxisIndices() {
	board := lockedBoard()
	p1 := board.Teams.Axis1.Numbers
	p2 := board.Teams.Axis2.Numbers

	pos, ok := ResolveWinner(board, model.ScorePair{p1[3], p2[7]})
	s.Require().True(ok)
	s.Equal(model.Position{Row: 7, Col: 3}, pos)
}

func (s *RulesSuite) TestResolveWinnerMatchesTeamsByLabel() {
	board := lockedBoard()
	board.Teams.Axis1, board.Teams.Axis2 = board.Teams.Axis2, board.Teams.Axis1
	// Axis1 is now Eagles with [1,3,0,...], axis2 Chiefs with [5,2,8,...]

	pos, ok := ResolveWinner(board, model.ScorePair{8, 6})
	s.Require().True(ok)
	s.Equal(model.Position{Row: 2, Col: 3}, pos)
}

func (s *RulesSuite) TestResolveWinnerIsDeterministic() {
	board := lockedBoard()
	first, ok := ResolveWinner(board, model.ScorePair{7, 0})
	s.Require().True(ok)
	for i := 0; i < 10; i++ {
		again, ok := ResolveWinner(board, model.ScorePair{7, 0})
		s.Require().True(ok)
		s.Equal(first, again)
	}
}

func (s *RulesSuite) TestResolveWinnerWithoutTeams() {
	_, ok := ResolveWinner(newChoosingBoard(5), model.ScorePair{3, 7})
	s.False(ok)
}

func (s *RulesSuite) TestResolveWinnerRejectsNonDigitScores() {
	board := lockedBoard()

	_, ok := ResolveWinner(board, model.ScorePair{14, 7})
	s.False(ok)

	_, ok = ResolveWinner(board, model.ScorePair{3, -1})
	s.False(ok)
}

func (s *RulesSuite) TestResolveWinnerRejectsUnknownTeam() {
	board := lockedBoard()
	board.Teams.Axis2.Team = "Bills"

	_, ok := ResolveWinner(board, model.ScorePair{3, 7})
	s.False(ok)
}

func (s *RulesSuite) TestApplyScoresMergesWinners() {
	board := lockedBoard()

	next, changed := ApplyScores(board, []model.QuarterScore{
		{Quarter: model.Q1, Scores: model.ScorePair{7, 0}},
		{Quarter: model.Q2, Scores: model.ScorePair{4, 3}},
	})
	s.True(changed)
	s.Equal(map[model.Quarter]model.Position{
		model.Q1: {Row: 2, Col: 7},
		model.Q2: {Row: 1, Col: 3},
	}, next.Winners)
	s.Nil(board.Winners, "input board must not change")
}

func (s *RulesSuite) TestApplyScoresReportsNoChange() {
	board := lockedBoard()
	scores := []model.QuarterScore{{Quarter: model.Q1, Scores: model.ScorePair{7, 0}}}

	first, changed := ApplyScores(board, scores)
	s.Require().True(changed)

	second, changed := ApplyScores(first, scores)
	s.False(changed)
	s.Equal(first.Winners, second.Winners)
}

func (s *RulesSuite) TestApplyScoresOverwritesChangedQuarter() {
	board := lockedBoard()
	board.Winners = map[model.Quarter]model.Position{model.Q1: {Row: 0, Col: 0}}

	next, changed := ApplyScores(board, []model.QuarterScore{{Quarter: model.Q1, Scores: model.ScorePair{7, 0}}})
	s.True(changed)
	s.Equal(model.Position{Row: 2, Col: 7}, next.Winners[model.Q1])
}

func (s *RulesSuite) TestApplyScoresSkipsUnresolvable() {
	board := lockedBoard()

	next, changed := ApplyScores(board, []model.QuarterScore{{Quarter: model.Q3, Scores: model.ScorePair{21, 0}}})
	s.False(changed)
	s.Empty(next.Winners)
}
