package winners

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/storage/memory"
	"github.com/mcoot/superbowl-squares/internal/testutil"
)

// flakyStorage fails writes for chosen boards and optionally the listing
type flakyStorage struct {
	*memory.Storage
	failUpdates map[model.BoardID]bool
	failList    bool
}

func (f *flakyStorage) UpdateBoard(ctx context.Context, board *model.Board) error {
	if f.failUpdates[board.ID] {
		return errors.New("connection reset")
	}
	return f.Storage.UpdateBoard(ctx, board)
}

func (f *flakyStorage) ListBoardsByState(ctx context.Context, state model.BoardState) ([]*model.Board, error) {
	if f.failList {
		return nil, errors.New("connection refused")
	}
	return f.Storage.ListBoardsByState(ctx, state)
}

// staticSource returns whatever scores it currently holds
type staticSource struct {
	mu     sync.Mutex
	scores []model.QuarterScore
	err    error
}

func (s *staticSource) Scores() ([]model.QuarterScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores, s.err
}

func (s *staticSource) set(scores ...model.QuarterScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = scores
}

type ServiceSuite struct {
	suite.Suite
	storage *flakyStorage
	clock   *quartz.Mock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = &flakyStorage{Storage: memory.New(), failUpdates: map[model.BoardID]bool{}}
	s.clock = quartz.NewMock(s.T())
	s.service = New(s.storage, s.clock, testutil.NopLogger(), 2)
	s.ctx = context.Background()
}

// createBoard stores a board in the given state; locked boards get a fixed assignment
func (s *ServiceSuite) createBoard(id model.BoardID, state model.BoardState) {
	board := model.NewBoard(id, s.clock.Now())
	board.State = state
	if state == model.BoardStateLocked {
		board.Teams = &model.TeamAssignment{
			Axis1: model.Axis{Team: model.TeamChiefs, Numbers: []int{5, 2, 8, 4, 0, 9, 1, 7, 3, 6}},
			Axis2: model.Axis{Team: model.TeamEagles, Numbers: []int{1, 3, 0, 6, 9, 2, 8, 5, 4, 7}},
		}
	}
	s.Require().NoError(s.storage.CreateBoard(s.ctx, board))
}

func (s *ServiceSuite) getBoard(id model.BoardID) *model.Board {
	board, err := s.storage.GetBoard(s.ctx, id)
	s.Require().NoError(err)
	return board
}

func (s *ServiceSuite) hasWinner(id model.BoardID, q model.Quarter) bool {
	board, err := s.storage.GetBoard(s.ctx, id)
	if err != nil {
		return false
	}
	_, ok := board.Winners[q]
	return ok
}

var q1Score = model.QuarterScore{Quarter: model.Q1, Scores: model.ScorePair{7, 0}}

func (s *ServiceSuite) TestNoScoresIsNoOp() {
	s.createBoard("AAA222", model.BoardStateLocked)

	summary, err := s.service.UpdateWinners(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(Summary{}, summary)
	s.Nil(s.getBoard("AAA222").Winners)
}

func (s *ServiceSuite) TestNoLockedBoards() {
	s.createBoard("AAA222", model.BoardStateChoosing)

	summary, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	s.Equal(Summary{}, summary)
}

func (s *ServiceSuite) TestUpdatesOnlyLockedBoards() {
	s.createBoard("AAA222", model.BoardStateLocked)
	s.createBoard("BBB222", model.BoardStateLocked)
	s.createBoard("CCC222", model.BoardStateChoosing)

	summary, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	s.Equal(Summary{Boards: 2, Updated: 2}, summary)

	for _, id := range []model.BoardID{"AAA222", "BBB222"} {
		s.Equal(model.Position{Row: 2, Col: 7}, s.getBoard(id).Winners[model.Q1])
	}
	s.Nil(s.getBoard("CCC222").Winners)
}

func (s *ServiceSuite) TestUnchangedWinnersAreNotRewritten() {
	s.createBoard("AAA222", model.BoardStateLocked)

	_, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	version := s.getBoard("AAA222").Version

	summary, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	s.Equal(Summary{Boards: 1, Unchanged: 1}, summary)
	s.Equal(version, s.getBoard("AAA222").Version)
}

func (s *ServiceSuite) TestWinnersAccumulateAcrossQuarters() {
	s.createBoard("AAA222", model.BoardStateLocked)

	_, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)

	_, err = s.service.UpdateWinners(s.ctx, []model.QuarterScore{
		q1Score,
		{Quarter: model.Q2, Scores: model.ScorePair{4, 3}},
	})
	s.Require().NoError(err)

	s.Equal(map[model.Quarter]model.Position{
		model.Q1: {Row: 2, Col: 7},
		model.Q2: {Row: 1, Col: 3},
	}, s.getBoard("AAA222").Winners)
}

func (s *ServiceSuite) TestFailedBoardDoesNotBlockOthers() {
	s.createBoard("AAA222", model.BoardStateLocked)
	s.createBoard("BBB222", model.BoardStateLocked)
	s.createBoard("CCC222", model.BoardStateLocked)
	s.storage.failUpdates["BBB222"] = true

	summary, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	s.Equal(Summary{Boards: 3, Updated: 2, Failed: 1}, summary)

	s.NotNil(s.getBoard("AAA222").Winners)
	s.Nil(s.getBoard("BBB222").Winners)
	s.NotNil(s.getBoard("CCC222").Winners)
}

func (s *ServiceSuite) TestListFailureIsReturned() {
	s.storage.failList = true

	_, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Error(err)
}

func (s *ServiceSuite) TestUpdatedAtUsesClock() {
	s.createBoard("AAA222", model.BoardStateLocked)
	s.clock.Advance(time.Hour).MustWait(s.ctx)

	_, err := s.service.UpdateWinners(s.ctx, []model.QuarterScore{q1Score})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), s.getBoard("AAA222").UpdatedAt)
}

// Runner tests

func (s *ServiceSuite) TestRunOnceReadsSource() {
	s.createBoard("AAA222", model.BoardStateLocked)
	source := &staticSource{}
	source.set(q1Score)
	runner := NewRunner(s.service, source, s.clock, testutil.NopLogger())

	summary, err := runner.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, summary.Updated)
}

func (s *ServiceSuite) TestRunOnceSourceError() {
	source := &staticSource{err: errors.New("bad env file")}
	runner := NewRunner(s.service, source, s.clock, testutil.NopLogger())

	_, err := runner.RunOnce(s.ctx)
	s.Error(err)
}

func (s *ServiceSuite) TestWatchRerunsOnEveryTick() {
	s.createBoard("AAA222", model.BoardStateLocked)
	source := &staticSource{}
	source.set(q1Score)
	runner := NewRunner(s.service, source, s.clock, testutil.NopLogger())

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- runner.Watch(ctx, time.Minute)
	}()

	s.Eventually(func() bool {
		return s.hasWinner("AAA222", model.Q1)
	}, time.Second, 10*time.Millisecond)

	source.set(q1Score, model.QuarterScore{Quarter: model.Q2, Scores: model.ScorePair{4, 3}})
	s.clock.Advance(time.Minute).MustWait(s.ctx)

	s.Eventually(func() bool {
		return s.hasWinner("AAA222", model.Q2)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("watch did not stop after cancel")
	}
}
