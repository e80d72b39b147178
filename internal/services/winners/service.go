package winners

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/rules"
	"github.com/mcoot/superbowl-squares/internal/storage"
)

// DefaultConcurrency is the number of boards updated in parallel
const DefaultConcurrency = 4

// Summary reports the outcome of one winner update pass
type Summary struct {
	Boards    int // Locked boards considered
	Updated   int // Boards whose winners changed
	Unchanged int
	Failed    int
}

// Service resolves quarter winners for every locked board
type Service struct {
	storage     storage.Storage
	clock       quartz.Clock
	logger      *slog.Logger
	concurrency int
}

// New creates a new winner Service
func New(storage storage.Storage, clock quartz.Clock, logger *slog.Logger, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		storage:     storage,
		clock:       clock,
		logger:      logger,
		concurrency: concurrency,
	}
}

// UpdateWinners applies the scores to all locked boards. A board that fails
// to update is logged and counted; the others still proceed. Only a failure
// to list boards is returned.
func (s *Service) UpdateWinners(ctx context.Context, scores []model.QuarterScore) (Summary, error) {
	if len(scores) == 0 {
		s.logger.Info("no winners found in score feed")
		return Summary{}, nil
	}

	boards, err := s.storage.ListBoardsByState(ctx, model.BoardStateLocked)
	if err != nil {
		s.logger.Error("failed to list locked boards", slog.String("error", err.Error()))
		return Summary{}, err
	}
	if len(boards) == 0 {
		s.logger.Info("no locked boards found")
		return Summary{}, nil
	}

	s.logger.Info("processing boards",
		slog.Int("count", len(boards)),
		slog.Int("quarters", len(scores)),
	)

	var (
		mu      sync.Mutex
		summary = Summary{Boards: len(boards)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, board := range boards {
		id := board.ID
		g.Go(func() error {
			changed, err := s.updateBoard(gctx, id, scores)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Error("failed to update board winners",
					slog.String("board_id", string(id)),
					slog.String("error", err.Error()),
				)
			case changed:
				summary.Updated++
			default:
				summary.Unchanged++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	s.logger.Info("winner update complete",
		slog.Int("boards", summary.Boards),
		slog.Int("updated", summary.Updated),
		slog.Int("unchanged", summary.Unchanged),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// updateBoard merges the resolved winners into one board; it writes only when
// a winner changed
func (s *Service) updateBoard(ctx context.Context, id model.BoardID, scores []model.QuarterScore) (bool, error) {
	var (
		changed  bool
		previous map[model.Quarter]model.Position
	)

	board, err := storage.Modify(ctx, s.storage, id, func(current *model.Board) (*model.Board, error) {
		changed = false
		if current.State != model.BoardStateLocked {
			return nil, nil
		}
		next, ok := rules.ApplyScores(current, scores)
		if !ok {
			return nil, nil
		}
		changed = true
		previous = current.Winners
		next.UpdatedAt = s.clock.Now()
		return next, nil
	})
	if err != nil || !changed {
		return false, err
	}

	for _, q := range model.Quarters {
		pos, ok := board.Winners[q]
		if !ok {
			continue
		}
		if prev, had := previous[q]; had && prev == pos {
			continue
		}
		s.logger.Info("winner updated",
			slog.String("board_id", string(id)),
			slog.String("quarter", string(q)),
			slog.String("position", pos.Key()),
			slog.String("contestant", board.Owner(pos)),
		)
	}
	return true, nil
}
