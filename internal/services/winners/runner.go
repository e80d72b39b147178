package winners

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// ScoreSource provides the current quarter scores
type ScoreSource interface {
	Scores() ([]model.QuarterScore, error)
}

// Runner reads scores from a source and feeds them to the Service
type Runner struct {
	service *Service
	source  ScoreSource
	clock   quartz.Clock
	logger  *slog.Logger

	mu sync.Mutex // serializes passes
}

// NewRunner creates a new Runner
func NewRunner(service *Service, source ScoreSource, clock quartz.Clock, logger *slog.Logger) *Runner {
	return &Runner{
		service: service,
		source:  source,
		clock:   clock,
		logger:  logger,
	}
}

// RunOnce performs a single pass
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores, err := r.source.Scores()
	if err != nil {
		return Summary{}, err
	}
	return r.service.UpdateWinners(ctx, scores)
}

// Watch runs a pass immediately and then every interval until ctx is done.
// Failed passes are logged and retried on the next tick.
func (r *Runner) Watch(ctx context.Context, interval time.Duration) error {
	r.logger.Info("watching for score changes", slog.Duration("interval", interval))

	w := r.clock.TickerFunc(ctx, interval, func() error {
		r.runLogged(ctx)
		return nil
	}, "winners", "watch")

	r.runLogged(ctx)

	err := w.Wait()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (r *Runner) runLogged(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
		r.logger.Error("winner update pass failed", slog.String("error", err.Error()))
	}
}
