package board

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coder/quartz"

	"github.com/mcoot/superbowl-squares/internal/dependencies/random"
	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/rules"
	"github.com/mcoot/superbowl-squares/internal/storage"
)

// MaxCreateAttempts bounds how many codes are drawn when a new code collides
const MaxCreateAttempts = 3

// Controller loads boards, applies rules and persists the result
type Controller struct {
	storage storage.Storage
	random  random.Random
	clock   quartz.Clock
	logger  *slog.Logger
}

// NewController creates a new board Controller
func NewController(
	storage storage.Storage,
	random random.Random,
	clock quartz.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		random:  random,
		clock:   clock,
		logger:  logger,
	}
}

// CreateBoard creates an empty board in the setup state under a fresh code
func (c *Controller) CreateBoard(ctx context.Context) (*model.Board, error) {
	for attempt := 1; attempt <= MaxCreateAttempts; attempt++ {
		board := model.NewBoard(GenerateBoardID(c.random), c.clock.Now())

		err := c.storage.CreateBoard(ctx, board)
		if errors.Is(err, model.ErrBoardExists) {
			c.logger.Warn("board code collision",
				slog.String("board_id", string(board.ID)),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			c.logger.Error("failed to create board",
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		c.logger.Info("board created", slog.String("board_id", string(board.ID)))
		return board, nil
	}
	return nil, model.ErrBoardExists
}

// GetBoard retrieves a board by code, ignoring case and surrounding space
func (c *Controller) GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error) {
	id = model.NormalizeBoardID(string(id))
	if id == "" {
		return nil, model.ErrBoardNotFound
	}
	return c.storage.GetBoard(ctx, id)
}

// SetupBoard names the board and opens it for square claims
func (c *Controller) SetupBoard(ctx context.Context, id model.BoardID, displayName string, maxSquares int) (*model.Board, error) {
	board, err := c.modify(ctx, id, "setup", func(current *model.Board) (*model.Board, error) {
		return rules.SetupBoard(current, displayName, maxSquares)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("board set up",
		slog.String("board_id", string(board.ID)),
		slog.String("display_name", board.DisplayName),
		slog.Int("max_squares", board.MaxSquaresPerContestant),
	)
	return board, nil
}

// ClaimSquare assigns a square to a contestant
func (c *Controller) ClaimSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string) (*model.Board, error) {
	return c.UpdateSquare(ctx, id, pos, contestant, false)
}

// ReleaseSquare removes a contestant's claim on a square
func (c *Controller) ReleaseSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string) (*model.Board, error) {
	return c.UpdateSquare(ctx, id, pos, contestant, true)
}

// UpdateSquare claims a square, or releases it when remove is set
func (c *Controller) UpdateSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string, remove bool) (*model.Board, error) {
	op := "claim"
	if remove {
		op = "release"
	}
	board, err := c.modify(ctx, id, op, func(current *model.Board) (*model.Board, error) {
		return rules.UpdateSquare(current, pos, contestant, remove)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("square updated",
		slog.String("board_id", string(board.ID)),
		slog.String("op", op),
		slog.String("position", pos.Key()),
		slog.String("contestant", contestant),
	)
	return board, nil
}

// AssignTeams randomizes teams and digits for a full board and locks it
func (c *Controller) AssignTeams(ctx context.Context, id model.BoardID) (*model.Board, error) {
	board, err := c.modify(ctx, id, "assign_teams", func(current *model.Board) (*model.Board, error) {
		return rules.AssignTeams(current, c.random)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("teams assigned",
		slog.String("board_id", string(board.ID)),
		slog.String("axis1_team", string(board.Teams.Axis1.Team)),
		slog.String("axis2_team", string(board.Teams.Axis2.Team)),
	)
	return board, nil
}

// modify runs a rule against the latest stored board and persists the result
func (c *Controller) modify(ctx context.Context, id model.BoardID, op string, fn storage.ModifyFunc) (*model.Board, error) {
	id = model.NormalizeBoardID(string(id))
	if id == "" {
		return nil, model.ErrBoardNotFound
	}

	board, err := storage.Modify(ctx, c.storage, id, func(current *model.Board) (*model.Board, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = c.clock.Now()
		return next, nil
	})
	if err != nil && isUnexpected(err) {
		c.logger.Error("failed to update board",
			slog.String("board_id", string(id)),
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
	return board, err
}

// isUnexpected reports whether err falls outside the board error taxonomy
func isUnexpected(err error) bool {
	for _, known := range []error{
		model.ErrInvalidInput,
		model.ErrBoardNotFound,
		model.ErrWrongState,
		model.ErrLimitReached,
		model.ErrAlreadyTaken,
		model.ErrNotOwner,
		model.ErrIncompleteBoard,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateBoard(ctx context.Context) (*model.Board, error)
	GetBoard(ctx context.Context, id model.BoardID) (*model.Board, error)
	SetupBoard(ctx context.Context, id model.BoardID, displayName string, maxSquares int) (*model.Board, error)
	ClaimSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string) (*model.Board, error)
	ReleaseSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string) (*model.Board, error)
	UpdateSquare(ctx context.Context, id model.BoardID, pos model.Position, contestant string, remove bool) (*model.Board, error)
	AssignTeams(ctx context.Context, id model.BoardID) (*model.Board, error)
}

var _ ControllerInterface = (*Controller)(nil)
