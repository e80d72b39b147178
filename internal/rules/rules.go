package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/superbowl-squares/internal/dependencies/random"
	"github.com/mcoot/superbowl-squares/internal/model"
)

// SetupBoard names the board, sets the per-contestant limit and opens it for claims
func SetupBoard(board *model.Board, displayName string, maxSquares int) (*model.Board, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", model.ErrInvalidInput)
	}
	if maxSquares < 1 || maxSquares > model.MaxSquaresLimit {
		return nil, fmt.Errorf("%w: maximum squares must be between 1 and %d", model.ErrInvalidInput, model.MaxSquaresLimit)
	}
	if board.State != model.BoardStateSetup {
		return nil, fmt.Errorf("%w: board is not in setup state", model.ErrWrongState)
	}

	next := board.Clone()
	next.DisplayName = displayName
	next.MaxSquaresPerContestant = maxSquares
	next.State = model.BoardStateChoosing
	return next, nil
}

// ClaimSquare assigns an unclaimed square to a contestant
func ClaimSquare(board *model.Board, pos model.Position, contestant string) (*model.Board, error) {
	contestant, err := validateSquareRequest(pos, contestant)
	if err != nil {
		return nil, err
	}
	if board.State != model.BoardStateChoosing {
		return nil, fmt.Errorf("%w: board is not in choosing state", model.ErrWrongState)
	}
	if board.CountOwnedBy(contestant) >= board.MaxSquaresPerContestant {
		return nil, fmt.Errorf("%w (%d)", model.ErrLimitReached, board.MaxSquaresPerContestant)
	}
	if _, taken := board.Squares[pos]; taken {
		return nil, model.ErrAlreadyTaken
	}

	next := board.Clone()
	next.Squares[pos] = contestant
	return next, nil
}

// ReleaseSquare removes a contestant's claim on a square they own
func ReleaseSquare(board *model.Board, pos model.Position, contestant string) (*model.Board, error) {
	contestant, err := validateSquareRequest(pos, contestant)
	if err != nil {
		return nil, err
	}
	if board.State != model.BoardStateChoosing {
		return nil, fmt.Errorf("%w: board is not in choosing state", model.ErrWrongState)
	}
	if owner, ok := board.Squares[pos]; !ok || owner != contestant {
		return nil, model.ErrNotOwner
	}

	next := board.Clone()
	delete(next.Squares, pos)
	return next, nil
}

// UpdateSquare claims a square, or releases it when remove is set
func UpdateSquare(board *model.Board, pos model.Position, contestant string, remove bool) (*model.Board, error) {
	if remove {
		return ReleaseSquare(board, pos, contestant)
	}
	return ClaimSquare(board, pos, contestant)
}

// AssignTeams randomly binds the two teams to the axes, draws an independent
// digit order for each axis and locks the board
func AssignTeams(board *model.Board, rnd random.Random) (*model.Board, error) {
	if board.State != model.BoardStateChoosing {
		return nil, fmt.Errorf("%w: board is not in choosing state", model.ErrWrongState)
	}
	if !board.IsFull() {
		return nil, fmt.Errorf("%w: %d of %d claimed", model.ErrIncompleteBoard, board.ClaimedCount(), model.TotalSquares)
	}

	teams := random.Shuffle(rnd, model.Teams[:])
	next := board.Clone()
	next.Teams = &model.TeamAssignment{
		Axis1: model.Axis{Team: teams[0], Numbers: random.Shuffle(rnd, random.Digits())},
		Axis2: model.Axis{Team: teams[1], Numbers: random.Shuffle(rnd, random.Digits())},
	}
	next.State = model.BoardStateLocked
	return next, nil
}

func validateSquareRequest(pos model.Position, contestant string) (string, error) {
	if !pos.IsValid() {
		return "", fmt.Errorf("%w: position %s is outside the grid", model.ErrInvalidInput, pos)
	}
	contestant = strings.TrimSpace(contestant)
	if contestant == "" {
		return "", fmt.Errorf("%w: contestant name is required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(contestant) > model.MaxContestantLength {
		return "", fmt.Errorf("%w: contestant name is longer than %d characters", model.ErrInvalidInput, model.MaxContestantLength)
	}
	return contestant, nil
}
