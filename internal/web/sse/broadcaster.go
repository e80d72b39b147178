package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/web/templates"
)

// Event names sent to board clients
const (
	EventBoardUpdated = "board-updated"
	EventBoardStatus  = "board-status"
)

// BoardUpdate is the data of a board-updated event
type BoardUpdate struct {
	Version int64            `json:"version"`
	State   model.BoardState `json:"state"`
	Claimed int              `json:"claimed"`
}

// Broadcaster handles broadcasting updates to SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastBoardUpdated tells every viewer of the board that it changed. The
// shared status panel is pushed as an out-of-band swap; each viewer refetches
// its own grid on the board-updated event.
func (b *Broadcaster) BroadcastBoardUpdated(ctx context.Context, board *model.Board) {
	if b == nil || b.hubManager == nil {
		return
	}
	hub := b.hubManager.GetHub(board.ID)
	if hub == nil {
		return
	}

	var buf bytes.Buffer
	if err := templates.Status(templates.NewBoardView(board, "")).Render(ctx, &buf); err != nil {
		b.logger.Error("sse failed to render board status",
			slog.String("board_id", string(board.ID)),
			slog.Any("error", err))
	} else {
		hub.BroadcastEvent(EventBoardStatus, WrapForOOBSwap("board-status", buf.String()))
	}

	data, err := json.Marshal(BoardUpdate{
		Version: board.Version,
		State:   board.State,
		Claimed: board.ClaimedCount(),
	})
	if err != nil {
		b.logger.Error("sse failed to encode board update",
			slog.String("board_id", string(board.ID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(EventBoardUpdated, string(data))
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
