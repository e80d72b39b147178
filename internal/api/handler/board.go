package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/superbowl-squares/internal/api/request"
	"github.com/mcoot/superbowl-squares/internal/api/response"
	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/web/sse"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 16

// BoardHandler handles board endpoints
type BoardHandler struct {
	controller  board.ControllerInterface
	broadcaster *sse.Broadcaster
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(controller board.ControllerInterface, hubManager *sse.HubManager, logger *slog.Logger) *BoardHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &BoardHandler{
		controller:  controller,
		broadcaster: broadcaster,
	}
}

// Create handles POST /api/v1/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.CreateBoard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/boards/"+string(b.ID))
	response.BoardJSON(w, http.StatusCreated, response.BoardFromModel(b))
}

// Get handles GET /api/v1/boards/{id}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.GetBoard(r.Context(), boardID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.BoardJSON(w, http.StatusOK, response.BoardFromModel(b))
}

// Setup handles POST /api/v1/boards/{id}/setup
func (h *BoardHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req request.SetupBoardRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	b, err := h.controller.SetupBoard(r.Context(), boardID(r), req.DisplayName, req.MaxSquares)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)
	response.BoardJSON(w, http.StatusOK, response.BoardFromModel(b))
}

// Square handles POST /api/v1/boards/{id}/squares
func (h *BoardHandler) Square(w http.ResponseWriter, r *http.Request) {
	var req request.SquareRequest
	if err := decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	pos, err := req.ResolvePosition()
	if err != nil {
		WriteError(w, err)
		return
	}

	b, err := h.controller.UpdateSquare(r.Context(), boardID(r), pos, req.Name, req.Remove)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)
	response.BoardJSON(w, http.StatusOK, response.BoardFromModel(b))
}

// AssignTeams handles POST /api/v1/boards/{id}/assign-teams
func (h *BoardHandler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.AssignTeams(r.Context(), boardID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)
	response.BoardJSON(w, http.StatusOK, response.BoardFromModel(b))
}

func boardID(r *http.Request) model.BoardID {
	return model.NormalizeBoardID(mux.Vars(r)["id"])
}

// decode reads a JSON request body into v
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return NewInvalidRequestError("Request body is required")
		}
		return NewInvalidRequestError("Invalid JSON body")
	}
	return nil
}
