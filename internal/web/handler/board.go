package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/web/middleware"
	"github.com/mcoot/superbowl-squares/internal/web/sse"
	"github.com/mcoot/superbowl-squares/internal/web/templates"
)

// BoardHandler handles board pages and actions
type BoardHandler struct {
	controller  board.ControllerInterface
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(controller board.ControllerInterface, hubManager *sse.HubManager, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: sse.NewBroadcaster(hubManager, logger),
		logger:      logger,
	}
}

// View renders the board page
func (h *BoardHandler) View(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.GetBoard(r.Context(), boardID(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	viewer := middleware.GetContestant(r.Context())
	title := b.DisplayName
	if title == "" {
		title = "Board " + string(b.ID)
	}

	data := templates.BoardPageData{
		PageData: templates.PageData{
			Title: title,
			Flash: middleware.GetFlash(r.Context()),
		},
		View: templates.NewBoardView(b, viewer),
	}
	render(w, r, http.StatusOK, templates.Board(data))
}

// Grid renders the grid fragment for the current viewer
func (h *BoardHandler) Grid(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.GetBoard(r.Context(), boardID(r))
	if err != nil {
		http.Error(w, "Board not found", http.StatusNotFound)
		return
	}

	viewer := middleware.GetContestant(r.Context())
	render(w, r, http.StatusOK, templates.Grid(templates.NewBoardView(b, viewer)))
}

// Setup names the board and sets the per-contestant limit
func (h *BoardHandler) Setup(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		redirect(w, r, boardPath(id))
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	maxRaw := strings.TrimSpace(r.FormValue("max_squares"))
	if displayName == "" || maxRaw == "" {
		middleware.SetFlash(w, middleware.FlashError, "Please fill in all fields")
		redirect(w, r, boardPath(id))
		return
	}
	maxSquares, err := strconv.Atoi(maxRaw)
	if err != nil || maxSquares < 1 || maxSquares > model.TotalSquares {
		middleware.SetFlash(w, middleware.FlashError, "Maximum squares must be between 1 and 100")
		redirect(w, r, boardPath(id))
		return
	}

	b, err := h.controller.SetupBoard(r.Context(), id, displayName, maxSquares)
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, errorMessage(err))
		redirect(w, r, boardPath(id))
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)
	middleware.SetFlash(w, middleware.FlashSuccess, "Board is ready! Share the code "+string(b.ID))
	redirect(w, r, boardPath(b.ID))
}

// Name remembers who the viewer is on this board
func (h *BoardHandler) Name(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		redirect(w, r, boardPath(id))
		return
	}

	b, err := h.controller.GetBoard(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	name, ok := middleware.NormalizeContestant(r.FormValue("name"))
	if !ok {
		middleware.SetFlash(w, middleware.FlashError, "Please enter your name")
		redirect(w, r, boardPath(b.ID))
		return
	}

	middleware.SetContestant(w, b.ID, name)
	redirect(w, r, boardPath(b.ID))
}

// Switch forgets the viewer's name so someone else can pick squares
func (h *BoardHandler) Switch(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	middleware.ClearContestant(w, id)
	redirect(w, r, boardPath(id))
}

// Square claims an open square, or releases one the viewer already holds
func (h *BoardHandler) Square(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	viewer := middleware.GetContestant(r.Context())
	if viewer == "" {
		middleware.SetFlash(w, middleware.FlashError, "Please enter your name first")
		redirect(w, r, boardPath(id))
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		redirect(w, r, boardPath(id))
		return
	}

	pos, err := model.ParsePosition(r.FormValue("position"))
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid square")
		redirect(w, r, boardPath(id))
		return
	}

	current, err := h.controller.GetBoard(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	remove := current.Owner(pos) == viewer
	b, err := h.controller.UpdateSquare(r.Context(), id, pos, viewer, remove)
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, errorMessage(err))
		redirect(w, r, boardPath(id))
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)

	if isHTMX(r) {
		render(w, r, http.StatusOK, templates.Grid(templates.NewBoardView(b, viewer)))
		return
	}
	redirect(w, r, boardPath(b.ID))
}

// Assign randomizes teams and numbers once every square is claimed
func (h *BoardHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id := boardID(r)
	b, err := h.controller.AssignTeams(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, errorMessage(err))
		redirect(w, r, boardPath(id))
		return
	}

	h.broadcaster.BroadcastBoardUpdated(r.Context(), b)
	middleware.SetFlash(w, middleware.FlashSuccess, "Teams and numbers assigned!")
	redirect(w, r, boardPath(b.ID))
}

// Events streams board updates over SSE
func (h *BoardHandler) Events(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.GetBoard(r.Context(), boardID(r))
	if err != nil {
		http.Error(w, "Board not found", http.StatusNotFound)
		return
	}

	hub := h.hubManager.GetOrCreateHub(b.ID)
	sse.ServeSSE(w, r, hub, middleware.GetContestant(r.Context()))
}

// renderError renders the error page for a failed board lookup
func (h *BoardHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrBoardNotFound) {
		render(w, r, http.StatusNotFound, templates.Error(templates.NotFound()))
		return
	}

	h.logger.Error("failed to load board", slog.String("error", err.Error()))
	render(w, r, http.StatusInternalServerError, templates.Error(templates.ErrorData{
		PageData: templates.PageData{Title: "Error"},
		Status:   http.StatusInternalServerError,
		Heading:  "Something went wrong",
		Message:  "Please try again in a moment.",
	}))
}

func boardID(r *http.Request) model.BoardID {
	return model.NormalizeBoardID(mux.Vars(r)["id"])
}

// errorMessage turns a board error into a flash message
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrBoardNotFound):
		return "Board not found"
	case errors.Is(err, model.ErrLimitReached):
		return "You have already selected the maximum number of squares"
	case errors.Is(err, model.ErrAlreadyTaken):
		return "That square is already taken"
	case errors.Is(err, model.ErrNotOwner):
		return "That square belongs to someone else"
	case errors.Is(err, model.ErrIncompleteBoard):
		return "All 100 squares must be claimed before assigning teams"
	case errors.Is(err, model.ErrWrongState):
		return "The board is not accepting that change right now"
	case errors.Is(err, model.ErrVersionConflict):
		return "The board changed while saving, please try again"
	case errors.Is(err, model.ErrInvalidInput):
		return "Invalid request"
	default:
		return "Something went wrong"
	}
}
