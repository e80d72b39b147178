package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/superbowl-squares/internal/model"
	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/web/middleware"
	"github.com/mcoot/superbowl-squares/internal/web/templates"
)

// HomeHandler handles the home page and finding or creating boards
type HomeHandler struct {
	controller board.ControllerInterface
	logger     *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(controller board.ControllerInterface, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		controller: controller,
		logger:     logger,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := templates.HomeData{
		PageData: templates.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
		Code: r.URL.Query().Get("code"),
	}
	render(w, r, http.StatusOK, templates.Home(data))
}

// Create handles board creation
func (h *HomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.controller.CreateBoard(r.Context())
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Failed to create board")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, boardPath(b.ID), http.StatusSeeOther)
}

// Find looks up a board by the submitted code
func (h *HomeHandler) Find(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	id := model.NormalizeBoardID(r.FormValue("code"))
	if id == "" {
		middleware.SetFlash(w, middleware.FlashError, "Board code is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	b, err := h.controller.GetBoard(r.Context(), id)
	if err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Board not found")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, boardPath(b.ID), http.StatusSeeOther)
}
