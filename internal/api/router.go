package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/superbowl-squares/internal/api/handler"
	"github.com/mcoot/superbowl-squares/internal/api/middleware"
	"github.com/mcoot/superbowl-squares/internal/api/response"
	sharedmw "github.com/mcoot/superbowl-squares/internal/middleware"
	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	BoardController board.ControllerInterface
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	boardHandler := handler.NewBoardHandler(cfg.BoardController, cfg.HubManager, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(sharedmw.Logging(cfg.Logger))

	// Board routes
	api.HandleFunc("/boards", boardHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}", boardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/boards/{id}/setup", boardHandler.Setup).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/squares", boardHandler.Square).Methods(http.MethodPost)
	api.HandleFunc("/boards/{id}/assign-teams", boardHandler.AssignTeams).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusNotFound, handler.ErrorResponse{
			Error: handler.APIError{Code: "NOT_FOUND", Message: "Route not found"},
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
