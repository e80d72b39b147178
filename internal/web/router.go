package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/superbowl-squares/internal/services/board"
	"github.com/mcoot/superbowl-squares/internal/web/handler"
	"github.com/mcoot/superbowl-squares/internal/web/middleware"
	"github.com/mcoot/superbowl-squares/internal/web/sse"
	"github.com/mcoot/superbowl-squares/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	BoardController board.ControllerInterface
	HubManager      *sse.HubManager
	StaticDir       string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.BoardController, cfg.Logger)
	boardHandler := handler.NewBoardHandler(cfg.BoardController, hubManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	public := r.NewRoute().Subrouter()
	public.Use(middleware.Flash())
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/board", homeHandler.Create).Methods(http.MethodPost)
	public.HandleFunc("/board/find", homeHandler.Find).Methods(http.MethodPost)

	// Board routes carry the viewer's name for that board
	boards := r.PathPrefix("/board/{id}").Subrouter()
	boards.Use(middleware.Flash())
	boards.Use(middleware.Contestant())
	boards.HandleFunc("", boardHandler.View).Methods(http.MethodGet)
	boards.HandleFunc("/grid", boardHandler.Grid).Methods(http.MethodGet)
	boards.HandleFunc("/events", boardHandler.Events).Methods(http.MethodGet)
	boards.HandleFunc("/setup", boardHandler.Setup).Methods(http.MethodPost)
	boards.HandleFunc("/name", boardHandler.Name).Methods(http.MethodPost)
	boards.HandleFunc("/switch", boardHandler.Switch).Methods(http.MethodPost)
	boards.HandleFunc("/square", boardHandler.Square).Methods(http.MethodPost)
	boards.HandleFunc("/assign", boardHandler.Assign).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = templates.Error(templates.ErrorData{
			PageData: templates.PageData{Title: "Not found"},
			Status:   http.StatusNotFound,
			Heading:  "Page not found",
			Message:  "There is nothing at this address.",
		}).Render(req.Context(), w)
	})

	return r
}
