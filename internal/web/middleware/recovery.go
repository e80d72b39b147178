package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/superbowl-squares/internal/middleware"
	"github.com/mcoot/superbowl-squares/internal/web/templates"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = templates.Error(templates.ErrorData{
		PageData: templates.PageData{Title: "Error"},
		Status:   http.StatusInternalServerError,
		Heading:  "Internal Server Error",
		Message:  "Something went wrong. Please try again later.",
	}).Render(r.Context(), w)
}
