package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bowlscore/internal/middleware"
	"github.com/mcoot/bowlscore/internal/web/templates/layout"
	"github.com/mcoot/bowlscore/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface.
// A panic renders the error page with a 500 status.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Something went wrong"},
		Message:  "The scoreboard hit an unexpected error. Please try again.",
	}).Render(r.Context(), w)
}
