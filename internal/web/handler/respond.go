package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/bowlscore/internal/api/apierr"
	"github.com/mcoot/bowlscore/internal/model"
	"github.com/mcoot/bowlscore/internal/web/middleware"
	"github.com/mcoot/bowlscore/internal/web/templates/layout"
	"github.com/mcoot/bowlscore/internal/web/templates/pages"
)

// redirect sends the browser to path. HTMX requests get an HX-Redirect so
// navigation happens client-side.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// failTo flashes err and redirects to path
func failTo(w http.ResponseWriter, r *http.Request, path string, err error) {
	middleware.SetFlash(w, "error", apierr.Message(err))
	redirect(w, r, path)
}

// render writes a full page
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
}

// renderError shows an error page for lookups that failed
func renderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apierr.Status(err)
	title := "Something went wrong"
	switch {
	case errors.Is(err, model.ErrMatchNotFound):
		title = "Match not found"
	case errors.Is(err, model.ErrLaneNotFound):
		title = "Lane not found"
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	render(w, r, logger, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: title, Flash: middleware.GetFlash(r.Context())},
		Message:  apierr.Message(err),
	}))
}
