package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bowlscore/internal/api/apierr"
	"github.com/mcoot/bowlscore/internal/middleware"
)

// Recovery turns a panic inside a scoring request into a JSON INTERNAL_ERROR
// that quotes the request ID logged with the stack
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicError)
}

func writePanicError(w http.ResponseWriter, r *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalErrorWithReference(middleware.GetRequestID(r.Context())))
}
