package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/sprig-core/internal/api/apierr"
	"github.com/mcoot/sprig-core/internal/middleware"
)

// Recovery turns panics into INTERNAL_ERROR JSON responses
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// apiPanicHandler drops any session cookie the handler staged before
// panicking, so a half-finished login never rebinds the client's token.
func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Del("Set-Cookie")
	apierr.WriteError(w, apierr.NewInternalError())
}
