package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/sprig-core/internal/middleware"
)

// Logging logs each API request with its status and request id
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
