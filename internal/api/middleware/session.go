package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/sprig-core/internal/api/apierr"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/session"
	"github.com/mcoot/sprig-core/internal/transport/cookie"
)

type contextKey string

const sessionInfoContextKey contextKey = "session_info"

// LoadSession resolves the sprigSession cookie, if any, and stores the
// session and its user in the request context. Requests without a valid
// session pass through unchanged.
func LoadSession(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, err := manager.GetSession(r.Context(), cookie.NewHTTPJar(w, r))
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			if info != nil {
				r = r.WithContext(WithSessionInfo(r.Context(), info))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests that LoadSession did not authenticate
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessionInfo(r.Context()) == nil {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithSessionInfo returns a context carrying the resolved session
func WithSessionInfo(ctx context.Context, info *model.SessionInfo) context.Context {
	return context.WithValue(ctx, sessionInfoContextKey, info)
}

// GetSessionInfo returns the resolved session from the request context, or nil
func GetSessionInfo(ctx context.Context) *model.SessionInfo {
	info, _ := ctx.Value(sessionInfoContextKey).(*model.SessionInfo)
	return info
}

// MustGetSessionInfo returns the resolved session or panics
func MustGetSessionInfo(ctx context.Context) *model.SessionInfo {
	info := GetSessionInfo(ctx)
	if info == nil {
		panic("no session in context - RequireSession not applied?")
	}
	return info
}
