package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sprig-core/internal/api/handler"
	"github.com/mcoot/sprig-core/internal/api/middleware"
	"github.com/mcoot/sprig-core/internal/api/response"
	"github.com/mcoot/sprig-core/internal/services/games"
	"github.com/mcoot/sprig-core/internal/services/identity"
	"github.com/mcoot/sprig-core/internal/services/logincode"
	"github.com/mcoot/sprig-core/internal/services/session"
	"github.com/mcoot/sprig-core/internal/services/snapshot"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Identity   *identity.Service
	Sessions   *session.Manager
	LoginCodes *logincode.Service
	Games      *games.Repository
	Snapshots  *snapshot.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Identity, cfg.Sessions, cfg.LoginCodes)
	gameHandler := handler.NewGameHandler(cfg.Games, cfg.Snapshots)
	snapshotHandler := handler.NewSnapshotHandler(cfg.Snapshots)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	sessionMiddleware := middleware.LoadSession(cfg.Sessions)
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireSession(h)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(sessionMiddleware)

	// Session routes (email login needs no prior session)
	api.HandleFunc("/session/email", sessionHandler.LoginEmail).Methods(http.MethodPost)
	api.Handle("/session/code/request", authed(sessionHandler.RequestCode)).Methods(http.MethodPost)
	api.Handle("/session/code", authed(sessionHandler.LoginCode)).Methods(http.MethodPost)
	api.Handle("/session", authed(sessionHandler.Get)).Methods(http.MethodGet)

	// Game routes (all require a session)
	api.Handle("/games", authed(gameHandler.Create)).Methods(http.MethodPost)
	api.Handle("/games/{id}", authed(gameHandler.Get)).Methods(http.MethodGet)
	api.Handle("/games/{id}", authed(gameHandler.Update)).Methods(http.MethodPatch)
	api.Handle("/games/{id}", authed(gameHandler.Delete)).Methods(http.MethodDelete)
	api.Handle("/games/{id}/snapshots", authed(gameHandler.Snapshot)).Methods(http.MethodPost)

	// Snapshots are public
	api.HandleFunc("/snapshots/{id}", snapshotHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
