package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sprig-core/internal/api/middleware"
	"github.com/mcoot/sprig-core/internal/api/request"
	"github.com/mcoot/sprig-core/internal/api/response"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/games"
	"github.com/mcoot/sprig-core/internal/services/snapshot"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games     *games.Repository
	snapshots *snapshot.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *games.Repository, snapshots *snapshot.Service) *GameHandler {
	return &GameHandler{
		games:     games,
		snapshots: snapshots,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	info := middleware.MustGetSessionInfo(r.Context())

	var req request.CreateGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	game, err := h.games.MakeGame(r.Context(), games.MakeGameParams{
		OwnerID:       info.User.ID,
		Unprotected:   req.Unprotected,
		Name:          model.FromPtr(req.Name),
		Code:          model.FromPtr(req.Code),
		TutorialName:  model.FromPtr(req.TutorialName),
		TutorialIndex: model.FromPtr(req.TutorialIndex),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/"+string(game.ID), response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
// Owners may read their games under either tier.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	info := middleware.MustGetSessionInfo(r.Context())

	game, err := h.loadGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if game.OwnerID != info.User.ID {
		WriteError(w, model.ErrAccessDenied)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Update handles PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	game, err := h.loadEditableGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.UpdateGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.games.UpdateGame(r.Context(), game.ID, games.GameUpdate{
		Name: model.FromPtr(req.Name),
		Code: model.FromPtr(req.Code),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(updated))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	game, err := h.loadEditableGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.games.DeleteGame(r.Context(), game.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Snapshot handles POST /api/v1/games/{id}/snapshots
func (h *GameHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	game, err := h.loadEditableGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	snap, err := h.snapshots.MakeSnapshot(r.Context(), game)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/snapshots/"+string(snap.ID), response.SnapshotFromModel(snap))
}

// loadGame fetches the game named by the route
func (h *GameHandler) loadGame(r *http.Request) (*model.Game, error) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// loadEditableGame fetches the game and checks the session may modify it
func (h *GameHandler) loadEditableGame(r *http.Request) (*model.Game, error) {
	info := middleware.MustGetSessionInfo(r.Context())

	game, err := h.loadGame(r)
	if err != nil {
		return nil, err
	}
	if !games.CanEdit(info, game) {
		return nil, model.ErrAccessDenied
	}
	return game, nil
}
