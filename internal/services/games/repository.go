package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/names"
	"github.com/mcoot/sprig-core/internal/storage"
)

// MakeGameParams describes a new game. Absent Name and Code are filled with
// defaults; absent tutorial fields are stored as explicitly absent.
type MakeGameParams struct {
	OwnerID       model.UserID
	Unprotected   bool
	Name          model.Optional[string]
	Code          model.Optional[string]
	TutorialName  model.Optional[string]
	TutorialIndex model.Optional[int]
}

// GameUpdate holds the editable fields of a game; absent fields are left as is
type GameUpdate struct {
	Name model.Optional[string]
	Code model.Optional[string]
}

// Repository reads and writes games
type Repository struct {
	storage storage.Storage
	names   names.Generator
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRepository creates a new game Repository
func NewRepository(
	storage storage.Storage,
	names names.Generator,
	clock clock.Clock,
	logger *slog.Logger,
) *Repository {
	return &Repository{
		storage: storage,
		names:   names,
		clock:   clock,
		logger:  logger,
	}
}

// GetGame returns the game with the given ID, or nil if the ID is empty or unknown
func (r *Repository) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if id == "" {
		return nil, nil
	}
	game, err := r.storage.GetGame(ctx, id)
	if errors.Is(err, model.ErrGameNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return game, nil
}

// MakeGame creates a game owned by params.OwnerID
func (r *Repository) MakeGame(ctx context.Context, params MakeGameParams) (*model.Game, error) {
	name, ok := params.Name.Get()
	if !ok {
		name = r.names.Generate()
	}

	now := r.clock.Now()
	game := &model.Game{
		OwnerID:       params.OwnerID,
		CreatedAt:     now,
		ModifiedAt:    now,
		Unprotected:   params.Unprotected,
		Name:          name,
		Code:          params.Code.OrElse(""),
		TutorialName:  params.TutorialName,
		TutorialIndex: params.TutorialIndex,
	}
	if err := r.storage.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	r.logger.DebugContext(ctx, "game created", "game_id", game.ID, "owner_id", game.OwnerID)
	return game, nil
}

// UpdateGame applies the update and stamps ModifiedAt.
// Concurrent updates are not ordered; the last write wins.
func (r *Repository) UpdateGame(ctx context.Context, id model.GameID, update GameUpdate) (*model.Game, error) {
	game, err := r.storage.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}

	if name, ok := update.Name.Get(); ok {
		game.Name = name
	}
	if code, ok := update.Code.Get(); ok {
		game.Code = code
	}
	game.ModifiedAt = r.clock.Now()

	if err := r.storage.SaveGame(ctx, game); err != nil {
		return nil, fmt.Errorf("save game %s: %w", id, err)
	}
	return game, nil
}

// DeleteGame removes the game. Snapshots taken from it are kept.
func (r *Repository) DeleteGame(ctx context.Context, id model.GameID) error {
	if err := r.storage.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	r.logger.DebugContext(ctx, "game deleted", "game_id", id)
	return nil
}

// CanEdit reports whether the session may modify the game: the session's
// user must own it, and a partial session may only touch unprotected games.
func CanEdit(info *model.SessionInfo, game *model.Game) bool {
	if info == nil || game == nil {
		return false
	}
	if info.User.ID != game.OwnerID {
		return false
	}
	return info.Session.Tier.IsFull() || game.Unprotected
}
