package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/games"
	"github.com/mcoot/sprig-core/internal/services/identity"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Service takes snapshots of games and renders them for display
type Service struct {
	storage  storage.Storage
	identity *identity.Service
	games    *games.Repository
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new snapshot Service
func New(
	storage storage.Storage,
	identity *identity.Service,
	games *games.Repository,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		identity: identity,
		games:    games,
		clock:    clock,
		logger:   logger,
	}
}

// MakeSnapshot freezes the game's name and code together with the owner's
// current username. The stored snapshot never changes afterwards.
func (s *Service) MakeSnapshot(ctx context.Context, game *model.Game) (*model.Snapshot, error) {
	owner, err := s.identity.GetUser(ctx, game.OwnerID)
	if err != nil {
		return nil, err
	}
	ownerName := model.None[string]()
	if owner != nil {
		ownerName = owner.Username
	}

	snapshot := &model.Snapshot{
		CreatedAt: s.clock.Now(),
		GameID:    game.ID,
		OwnerID:   game.OwnerID,
		Name:      game.Name,
		OwnerName: ownerName,
		Code:      game.Code,
	}
	if err := s.storage.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "snapshot created", "snapshot_id", snapshot.ID, "game_id", game.ID)
	return snapshot, nil
}

// GetSnapshotData returns the display view of a snapshot, or nil if it does
// not exist. The live game name and owner username take precedence over the
// frozen copies; code always comes from the snapshot.
func (s *Service) GetSnapshotData(ctx context.Context, id model.SnapshotID) (*model.SnapshotData, error) {
	snapshot, err := s.storage.GetSnapshot(ctx, id)
	if errors.Is(err, model.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}

	game, err := s.games.GetGame(ctx, snapshot.GameID)
	if err != nil {
		return nil, err
	}
	owner, err := s.identity.GetUser(ctx, snapshot.OwnerID)
	if err != nil {
		return nil, err
	}

	data := &model.SnapshotData{
		ID:        snapshot.ID,
		CreatedAt: snapshot.CreatedAt,
		Name:      snapshot.Name,
		OwnerName: snapshot.OwnerName,
		Code:      snapshot.Code,
	}
	if game != nil {
		data.Name = game.Name
	}
	if owner != nil && owner.Username.IsSome() {
		data.OwnerName = owner.Username
	}
	return data, nil
}
