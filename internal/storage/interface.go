package storage

import (
	"context"

	"github.com/mcoot/sprig-core/internal/model"
)

// Storage defines the interface for data persistence over the five logical
// collections: users, sessions, loginCodes, games and snapshots.
//
// Create operations assign a store-generated ID to the record passed in.
// Lookups of missing records return the matching model.ErrXNotFound error.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	// GetUserByEmail returns the first user created with the given email
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	// UpdateSessionTier overwrites the tier of an existing session
	UpdateSessionTier(ctx context.Context, id model.SessionID, tier model.TrustTier) error
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Login code operations
	CreateLoginCode(ctx context.Context, code *model.LoginCode) error
	GetLoginCodesForUser(ctx context.Context, userID model.UserID) ([]*model.LoginCode, error)
	DeleteLoginCode(ctx context.Context, id model.LoginCodeID) error

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// SaveGame overwrites an existing game document; the last write wins.
	// A game that no longer exists is not recreated: ErrGameNotFound.
	SaveGame(ctx context.Context, game *model.Game) error
	DeleteGame(ctx context.Context, id model.GameID) error

	// Snapshot operations
	CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) error
	GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error)
}
