package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/services/identity"
	"github.com/mcoot/sprig-core/internal/storage"
)

// TokenJar carries the client-held session token.
// The HTTP implementation is a cookie; tests and the CLI hold it in memory.
type TokenJar interface {
	// Token returns the presented session token, if any
	Token() (model.SessionID, bool)
	// SetToken binds a new session token to the client
	SetToken(id model.SessionID)
}

// Manager resolves and creates sessions for a token.
//
// A token moves between three states: absent, partial and full. The manager
// performs no locking; two concurrent first-time calls for the same token may
// each create a session row.
type Manager struct {
	storage  storage.Storage
	identity *identity.Service
	clock    clock.Clock
	logger   *slog.Logger
}

// NewManager creates a new session Manager
func NewManager(
	storage storage.Storage,
	identity *identity.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		storage:  storage,
		identity: identity,
		clock:    clock,
		logger:   logger,
	}
}

// GetSession returns the session bound to the jar's token along with its
// user, or nil if there is none. A session whose user no longer exists is
// deleted and reported as absent.
func (m *Manager) GetSession(ctx context.Context, jar TokenJar) (*model.SessionInfo, error) {
	id, ok := jar.Token()
	if !ok || id == "" {
		return nil, nil
	}

	session, err := m.storage.GetSession(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	user, err := m.identity.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		m.logger.WarnContext(ctx, "session references missing user",
			"session_id", session.ID,
			"user_id", session.UserID,
		)
		if err := m.storage.DeleteSession(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("delete orphaned session: %w", err)
		}
		return nil, nil
	}

	return &model.SessionInfo{Session: *session, User: *user}, nil
}

// MakeOrUpdateSession authenticates the jar's holder as userID.
//
// If the token already belongs to a session for the same user, that session's
// tier is overwritten from level, which may lower it from full to partial.
// Otherwise a new session is created and the jar is rebound to it.
func (m *Manager) MakeOrUpdateSession(
	ctx context.Context,
	jar TokenJar,
	userID model.UserID,
	level model.AuthLevel,
) (*model.SessionInfo, error) {
	tier := level.Tier()

	current, err := m.GetSession(ctx, jar)
	if err != nil {
		return nil, err
	}

	if current != nil && current.User.ID == userID {
		if err := m.UpdateSessionAuthLevel(ctx, current.Session.ID, level); err != nil {
			return nil, err
		}
		if current.Session.Tier.IsFull() && !tier.IsFull() {
			m.logger.InfoContext(ctx, "session tier lowered by re-authentication",
				"session_id", current.Session.ID,
				"user_id", userID,
				"downgraded", true,
			)
		}
		current.Session.Tier = tier
		return current, nil
	}

	user, err := m.identity.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	session := &model.Session{
		CreatedAt: m.clock.Now(),
		UserID:    userID,
		Tier:      tier,
	}
	if err := m.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	jar.SetToken(session.ID)

	m.logger.InfoContext(ctx, "session created",
		"session_id", session.ID,
		"user_id", userID,
		"tier", tier.String(),
	)
	return &model.SessionInfo{Session: *session, User: *user}, nil
}

// UpdateSessionAuthLevel overwrites the tier of the session with the given ID.
// A missing session is an error.
func (m *Manager) UpdateSessionAuthLevel(ctx context.Context, id model.SessionID, level model.AuthLevel) error {
	if err := m.storage.UpdateSessionTier(ctx, id, level.Tier()); err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return nil
}
