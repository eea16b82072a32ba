package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state
// with the store.
type Storage struct {
	mu sync.RWMutex

	users      map[model.UserID]model.User
	emailIndex map[string][]model.UserID
	sessions   map[model.SessionID]model.Session
	loginCodes map[model.LoginCodeID]model.LoginCode
	games      map[model.GameID]model.Game
	snapshots  map[model.SnapshotID]model.Snapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:      make(map[model.UserID]model.User),
		emailIndex: make(map[string][]model.UserID),
		sessions:   make(map[model.SessionID]model.Session),
		loginCodes: make(map[model.LoginCodeID]model.LoginCode),
		games:      make(map[model.GameID]model.Game),
		snapshots:  make(map[model.SnapshotID]model.Snapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func newID() string {
	return uuid.NewString()
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = model.UserID(newID())
	s.users[user.ID] = *user
	s.emailIndex[user.Email] = append(s.emailIndex[user.Email], user.ID)
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.emailIndex[email] {
		if user, ok := s.users[id]; ok {
			return &user, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	delete(s.users, id)

	ids := s.emailIndex[user.Email]
	for i, candidate := range ids {
		if candidate == id {
			s.emailIndex[user.Email] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(s.emailIndex[user.Email]) == 0 {
		delete(s.emailIndex, user.Email)
	}
	return nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = model.SessionID(newID())
	s.sessions[session.ID] = *session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *Storage) UpdateSessionTier(ctx context.Context, id model.SessionID, tier model.TrustTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	session.Tier = tier
	s.sessions[id] = session
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Login code operations

func (s *Storage) CreateLoginCode(ctx context.Context, code *model.LoginCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	code.ID = model.LoginCodeID(newID())
	s.loginCodes[code.ID] = *code
	return nil
}

func (s *Storage) GetLoginCodesForUser(ctx context.Context, userID model.UserID) ([]*model.LoginCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []*model.LoginCode
	for _, code := range s.loginCodes {
		if code.UserID == userID {
			c := code
			codes = append(codes, &c)
		}
	}
	return codes, nil
}

func (s *Storage) DeleteLoginCode(ctx context.Context, id model.LoginCodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loginCodes, id)
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game.ID = model.GameID(newID())
	s.games[game.ID] = *game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return &game, nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return model.ErrGameNotFound
	}
	s.games[game.ID] = *game
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Snapshot operations

func (s *Storage) CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.ID = model.SnapshotID(newID())
	s.snapshots[snapshot.ID] = *snapshot
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[id]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return &snapshot, nil
}
