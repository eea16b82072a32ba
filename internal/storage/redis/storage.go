package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Every record is a JSON blob under its own key.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads key into dest, returning notFound when the key is missing
func (s *Storage) getJSON(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = model.UserID(uuid.NewString())
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.RPush(ctx, userEmailIndexKey(user.Email), string(user.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ids, err := s.client.LRange(ctx, userEmailIndexKey(email), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		user, err := s.GetUser(ctx, model.UserID(id))
		if errors.Is(err, model.ErrUserNotFound) {
			continue // Index entry outlived its user
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, model.ErrUserNotFound
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	user, err := s.GetUser(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.LRem(ctx, userEmailIndexKey(user.Email), 0, string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	session.ID = model.SessionID(uuid.NewString())
	data, err := json.Marshal(sessionRecordFromModel(session))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, 0).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var record sessionRecord
	if err := s.getJSON(ctx, sessionKey(id), &record, model.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return record.toModel(), nil
}

func (s *Storage) UpdateSessionTier(ctx context.Context, id model.SessionID, tier model.TrustTier) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}

	session.Tier = tier
	data, err := json.Marshal(sessionRecordFromModel(session))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(id), data, redis.KeepTTL).Err()
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Login code operations

func (s *Storage) CreateLoginCode(ctx context.Context, code *model.LoginCode) error {
	code.ID = model.LoginCodeID(uuid.NewString())
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}

	cKey := loginCodeKey(code.ID)
	indexKey := loginCodesForUserIndexKey(code.UserID)

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, cKey, data, s.cfg.LoginCodeTTL)
	pipe.SAdd(ctx, indexKey, cKey)
	if s.cfg.LoginCodeTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.LoginCodeTTL) // Keep index TTL in sync
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLoginCodesForUser(ctx context.Context, userID model.UserID) ([]*model.LoginCode, error) {
	codeKeys, err := s.client.SMembers(ctx, loginCodesForUserIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	if len(codeKeys) == 0 {
		return []*model.LoginCode{}, nil
	}

	values, err := s.client.MGet(ctx, codeKeys...).Result()
	if err != nil {
		return nil, err
	}

	codes := make([]*model.LoginCode, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Code expired
		}
		var code model.LoginCode
		if err := json.Unmarshal([]byte(str), &code); err != nil {
			return nil, err
		}
		codes = append(codes, &code)
	}

	return codes, nil
}

func (s *Storage) DeleteLoginCode(ctx context.Context, id model.LoginCodeID) error {
	var code model.LoginCode
	err := s.getJSON(ctx, loginCodeKey(id), &code, model.ErrLoginCodeNotFound)
	if errors.Is(err, model.ErrLoginCodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, loginCodeKey(id))
	pipe.SRem(ctx, loginCodesForUserIndexKey(code.UserID), loginCodeKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	game.ID = model.GameID(uuid.NewString())
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(game.ID), data, 0).Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	// XX: never resurrect a game deleted since it was read
	ok, err := s.client.SetXX(ctx, gameKey(game.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.client.Del(ctx, gameKey(id)).Err()
}

// Snapshot operations

func (s *Storage) CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	snapshot.ID = model.SnapshotID(uuid.NewString())
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(snapshot.ID), data, 0).Err()
}

func (s *Storage) GetSnapshot(ctx context.Context, id model.SnapshotID) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := s.getJSON(ctx, snapshotKey(id), &snapshot, model.ErrSnapshotNotFound); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
