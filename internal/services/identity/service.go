package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// Service looks up and creates users
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new identity Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetUser returns the user with the given ID, or nil if there is none
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	user, err := s.storage.GetUser(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail returns the first user registered with the email, or nil.
// Duplicate emails are possible; later matches are ignored.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// MakeUser creates a user. It never checks for an existing user with the same email.
func (s *Service) MakeUser(ctx context.Context, email string, username model.Optional[string]) (*model.User, error) {
	user := &model.User{
		CreatedAt: s.clock.Now(),
		Email:     email,
		Username:  username,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.DebugContext(ctx, "user created", "user_id", user.ID)
	return user, nil
}
