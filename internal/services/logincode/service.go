package logincode

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/sprig-core/internal/dependencies/clock"
	"github.com/mcoot/sprig-core/internal/dependencies/random"
	"github.com/mcoot/sprig-core/internal/mail"
	"github.com/mcoot/sprig-core/internal/model"
	"github.com/mcoot/sprig-core/internal/storage"
)

// CodeLength is the number of decimal digits in a login code
const CodeLength = 6

// Config holds configuration for login code verification
type Config struct {
	// CodeTTL is how long an issued code is accepted by Verify
	CodeTTL time.Duration
}

// DefaultConfig returns default login code configuration
func DefaultConfig() Config {
	return Config{
		CodeTTL: time.Hour,
	}
}

// Service issues login codes and verifies them
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	mailer  mail.Mailer
	logger  *slog.Logger

	codeTTL time.Duration
}

// New creates a new login code Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	mailer mail.Mailer,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.CodeTTL == 0 {
		cfg.CodeTTL = DefaultConfig().CodeTTL
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		mailer:  mailer,
		logger:  logger,
		codeTTL: cfg.CodeTTL,
	}
}

// MakeLoginCode generates and stores a new code for the user.
// Issuing does not check for collisions or stamp an expiry.
func (s *Service) MakeLoginCode(ctx context.Context, userID model.UserID) (string, error) {
	code := s.random.String(CodeLength, random.Digits)

	record := &model.LoginCode{
		CreatedAt: s.clock.Now(),
		UserID:    userID,
		Code:      code,
	}
	if err := s.storage.CreateLoginCode(ctx, record); err != nil {
		return "", fmt.Errorf("create login code: %w", err)
	}
	return code, nil
}

// Issue makes a login code for the user and mails it to their email address
func (s *Service) Issue(ctx context.Context, user *model.User) error {
	code, err := s.MakeLoginCode(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.mailer.SendLoginCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("deliver login code: %w", err)
	}

	s.logger.InfoContext(ctx, "login code issued", "user_id", user.ID)
	return nil
}

// Verify reports whether code matches a code issued to the user within the
// TTL. A matching code is deleted so it cannot be used again.
func (s *Service) Verify(ctx context.Context, userID model.UserID, code string) (bool, error) {
	codes, err := s.storage.GetLoginCodesForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("list login codes: %w", err)
	}

	now := s.clock.Now()
	for _, candidate := range codes {
		if now.Sub(candidate.CreatedAt) > s.codeTTL {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(candidate.Code), []byte(code)) != 1 {
			continue
		}
		if err := s.storage.DeleteLoginCode(ctx, candidate.ID); err != nil {
			return false, fmt.Errorf("consume login code: %w", err)
		}
		return true, nil
	}

	s.logger.InfoContext(ctx, "login code rejected", "user_id", userID)
	return false, nil
}
