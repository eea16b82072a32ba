package mail

import (
	"context"
	"log/slog"
)

// Mailer delivers login codes to users
type Mailer interface {
	SendLoginCode(ctx context.Context, to, code string) error
}

// LogMailer writes login codes to the log instead of sending them.
// Used for local development when no mail provider is configured.
type LogMailer struct {
	logger *slog.Logger
}

// Ensure LogMailer implements Mailer
var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a mailer that logs each code at info level
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendLoginCode logs the code
func (m *LogMailer) SendLoginCode(ctx context.Context, to, code string) error {
	m.logger.InfoContext(ctx, "login code issued", "to", to, "code", code)
	return nil
}
