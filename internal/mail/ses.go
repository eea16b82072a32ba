package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const loginCodeSubject = "Your Sprig login code"

// sesAPI is the subset of the SES client used for sending
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig holds Amazon SES settings
type SESConfig struct {
	Region    string
	FromEmail string
	FromName  string
}

// SESMailer sends login codes through Amazon SES
type SESMailer struct {
	client      sesAPI
	fromAddress string
	logger      *slog.Logger
}

// Ensure SESMailer implements Mailer
var _ Mailer = (*SESMailer)(nil)

// NewSESMailer loads the default AWS configuration for the region and
// creates an SES-backed mailer
func NewSESMailer(ctx context.Context, cfg SESConfig, logger *slog.Logger) (*SESMailer, error) {
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("ses mailer: from address not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("ses mailer enabled", "from", cfg.FromEmail, "region", cfg.Region)
	return newSESMailer(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

func newSESMailer(client sesAPI, cfg SESConfig, logger *slog.Logger) *SESMailer {
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &SESMailer{client: client, fromAddress: from, logger: logger}
}

// SendLoginCode emails the code to the given address
func (m *SESMailer) SendLoginCode(ctx context.Context, to, code string) error {
	text := fmt.Sprintf("Your Sprig login code is %s\n\nIf you did not try to log in, you can ignore this email.\n", code)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(loginCodeSubject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(text),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send login code to %s: %w", to, err)
	}

	attrs := []any{"to", to}
	if result.MessageId != nil {
		attrs = append(attrs, "message_id", *result.MessageId)
	}
	m.logger.InfoContext(ctx, "login code sent", attrs...)
	return nil
}
