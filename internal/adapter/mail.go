package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/resend/resend-go/v2"
)

// resendMailer delivers password-reset emails through the Resend API.
type resendMailer struct {
	client *resend.Client
	from   string
	logger *logger.Logger
}

// NewResendMailer constructs a [Mailer] backed by Resend, sending from the
// configured address.
func NewResendMailer(cfg config.Mail, log *logger.Logger) (Mailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: mail api key is required", ErrSendingEmail)
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("%w: sender address is required", ErrSendingEmail)
	}

	log.Debug().Str("from", cfg.From).Msg("creating resend mailer")
	return &resendMailer{
		client: resend.NewClient(cfg.APIKey),
		from:   cfg.From,
		logger: log,
	}, nil
}

// SendResetEmail sends the password-reset link to the given address.
func (m *resendMailer) SendResetEmail(ctx context.Context, to, resetLink string) error {
	log := logger.FromContext(ctx)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset password",
		Html:    fmt.Sprintf(`<p>Click <a href="%s">here</a> to reset your password!</p>`, resetLink),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Err(err).Str("func", "resendMailer.SendResetEmail").Msg("failed to send reset email")
		return fmt.Errorf("%w: %w", ErrSendingEmail, err)
	}

	log.Info().Str("func", "resendMailer.SendResetEmail").Str("email_id", sent.Id).Msg("reset email sent")
	return nil
}
