package mail

import (
	"context"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type logSender struct {
	from string
}

// NewLogSender writes the confirmation link to the log instead of mailing it.
func NewLogSender(cfg config.Mail) Sender {
	return &logSender{from: cfg.SenderAddress}
}

func (s *logSender) SendConfirmationEmail(ctx context.Context, token, link string, user models.User) error {
	msg, err := newConfirmationMessage(s.from, link, user)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().
		Str("func", "*logSender.SendConfirmationEmail").
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("link", msg.Link).
		Msg("confirmation e-mail (not delivered)")

	return nil
}
