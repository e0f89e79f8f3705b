package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpSender struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail sendMailFunc
	logger   *logger.Logger
}

// NewSMTPSender delivers messages through the configured SMTP relay. PLAIN
// authentication is used when a username is configured.
func NewSMTPSender(cfg config.Mail, log *logger.Logger) Sender {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &smtpSender{
		addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:     auth,
		from:     cfg.SenderAddress,
		sendMail: smtp.SendMail,
		logger:   log,
	}
}

func (s *smtpSender) SendConfirmationEmail(ctx context.Context, token, link string, user models.User) error {
	log := logger.FromContext(ctx)

	msg, err := newConfirmationMessage(s.from, link, user)
	if err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, msg.rfc822()); err != nil {
		log.Err(err).Str("func", "*smtpSender.SendConfirmationEmail").Int64("user_id", user.UserID).Msg("smtp delivery failed")
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	log.Info().Str("func", "*smtpSender.SendConfirmationEmail").Int64("user_id", user.UserID).Msg("confirmation e-mail sent")
	return nil
}
