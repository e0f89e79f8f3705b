// Package mail delivers account confirmation e-mails.
//
// Three drivers exist: SMTP for direct delivery, AMQP for handing messages to
// an external mailer through a RabbitMQ queue, and a log driver that only
// records the confirmation link (development).
package mail

//go:generate mockgen -source=interfaces.go -destination=../mock/mail_sender_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// Sender dispatches confirmation e-mails. A returned error means the message
// was not handed over and the caller may roll back.
type Sender interface {
	SendConfirmationEmail(ctx context.Context, token, link string, user models.User) error
}
