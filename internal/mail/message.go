package mail

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-expense-tracker/models"
)

const confirmationSubject = "Confirm your e-mail"

var (
	ErrEmptyRecipient = errors.New("recipient address is empty")
	ErrEmptyLink      = errors.New("confirmation link is empty")
)

// Message is the driver-independent form of an outgoing e-mail.
type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"link"`
	UserID  int64  `json:"user_id"`
}

func newConfirmationMessage(from, link string, user models.User) (Message, error) {
	if strings.TrimSpace(user.Email) == "" {
		return Message{}, ErrEmptyRecipient
	}
	if strings.TrimSpace(link) == "" {
		return Message{}, ErrEmptyLink
	}

	greeting := user.Username
	if user.Name != "" {
		greeting = user.Name
	}

	body := fmt.Sprintf(
		"Hello, %s!\r\n\r\nPlease confirm your e-mail address by following the link below:\r\n%s\r\n",
		greeting, link,
	)

	return Message{
		From:    from,
		To:      user.Email,
		Subject: confirmationSubject,
		Body:    body,
		Link:    link,
		UserID:  user.UserID,
	}, nil
}

// rfc822 renders m as a plain-text MIME message.
func (m Message) rfc822() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}
