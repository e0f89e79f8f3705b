package mail

import (
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
)

// NewSender builds the sender selected by cfg.Driver. Senders holding broker
// connections also implement io.Closer.
func NewSender(cfg config.Mail, log *logger.Logger) (Sender, error) {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPSender(cfg, log), nil
	case config.MailDriverAMQP:
		sender, err := NewAMQPSender(cfg, log)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case config.MailDriverLog, "":
		return NewLogSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}
