package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// amqpChannel is the part of *amqp.Channel the sender uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSender publishes confirmation messages as JSON to a durable queue.
type AMQPSender struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
	from    string
	logger  *logger.Logger
}

// NewAMQPSender dials the broker and declares the queue.
func NewAMQPSender(cfg config.Mail, log *logger.Logger) (*AMQPSender, error) {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		return nil, errors.New("amqp url is required")
	}
	if strings.TrimSpace(cfg.AMQPQueue) == "" {
		return nil, errors.New("amqp queue is required")
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening broker channel: %w", err)
	}

	if _, err = ch.QueueDeclare(cfg.AMQPQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("error declaring queue %q: %w", cfg.AMQPQueue, err)
	}

	log.Info().Str("func", "NewAMQPSender").Str("queue", cfg.AMQPQueue).Msg("connected to broker")

	return &AMQPSender{
		conn:    conn,
		channel: ch,
		queue:   cfg.AMQPQueue,
		from:    cfg.SenderAddress,
		logger:  log,
	}, nil
}

func (s *AMQPSender) SendConfirmationEmail(ctx context.Context, token, link string, user models.User) error {
	log := logger.FromContext(ctx)

	msg, err := newConfirmationMessage(s.from, link, user)
	if err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error encoding mail message: %w", err)
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         "confirmation_email",
		Body:         body,
	})
	if err != nil {
		log.Err(err).Str("func", "*AMQPSender.SendConfirmationEmail").Str("queue", s.queue).Msg("publish failed")
		return fmt.Errorf("error publishing mail message: %w", err)
	}

	log.Info().Str("func", "*AMQPSender.SendConfirmationEmail").Int64("user_id", user.UserID).Msg("confirmation e-mail queued")
	return nil
}

// Close closes the channel and the broker connection.
func (s *AMQPSender) Close() error {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
