// Package events publishes booking lifecycle events to a RabbitMQ topic
// exchange. When no broker is configured a logging fallback stands in.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RoutingBookingCreated   = "booking.created"
	RoutingBookingConfirmed = "booking.confirmed"
	RoutingBookingCancelled = "booking.cancelled"
	RoutingBookingExpired   = "booking.expired"
)

// BookingEvent is the payload of every booking.* message.
type BookingEvent struct {
	EventID       uuid.UUID  `json:"event_id"`
	Type          string     `json:"type"`
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingCode   string     `json:"booking_code"`
	PropertyID    uuid.UUID  `json:"property_id"`
	UserID        uuid.UUID  `json:"user_id"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	TotalAmount   int64      `json:"total_amount"`
	FeeAmount     int64      `json:"fee_amount,omitempty"`
	RefundAmount  int64      `json:"refund_amount,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// AMQPPublisher publishes JSON messages to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

func NewAMQPPublisher(amqpURL, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("parse amqp url: %w", err)
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      log.With(zap.String("component", "amqp_publisher")),
	}, nil
}

// Publish sends body as JSON. A failed publish reopens the channel and is
// retried once.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	p.log.Warn("Publish failed; reopening channel",
		zap.Error(err),
		zap.String("routing_key", routingKey),
	)

	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return fmt.Errorf("publish %s: %w", routingKey, errors.Join(err, chErr))
	}
	p.channel = ch

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher is used when RabbitMQ is not configured or unreachable at
// startup. Events are logged and dropped.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "amqp_publisher"), zap.String("mode", "fallback"))}
}

func (p *LogPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.log.Debug("Publish skipped", zap.String("routing_key", routingKey))
	return nil
}

func (p *LogPublisher) Close() {}
