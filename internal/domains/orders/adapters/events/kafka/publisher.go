package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

const (
	eventTypeHeader = "event-type"
	// DefaultPublishTimeout bounds how long a request waits on the broker.
	DefaultPublishTimeout = 500 * time.Millisecond
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events to a Kafka topic keyed by order id.
type Publisher struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
}

type Option func(*Publisher)

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// NewWriter builds an asynchronous writer that makes a single delivery attempt.
// Delivery failures are reported to logger rather than to the caller.
func NewWriter(brokers []string, logger *slog.Logger) *kafka.Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  1,
		WriteTimeout: 2 * time.Second,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, msg := range msgs {
				logger.Warn("failed to deliver order event",
					slog.String("topic", msg.Topic),
					slog.String("order.id", string(msg.Key)),
					slog.String("error", err.Error()))
			}
		},
	}
}

func NewPublisher(writer MessageWriter, topic string, opts ...Option) *Publisher {
	p := &Publisher{writer: writer, topic: topic, timeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type envelope struct {
	Event      string          `json:"event"`
	OrderID    string          `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		value, err := json.Marshal(envelope{
			Event:      ev.EventName(),
			OrderID:    ev.AggregateID(),
			OccurredAt: ev.OccurredAt(),
			Payload:    payload,
		})
		if err != nil {
			return err
		}
		headers := injectTraceHeaders(ctx, []kafka.Header{{Key: eventTypeHeader, Value: []byte(ev.EventName())}})
		msgs = append(msgs, kafka.Message{
			Topic:   p.topic,
			Key:     []byte(ev.AggregateID()),
			Value:   value,
			Headers: headers,
			Time:    ev.OccurredAt(),
		})
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
