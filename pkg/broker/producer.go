package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
	"github.com/segmentio/kafka-go"

	"github.com/samandr77/healthportal/internal/entity"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes audit events. Writes are async and failures are only logged:
// auditing must never block or fail a user operation.
type Producer struct {
	l          *slog.Logger
	w          messageWriter
	auditTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "",
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Compression:            0,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:          l,
		w:          w,
		auditTopic: topic,
	}
}

type auditMessage struct {
	ID string `json:"id"`
	entity.Event
}

func (p *Producer) Publish(ctx context.Context, event entity.Event) {
	b, err := json.Marshal(auditMessage{ID: uuid.Must(uuid.NewV4()).String(), Event: event})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	// keyed by user so one user's events stay ordered within a partition
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: b,
		Topic: p.auditTopic,
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

// Discard is used when no brokers are configured.
type Discard struct{}

func (Discard) Publish(context.Context, entity.Event) {}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, args ...any) {
	l.l.Debug(fmt.Sprintf(format, args...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, args ...any) {
	l.l.Error(fmt.Sprintf(format, args...))
}
