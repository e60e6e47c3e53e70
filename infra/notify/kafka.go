// Package notify delivers notifications to the mail service topic, or to
// the log when no broker is configured.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/ledgersync/pkg/provider/notify"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type envelope struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Message   notify.Message `json:"message"`
}

// KafkaDispatcher publishes one message per notification, keyed by a fresh
// message id.
type KafkaDispatcher struct {
	writer Writer
	logger *slog.Logger
}

func NewKafkaDispatcher(writer Writer, logger *slog.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{writer: writer, logger: logger.With("component", "notify.Kafka")}
}

func (d *KafkaDispatcher) Send(ctx context.Context, msg notify.Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("notify: message %q has no recipients", msg.Template)
	}
	env := envelope{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), Message: msg}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("notify: marshal: %w", err)
	}
	if err := d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.ID),
		Value: data,
		Time:  env.CreatedAt,
		Headers: []kafka.Header{
			{Key: "template", Value: []byte(msg.Template)},
		},
	}); err != nil {
		return fmt.Errorf("notify: publish: %w", err)
	}
	d.logger.Info("📧 notification queued", "id", env.ID, "template", msg.Template, "recipients", len(msg.To))
	return nil
}

// LogDispatcher only logs.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("component", "notify.Log")}
}

func (d *LogDispatcher) Send(_ context.Context, msg notify.Message) error {
	d.logger.Info("📧 notification", "template", msg.Template, "subject", msg.Subject, "to", msg.To)
	return nil
}

var (
	_ notify.Dispatcher = (*KafkaDispatcher)(nil)
	_ notify.Dispatcher = (*LogDispatcher)(nil)
)
