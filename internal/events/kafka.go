// Package events announces finished import jobs on a Kafka topic so other
// systems (reporting, notifications) can react without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/taller/internal/config"
	"github.com/JonMunkholm/taller/internal/core"
	"github.com/segmentio/kafka-go"
)

// JobEvent is the message value published for a finished job.
type JobEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Job        core.JobRecord `json:"job"`
}

// KafkaPublisher implements core.EventPublisher. Messages are keyed by
// job id so all events for a job land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaPublisher{
		writer: w,
		logger: slog.Default().With("component", "kafka-publisher", "topic", cfg.Topic),
	}
}

// PublishJob writes rec synchronously.
func (p *KafkaPublisher) PublishJob(ctx context.Context, rec core.JobRecord) error {
	msg, err := jobMessage(rec, time.Now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish job event", "job_id", rec.ID, "error", err)
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	p.logger.Debug("job event published", "job_id", rec.ID, "state", rec.State)
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func eventType(state string) string {
	if state == core.JobFailed {
		return "import.failed"
	}
	return "import.completed"
}

func jobMessage(rec core.JobRecord, now time.Time) (kafka.Message, error) {
	value, err := json.Marshal(JobEvent{
		Type:       eventType(rec.State),
		OccurredAt: now.UTC(),
		Job:        rec,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshaling job event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(rec.ID),
		Value: value,
		Time:  now,
	}, nil
}
