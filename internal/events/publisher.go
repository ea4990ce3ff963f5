package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tripmate/console/internal/audit"
)

// Publisher emits admin action events onto the platform event bus so other
// services (and the audit worker) can react to console mutations.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Publisher{writer: w}
}

// PublishAction sends one audit entry, keyed by actor so per-admin ordering
// is preserved.
func (p *Publisher) PublishAction(e audit.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, _ := json.Marshal(e)
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Actor), Value: b})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
