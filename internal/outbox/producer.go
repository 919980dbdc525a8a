package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes dispatcher batches, keeping one writer per
// destination topic so task and habit events do not share a pipeline.
type KafkaProducer struct {
	brokers []string

	mu      sync.RWMutex
	writers map[string]*kafka.Writer
}

// NewKafkaProducer creates a producer for the given broker list. Writers
// are opened on first use per topic.
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// WriteMessages publishes msgs to topic. Delivery is synchronous and waits
// for acknowledgement from all in-sync replicas so the dispatcher only marks
// outbox rows published after the broker has them.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	p.mu.RLock()
	writer, ok := p.writers[topic]
	p.mu.RUnlock()
	if !ok {
		writer = p.openWriter(topic)
	}
	return writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) openWriter(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have opened it between the RLock and here.
	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		BatchTimeout: 50 * time.Millisecond,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close shuts down every topic writer and reports any close failures.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.writers, topic)
	}
	return errors.Join(errs...)
}
