package outbox

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubProducer struct {
	written map[string][]kafka.Message
}

func (p *stubProducer) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if p.written == nil {
		p.written = make(map[string][]kafka.Message)
	}
	p.written[topic] = append(p.written[topic], msgs...)
	return nil
}

type stubRegistry struct {
	calls int
	id    int
}

func (r *stubRegistry) EnsureSchema(_ context.Context, _ string, _ string) (int, error) {
	r.calls++
	return r.id, nil
}

func TestDeliverFramesAndRoutesMessages(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{id: 7}
	d := NewDispatcher(nil, producer, registry, time.Second, 10)

	payload := json.RawMessage(`{"task_id":"task-1","user_id":"user-1"}`)
	messages := []Message{
		{
			EventID:       1,
			UserID:        "user-1",
			AggregateType: "task",
			AggregateID:   "task-1",
			EventType:     "task.created",
			Topic:         "task_events",
			SchemaSubject: "task_events-value",
			PartitionKey:  "user-1",
			Payload:       payload,
		},
		{
			EventID:       2,
			UserID:        "user-1",
			AggregateType: "habit",
			AggregateID:   "habit-1",
			EventType:     "habit.logged",
			Topic:         "habit_events",
			SchemaSubject: "habit_events-value",
			PartitionKey:  "user-1",
			Payload:       json.RawMessage(`{"habit_id":"habit-1"}`),
		},
	}

	require.NoError(t, d.deliver(context.Background(), messages))

	require.Len(t, producer.written["task_events"], 1)
	require.Len(t, producer.written["habit_events"], 1)

	record := producer.written["task_events"][0]
	require.Equal(t, []byte("user-1"), record.Key)

	require.GreaterOrEqual(t, len(record.Value), 5)
	require.Equal(t, byte(0), record.Value[0])
	require.Equal(t, uint32(7), binary.BigEndian.Uint32(record.Value[1:5]))
	require.JSONEq(t, string(payload), string(record.Value[5:]))

	headers := make(map[string]string, len(record.Headers))
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, "task.created", headers["event_type"])
	require.Equal(t, "user-1", headers["user_id"])
	require.Equal(t, "task_events-value", headers["schema_subject"])
}

func TestDeliverCachesSchemaIDs(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{id: 3}
	d := NewDispatcher(nil, producer, registry, time.Second, 10)

	msg := Message{
		EventID:       1,
		UserID:        "user-1",
		AggregateType: "task",
		AggregateID:   "task-1",
		EventType:     "task.completed",
		Topic:         "task_events",
		SchemaSubject: "task_events-value",
		PartitionKey:  "user-1",
		Payload:       json.RawMessage(`{}`),
	}

	require.NoError(t, d.deliver(context.Background(), []Message{msg}))
	require.NoError(t, d.deliver(context.Background(), []Message{msg}))
	require.Equal(t, 1, registry.calls)
}

func TestDeliverRejectsUnknownEventType(t *testing.T) {
	d := NewDispatcher(nil, &stubProducer{}, &stubRegistry{}, time.Second, 10)

	err := d.deliver(context.Background(), []Message{{
		EventType:     "task.archived",
		Topic:         "task_events",
		SchemaSubject: "task_events-value",
	}})
	require.Error(t, err)
}
