package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stakevote/contexts/staking-governance/voting-engine/adapters/memory"
	"stakevote/contexts/staking-governance/voting-engine/application/workers"
	"stakevote/contexts/staking-governance/voting-engine/ports"
)

type capturingPublisher struct {
	topics []string
	fail   error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.fail != nil {
		return p.fail
	}
	p.topics = append(p.topics, topic)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string, occurredAt time.Time) {
	t.Helper()
	data, err := json.Marshal(map[string]any{"project_id": 1})
	require.NoError(t, err)
	require.NoError(t, store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:      eventID,
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PartitionKey: "1",
		Data:         data,
	}))
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	appendEnvelope(t, store, "evt-1", "project.created", base)
	appendEnvelope(t, store, "evt-2", "vote.cast", base.Add(time.Minute))

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.NoError(t, relay.RunOnce(context.Background()))
	require.Equal(t, []string{"project.created", "vote.cast"}, publisher.topics)

	// Acked rows are not replayed.
	require.NoError(t, relay.RunOnce(context.Background()))
	require.Equal(t, []string{"project.created", "vote.cast"}, publisher.topics)
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	appendEnvelope(t, store, "evt-1", "project.created", base)

	brokerErr := errors.New("broker unavailable")
	publisher := &capturingPublisher{fail: brokerErr}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.ErrorIs(t, relay.RunOnce(context.Background()), brokerErr)

	// The row stays pending and is retried once the broker recovers.
	publisher.fail = nil
	require.NoError(t, relay.RunOnce(context.Background()))
	require.Equal(t, []string{"project.created"}, publisher.topics)
}
