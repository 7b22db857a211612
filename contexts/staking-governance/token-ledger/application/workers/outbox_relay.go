package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "stakevote/contexts/staking-governance/token-ledger/application"
	"stakevote/contexts/staking-governance/token-ledger/ports"
)

// OutboxRelay publishes persisted ledger events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows, acking each row
// only after broker publish succeeds.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("ledger outbox list failed",
			"event", "ledger_outbox_list_failed",
			"module", "staking-governance/token-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("ledger outbox decode failed",
				"event", "ledger_outbox_decode_failed",
				"module", "staking-governance/token-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("ledger outbox publish failed",
				"event", "ledger_outbox_publish_failed",
				"module", "staking-governance/token-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, row.OutboxID, now); err != nil {
			logger.Error("ledger outbox ack failed",
				"event", "ledger_outbox_ack_failed",
				"module", "staking-governance/token-ledger",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("ledger outbox batch published",
		"event", "ledger_outbox_published",
		"module", "staking-governance/token-ledger",
		"layer", "worker",
		"count", len(pending),
	)
	return nil
}
