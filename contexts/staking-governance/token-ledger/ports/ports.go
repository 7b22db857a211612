package ports

import (
	"context"
	"time"

	contractsv1 "stakevote/contracts/gen/events/v1"
)

// LedgerRepository persists balances, allowances and the minted supply.
// Callers serialize writes; the repository only needs read/write primitives.
type LedgerRepository interface {
	GetBalance(ctx context.Context, address string) (int64, error)
	SetBalance(ctx context.Context, address string, amount int64) error
	GetAllowance(ctx context.Context, owner string, spender string) (int64, error)
	SetAllowance(ctx context.Context, owner string, spender string, amount int64) error
	GetTotalSupply(ctx context.Context) (int64, error)
	SetTotalSupply(ctx context.Context, amount int64) error
}

// Clock allows deterministic timestamps in tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter appends exactly one event per successful mutation.
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
