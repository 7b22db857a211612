package ports

import (
	"context"
	"time"

	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	contractsv1 "stakevote/contracts/gen/events/v1"
)

// ProjectRepository persists projects and hands out sequential project ids.
type ProjectRepository interface {
	NextProjectID(ctx context.Context) (uint64, error)
	SaveProject(ctx context.Context, project entities.Project) error
	GetProject(ctx context.Context, projectID uint64) (entities.Project, error)
	CountProjects(ctx context.Context) (uint64, error)
}

// StakeRepository persists per-project stake records, the ordered voter list
// used by the finalization winner scan, and the per-participant staked rollup.
type StakeRepository interface {
	GetStake(ctx context.Context, projectID uint64, participant string) (entities.StakeRecord, bool, error)
	SaveStake(ctx context.Context, record entities.StakeRecord) error
	// AppendVoter records first-time voters in insertion order. Appending an
	// already-listed participant is a no-op.
	AppendVoter(ctx context.Context, projectID uint64, participant string) error
	ListVoters(ctx context.Context, projectID uint64) ([]string, error)
	AddToParticipantTotal(ctx context.Context, participant string, delta int64) error
	GetParticipantTotal(ctx context.Context, participant string) (int64, error)
}

// TokenLedger is the fungible-ledger collaborator. Debit moves stake from a
// participant into engine custody after an allowance check and must be atomic;
// the engine treats any debit failure as a hard abort. Credit pays out of
// engine custody.
type TokenLedger interface {
	Debit(ctx context.Context, from string, amount int64) error
	Credit(ctx context.Context, to string, amount int64) error
}

// Clock allows deterministic testing of window gating.
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
