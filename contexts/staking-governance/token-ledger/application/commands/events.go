package commands

import (
	"encoding/json"
	"time"

	"stakevote/contexts/staking-governance/token-ledger/ports"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Ledger events partition by the account whose balance moved first.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "token-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "account",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}
