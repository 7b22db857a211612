package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"stakevote/contexts/staking-governance/token-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory implementation of every ledger port.
type Store struct {
	mu sync.RWMutex

	balances   map[string]int64
	allowances map[string]int64
	supply     int64

	outbox map[string]outboxRecord

	now time.Time
}

func NewStore() *Store {
	return &Store{
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
		outbox:     make(map[string]outboxRecord),
	}
}

func allowanceKey(owner string, spender string) string {
	return strings.TrimSpace(owner) + "->" + strings.TrimSpace(spender)
}

// SetNow pins the store clock. Zero means "use wall time".
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) GetBalance(_ context.Context, address string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[strings.TrimSpace(address)], nil
}

func (s *Store) SetBalance(_ context.Context, address string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[strings.TrimSpace(address)] = amount
	return nil
}

func (s *Store) GetAllowance(_ context.Context, owner string, spender string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowances[allowanceKey(owner, spender)], nil
}

func (s *Store) SetAllowance(_ context.Context, owner string, spender string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowances[allowanceKey(owner, spender)] = amount
	return nil
}

func (s *Store) GetTotalSupply(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply, nil
}

func (s *Store) SetTotalSupply(_ context.Context, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply = amount
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox[event.EventID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			CreatedAt:    event.OccurredAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		pending = append(pending, record.message)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}
