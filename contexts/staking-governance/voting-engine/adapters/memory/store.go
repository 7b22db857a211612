package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	ledgererrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
	"stakevote/contexts/staking-governance/voting-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory implementation of every engine port. It doubles as
// the ledger collaborator for tests: balances and engine allowances are plain
// maps, and the Debit/Credit hooks let tests inject failures or reentrant
// callbacks.
type Store struct {
	mu sync.RWMutex

	nextProjectID uint64
	projects      map[uint64]entities.Project
	stakes        map[string]entities.StakeRecord
	voters        map[uint64][]string
	totals        map[string]int64

	balances   map[string]int64
	allowances map[string]int64

	outbox map[string]outboxRecord

	now time.Time

	// DebitHook/CreditHook run instead of the default ledger behavior when
	// set. Tests use them to simulate collaborator failures and callbacks.
	DebitHook  func(ctx context.Context, from string, amount int64) error
	CreditHook func(ctx context.Context, to string, amount int64) error
}

func NewStore() *Store {
	return &Store{
		projects:   make(map[uint64]entities.Project),
		stakes:     make(map[string]entities.StakeRecord),
		voters:     make(map[uint64][]string),
		totals:     make(map[string]int64),
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
		outbox:     make(map[string]outboxRecord),
	}
}

func stakeKey(projectID uint64, participant string) string {
	return strconv.FormatUint(projectID, 10) + "/" + strings.TrimSpace(participant)
}

// --- test helpers ---

// SetNow pins the store clock. Zero means "use wall time".
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

// AdvanceNow shifts the pinned clock forward.
func (s *Store) AdvanceNow(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now.IsZero() {
		s.now = time.Now().UTC()
	}
	s.now = s.now.Add(d)
}

// SetBalance seeds a participant balance.
func (s *Store) SetBalance(address string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[strings.TrimSpace(address)] = amount
}

// SetAllowance seeds the allowance a participant grants the engine.
func (s *Store) SetAllowance(address string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowances[strings.TrimSpace(address)] = amount
}

// Balance reads a participant balance back for assertions.
func (s *Store) Balance(address string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[strings.TrimSpace(address)]
}

// PublishedEventTypes lists outbox event types in append order.
func (s *Store) PublishedEventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, record := range s.outbox {
		records = append(records, record.message)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	types := make([]string, 0, len(records))
	for _, record := range records {
		types = append(types, record.EventType)
	}
	return types
}

// --- ports.Clock / ports.IDGenerator ---

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

// --- ports.ProjectRepository ---

func (s *Store) NextProjectID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProjectID++
	return s.nextProjectID, nil
}

func (s *Store) SaveProject(_ context.Context, project entities.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	return nil
}

func (s *Store) GetProject(_ context.Context, projectID uint64) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[projectID]
	if !ok {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *Store) CountProjects(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.projects)), nil
}

// --- ports.StakeRepository ---

func (s *Store) GetStake(_ context.Context, projectID uint64, participant string) (entities.StakeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.stakes[stakeKey(projectID, participant)]
	if !ok {
		return entities.StakeRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) SaveStake(_ context.Context, record entities.StakeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakes[stakeKey(record.ProjectID, record.Participant)] = record
	return nil
}

func (s *Store) AppendVoter(_ context.Context, projectID uint64, participant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	participant = strings.TrimSpace(participant)
	for _, existing := range s.voters[projectID] {
		if existing == participant {
			return nil
		}
	}
	s.voters[projectID] = append(s.voters[projectID], participant)
	return nil
}

func (s *Store) ListVoters(_ context.Context, projectID uint64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.voters[projectID]...), nil
}

func (s *Store) AddToParticipantTotal(_ context.Context, participant string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[strings.TrimSpace(participant)] += delta
	return nil
}

func (s *Store) GetParticipantTotal(_ context.Context, participant string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[strings.TrimSpace(participant)], nil
}

// --- ports.TokenLedger ---

func (s *Store) Debit(ctx context.Context, from string, amount int64) error {
	if s.DebitHook != nil {
		return s.DebitHook(ctx, from, amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	from = strings.TrimSpace(from)
	if s.allowances[from] < amount {
		return ledgererrors.ErrInsufficientAllowance
	}
	if s.balances[from] < amount {
		return ledgererrors.ErrInsufficientBalance
	}
	s.allowances[from] -= amount
	s.balances[from] -= amount
	return nil
}

func (s *Store) Credit(ctx context.Context, to string, amount int64) error {
	if s.CreditHook != nil {
		return s.CreditHook(ctx, to, amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[strings.TrimSpace(to)] += amount
	return nil
}

// --- ports.OutboxWriter / ports.OutboxRepository ---

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
