package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stakevote/contexts/staking-governance/voting-engine/adapters/memory"
	"stakevote/contexts/staking-governance/voting-engine/application/queries"
	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
)

var queryBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newQueries(t *testing.T) (queries.ProjectQueries, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SetNow(queryBase)
	return queries.ProjectQueries{Projects: store, Stakes: store, Clock: store}, store
}

func seedProject(t *testing.T, store *memory.Store, project entities.Project) {
	t.Helper()
	require.NoError(t, store.SaveProject(context.Background(), project))
}

func TestUnstakeableBalanceLifecycle(t *testing.T) {
	q, store := newQueries(t)
	ctx := context.Background()

	project := entities.Project{
		ID:        1,
		Name:      "grant",
		StartTime: queryBase.Add(-48 * time.Hour),
		EndTime:   queryBase.Add(24 * time.Hour),
		IsActive:  true,
	}
	seedProject(t, store, project)
	require.NoError(t, store.SaveStake(ctx, entities.StakeRecord{
		ProjectID:   1,
		Participant: "alice",
		Amount:      7,
	}))

	// Window still open: nothing withdrawable.
	amount, err := q.UnstakeableBalance(ctx, 1, "alice")
	require.NoError(t, err)
	require.Zero(t, amount)

	// Window over but not finalized: still nothing.
	store.SetNow(queryBase.Add(48 * time.Hour))
	amount, err = q.UnstakeableBalance(ctx, 1, "alice")
	require.NoError(t, err)
	require.Zero(t, amount)

	winner := "alice"
	project.IsActive = false
	project.IsFinalized = true
	project.Winner = &winner
	seedProject(t, store, project)

	amount, err = q.UnstakeableBalance(ctx, 1, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(14), amount)

	// Non-winner stake pays 1x.
	require.NoError(t, store.SaveStake(ctx, entities.StakeRecord{
		ProjectID:   1,
		Participant: "bob",
		Amount:      4,
	}))
	amount, err = q.UnstakeableBalance(ctx, 1, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(4), amount)

	// Spent stakes drop to zero.
	require.NoError(t, store.SaveStake(ctx, entities.StakeRecord{
		ProjectID:   1,
		Participant: "alice",
		Amount:      7,
		HasUnstaked: true,
	}))
	amount, err = q.UnstakeableBalance(ctx, 1, "alice")
	require.NoError(t, err)
	require.Zero(t, amount)

	// Participants without a stake read zero, not an error.
	amount, err = q.UnstakeableBalance(ctx, 1, "carol")
	require.NoError(t, err)
	require.Zero(t, amount)
}

func TestUnstakeableBalanceUnknownProject(t *testing.T) {
	q, _ := newQueries(t)
	_, err := q.UnstakeableBalance(context.Background(), 42, "alice")
	require.ErrorIs(t, err, domainerrors.ErrProjectNotFound)
}

func TestStakeRecordLookup(t *testing.T) {
	q, store := newQueries(t)
	ctx := context.Background()
	seedProject(t, store, entities.Project{ID: 1, Name: "grant", IsActive: true})

	_, _, err := q.StakeRecord(ctx, 7, "alice")
	require.ErrorIs(t, err, domainerrors.ErrProjectNotFound)

	_, found, err := q.StakeRecord(ctx, 1, "alice")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.SaveStake(ctx, entities.StakeRecord{ProjectID: 1, Participant: "alice", Amount: 9}))
	record, found, err := q.StakeRecord(ctx, 1, "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(9), record.Amount)
}

func TestTotalProjectsAndParticipantTotal(t *testing.T) {
	q, store := newQueries(t)
	ctx := context.Background()

	total, err := q.TotalProjects(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	seedProject(t, store, entities.Project{ID: 1, Name: "one"})
	seedProject(t, store, entities.Project{ID: 2, Name: "two"})
	total, err = q.TotalProjects(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), total)

	require.NoError(t, store.AddToParticipantTotal(ctx, "alice", 5))
	require.NoError(t, store.AddToParticipantTotal(ctx, "alice", 3))
	staked, err := q.ParticipantTotalStaked(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(8), staked)

	_, err = q.ParticipantTotalStaked(ctx, "  ")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
