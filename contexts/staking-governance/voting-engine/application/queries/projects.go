package queries

import (
	"context"
	"strings"
	"time"

	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
	"stakevote/contexts/staking-governance/voting-engine/ports"
)

// ProjectQueries is the side-effect-free read surface of the engine.
type ProjectQueries struct {
	Projects ports.ProjectRepository
	Stakes   ports.StakeRepository
	Clock    ports.Clock
}

func (uc ProjectQueries) GetProject(ctx context.Context, projectID uint64) (entities.Project, error) {
	return uc.Projects.GetProject(ctx, projectID)
}

func (uc ProjectQueries) TotalProjects(ctx context.Context) (uint64, error) {
	return uc.Projects.CountProjects(ctx)
}

// UnstakeableBalance returns exactly what UnstakeTokens would pay right now:
// zero before the window ends, before finalization, or after withdrawal;
// otherwise 2x the stake for the winner and 1x for everyone else.
func (uc ProjectQueries) UnstakeableBalance(ctx context.Context, projectID uint64, participant string) (int64, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	project, err := uc.Projects.GetProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	stake, found, err := uc.Stakes.GetStake(ctx, projectID, participant)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return stake.UnstakeableAmount(project, uc.now()), nil
}

func (uc ProjectQueries) StakeRecord(ctx context.Context, projectID uint64, participant string) (entities.StakeRecord, bool, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return entities.StakeRecord{}, false, domainerrors.ErrInvalidInput
	}
	if _, err := uc.Projects.GetProject(ctx, projectID); err != nil {
		return entities.StakeRecord{}, false, err
	}
	return uc.Stakes.GetStake(ctx, projectID, participant)
}

func (uc ProjectQueries) ParticipantTotalStaked(ctx context.Context, participant string) (int64, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	return uc.Stakes.GetParticipantTotal(ctx, participant)
}

func (uc ProjectQueries) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
