package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "stakevote/contexts/staking-governance/voting-engine/application"
	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
	"stakevote/contexts/staking-governance/voting-engine/ports"
)

// CreateProjectCommand opens a new voting campaign. Admin-only.
type CreateProjectCommand struct {
	Caller      string
	Name        string
	Description string
	StartTime   time.Time
	Duration    time.Duration
}

// CastVoteCommand stakes tokens on a project inside its voting window.
type CastVoteCommand struct {
	Caller    string
	ProjectID uint64
	Amount    int64
}

// FinalizeProjectCommand closes voting and records the winner. Admin-only.
type FinalizeProjectCommand struct {
	Caller    string
	ProjectID uint64
}

// UnstakeCommand withdraws the caller's stake, doubled for the winner.
type UnstakeCommand struct {
	Caller    string
	ProjectID uint64
}

// UnstakeResult reports what a successful withdrawal paid out.
type UnstakeResult struct {
	Payout   int64
	IsWinner bool
}

// EngineUseCase orchestrates the staking/voting/finalization/unstaking state
// machine. Mutations on a project are serialized through per-project locks;
// operations that call into the ledger carry a non-reentrant guard on their
// execution context. Bookkeeping that follows a successful debit is rolled
// back with a compensating credit if persistence fails, so no partial state
// survives a failed call.
type EngineUseCase struct {
	Projects      ports.ProjectRepository
	Stakes        ports.StakeRepository
	Ledger        ports.TokenLedger
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	AdminIdentity string
	Logger        *slog.Logger

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// CreateProject assigns the next sequential project id and opens the window
// [startTime, startTime+duration]. The start must be strictly in the future
// and the duration positive.
func (uc *EngineUseCase) CreateProject(ctx context.Context, cmd CreateProjectCommand) (entities.Project, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	name := strings.TrimSpace(cmd.Name)
	if caller == "" || name == "" {
		return entities.Project{}, domainerrors.ErrInvalidInput
	}
	if !uc.isAdmin(caller) {
		logger.Warn("project create rejected for non-admin caller",
			"event", "staking_project_create_unauthorized",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"caller", caller,
		)
		return entities.Project{}, domainerrors.ErrUnauthorized
	}

	now := uc.now()
	if !cmd.StartTime.After(now) || cmd.Duration <= 0 {
		return entities.Project{}, domainerrors.ErrInvalidSchedule
	}

	projectID, err := uc.Projects.NextProjectID(ctx)
	if err != nil {
		return entities.Project{}, err
	}
	project := entities.Project{
		ID:          projectID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		StartTime:   cmd.StartTime.UTC(),
		EndTime:     cmd.StartTime.Add(cmd.Duration).UTC(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Projects.SaveProject(ctx, project); err != nil {
		return entities.Project{}, err
	}
	if err := uc.appendEngineEvent(ctx, "project.created", project.ID, now, map[string]any{
		"project_id": project.ID,
		"name":       project.Name,
		"start_time": project.StartTime.Format(time.RFC3339),
		"end_time":   project.EndTime.Format(time.RFC3339),
	}); err != nil {
		return entities.Project{}, err
	}

	logger.Info("project created",
		"event", "staking_project_created",
		"module", "staking-governance/voting-engine",
		"layer", "application",
		"project_id", project.ID,
		"name", project.Name,
		"start_time", project.StartTime,
		"end_time", project.EndTime,
	)
	return project, nil
}

// CastVote debits the stake from the caller through the ledger collaborator
// and accumulates it on the caller's stake record. The debit plus all
// bookkeeping is atomic: a failed debit changes nothing, and a persistence
// failure after the debit triggers a compensating credit.
func (uc *EngineUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.StakeRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	if caller == "" {
		return entities.StakeRecord{}, domainerrors.ErrInvalidInput
	}
	if cmd.Amount <= 0 {
		return entities.StakeRecord{}, domainerrors.ErrNoVotesCast
	}

	ctx, err := beginGuardedCall(ctx)
	if err != nil {
		logger.Warn("vote rejected by reentrancy guard",
			"event", "staking_vote_reentrant",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"participant", caller,
		)
		return entities.StakeRecord{}, err
	}

	lock := uc.projectLock(cmd.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := uc.Projects.GetProject(ctx, cmd.ProjectID)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	now := uc.now()
	switch {
	case project.IsFinalized:
		return entities.StakeRecord{}, domainerrors.ErrProjectAlreadyFinalized
	case !project.IsActive:
		return entities.StakeRecord{}, domainerrors.ErrProjectNotActive
	case !project.WindowOpen(now):
		return entities.StakeRecord{}, domainerrors.ErrInvalidVotingPeriod
	}

	stake, found, err := uc.Stakes.GetStake(ctx, cmd.ProjectID, caller)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	prevStake := stake
	if !found {
		prevStake = entities.StakeRecord{ProjectID: cmd.ProjectID, Participant: caller}
	}
	prevProject := project

	if err := uc.Ledger.Debit(ctx, caller, cmd.Amount); err != nil {
		logger.Warn("vote stake debit failed",
			"event", "staking_vote_debit_failed",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"participant", caller,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.StakeRecord{}, err
	}

	firstStake := !found || stake.Amount == 0
	stake.ProjectID = cmd.ProjectID
	stake.Participant = caller
	stake.Amount += cmd.Amount
	stake.LastStakeTime = now
	// Stale flag clear; a finalized project cannot be voted on, so this is
	// only reachable while the flag is still false.
	stake.HasUnstaked = false
	project.TotalVotes += cmd.Amount
	project.UpdatedAt = now

	if err := uc.persistVote(ctx, project, stake, firstStake, cmd.Amount, now); err != nil {
		uc.compensateVote(ctx, logger, prevProject, prevStake, cmd.Amount)
		return entities.StakeRecord{}, err
	}

	logger.Info("vote cast",
		"event", "staking_vote_cast",
		"module", "staking-governance/voting-engine",
		"layer", "application",
		"project_id", cmd.ProjectID,
		"participant", caller,
		"amount", cmd.Amount,
		"total_votes", project.TotalVotes,
		"first_stake", firstStake,
	)
	return stake, nil
}

// FinalizeProject closes the campaign strictly after its end time. The winner
// is the first voter in insertion order holding the strictly largest stake:
// a single pass that only replaces the current winner on a strictly greater
// amount, so ties resolve to the earliest staker.
func (uc *EngineUseCase) FinalizeProject(ctx context.Context, cmd FinalizeProjectCommand) (entities.Project, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	if caller == "" {
		return entities.Project{}, domainerrors.ErrInvalidInput
	}
	if !uc.isAdmin(caller) {
		logger.Warn("project finalize rejected for non-admin caller",
			"event", "staking_project_finalize_unauthorized",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"caller", caller,
		)
		return entities.Project{}, domainerrors.ErrUnauthorized
	}

	lock := uc.projectLock(cmd.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := uc.Projects.GetProject(ctx, cmd.ProjectID)
	if err != nil {
		return entities.Project{}, err
	}
	if project.IsFinalized {
		return entities.Project{}, domainerrors.ErrProjectAlreadyFinalized
	}
	now := uc.now()
	if !project.Ended(now) {
		return entities.Project{}, domainerrors.ErrInvalidVotingPeriod
	}
	if project.TotalVotes <= 0 {
		return entities.Project{}, domainerrors.ErrNoVotesCast
	}

	voters, err := uc.Stakes.ListVoters(ctx, cmd.ProjectID)
	if err != nil {
		return entities.Project{}, err
	}
	var winner string
	var winning int64
	for _, voter := range voters {
		stake, found, err := uc.Stakes.GetStake(ctx, cmd.ProjectID, voter)
		if err != nil {
			return entities.Project{}, err
		}
		if !found {
			continue
		}
		if stake.Amount > winning {
			winning = stake.Amount
			winner = voter
		}
	}

	project.IsActive = false
	project.IsFinalized = true
	if winner != "" {
		project.Winner = &winner
	}
	project.UpdatedAt = now
	if err := uc.Projects.SaveProject(ctx, project); err != nil {
		return entities.Project{}, err
	}
	if err := uc.appendEngineEvent(ctx, "project.finalized", project.ID, now, map[string]any{
		"project_id":  project.ID,
		"winner":      winner,
		"total_votes": project.TotalVotes,
	}); err != nil {
		return entities.Project{}, err
	}

	logger.Info("project finalized",
		"event", "staking_project_finalized",
		"module", "staking-governance/voting-engine",
		"layer", "application",
		"project_id", project.ID,
		"winner", winner,
		"total_votes", project.TotalVotes,
		"voters", len(voters),
	)
	return project, nil
}

// UnstakeTokens pays a participant's stake back once the project is
// finalized, doubled when the caller is the recorded winner. The unstaked
// flag and the participant rollup are committed before the external payout
// call; a failed payout rolls both back.
func (uc *EngineUseCase) UnstakeTokens(ctx context.Context, cmd UnstakeCommand) (UnstakeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	if caller == "" {
		return UnstakeResult{}, domainerrors.ErrInvalidInput
	}

	ctx, err := beginGuardedCall(ctx)
	if err != nil {
		logger.Warn("unstake rejected by reentrancy guard",
			"event", "staking_unstake_reentrant",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"participant", caller,
		)
		return UnstakeResult{}, err
	}

	lock := uc.projectLock(cmd.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := uc.Projects.GetProject(ctx, cmd.ProjectID)
	if err != nil {
		return UnstakeResult{}, err
	}
	now := uc.now()
	if !project.Ended(now) {
		return UnstakeResult{}, domainerrors.ErrInvalidVotingPeriod
	}
	if !project.IsFinalized {
		return UnstakeResult{}, domainerrors.ErrProjectNotFinalized
	}

	stake, found, err := uc.Stakes.GetStake(ctx, cmd.ProjectID, caller)
	if err != nil {
		return UnstakeResult{}, err
	}
	if !found || stake.Amount <= 0 {
		return UnstakeResult{}, domainerrors.ErrNoVotesCast
	}
	if stake.HasUnstaked {
		return UnstakeResult{}, domainerrors.ErrAlreadyUnstaked
	}

	isWinner := project.IsWinner(caller)
	payout := stake.Amount
	if isWinner {
		payout = 2 * stake.Amount
	}

	// Checks-effects-interactions: mark the stake withdrawn and shrink the
	// rollup before the external payout call.
	stake.HasUnstaked = true
	if err := uc.Stakes.SaveStake(ctx, stake); err != nil {
		return UnstakeResult{}, err
	}
	if err := uc.Stakes.AddToParticipantTotal(ctx, caller, -stake.Amount); err != nil {
		stake.HasUnstaked = false
		uc.restoreStake(ctx, logger, stake)
		return UnstakeResult{}, err
	}

	if err := uc.Ledger.Credit(ctx, caller, payout); err != nil {
		logger.Warn("unstake payout failed, rolling effects back",
			"event", "staking_unstake_payout_failed",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", cmd.ProjectID,
			"participant", caller,
			"payout", payout,
			"error", err.Error(),
		)
		if rollbackErr := uc.Stakes.AddToParticipantTotal(ctx, caller, stake.Amount); rollbackErr != nil {
			logger.Error("unstake rollup rollback failed",
				"event", "staking_unstake_rollback_failed",
				"module", "staking-governance/voting-engine",
				"layer", "application",
				"project_id", cmd.ProjectID,
				"participant", caller,
				"error", rollbackErr.Error(),
			)
		}
		stake.HasUnstaked = false
		uc.restoreStake(ctx, logger, stake)
		return UnstakeResult{}, err
	}

	if err := uc.appendEngineEvent(ctx, "tokens.unstaked", cmd.ProjectID, now, map[string]any{
		"project_id":  cmd.ProjectID,
		"participant": caller,
		"payout":      payout,
		"is_winner":   isWinner,
	}); err != nil {
		return UnstakeResult{}, err
	}

	logger.Info("tokens unstaked",
		"event", "staking_tokens_unstaked",
		"module", "staking-governance/voting-engine",
		"layer", "application",
		"project_id", cmd.ProjectID,
		"participant", caller,
		"payout", payout,
		"is_winner", isWinner,
	)
	return UnstakeResult{Payout: payout, IsWinner: isWinner}, nil
}

func (uc *EngineUseCase) persistVote(
	ctx context.Context,
	project entities.Project,
	stake entities.StakeRecord,
	firstStake bool,
	amount int64,
	now time.Time,
) error {
	if firstStake {
		if err := uc.Stakes.AppendVoter(ctx, project.ID, stake.Participant); err != nil {
			return err
		}
	}
	if err := uc.Stakes.SaveStake(ctx, stake); err != nil {
		return err
	}
	if err := uc.Projects.SaveProject(ctx, project); err != nil {
		return err
	}
	if err := uc.Stakes.AddToParticipantTotal(ctx, stake.Participant, amount); err != nil {
		return err
	}
	return uc.appendEngineEvent(ctx, "vote.cast", project.ID, now, map[string]any{
		"project_id":  project.ID,
		"participant": stake.Participant,
		"amount":      amount,
		"total_votes": project.TotalVotes,
		"first_stake": firstStake,
	})
}

// compensateVote undoes a partially persisted vote after the stake was
// already debited: the prior project/stake rows are restored and the debited
// amount is credited back.
func (uc *EngineUseCase) compensateVote(
	ctx context.Context,
	logger *slog.Logger,
	prevProject entities.Project,
	prevStake entities.StakeRecord,
	amount int64,
) {
	uc.restoreStake(ctx, logger, prevStake)
	if err := uc.Projects.SaveProject(ctx, prevProject); err != nil {
		logger.Error("vote project rollback failed",
			"event", "staking_vote_rollback_failed",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", prevProject.ID,
			"error", err.Error(),
		)
	}
	if err := uc.Ledger.Credit(ctx, prevStake.Participant, amount); err != nil {
		logger.Error("vote debit compensation failed",
			"event", "staking_vote_compensation_failed",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", prevProject.ID,
			"participant", prevStake.Participant,
			"amount", amount,
			"error", err.Error(),
		)
	}
}

func (uc *EngineUseCase) restoreStake(ctx context.Context, logger *slog.Logger, stake entities.StakeRecord) {
	if err := uc.Stakes.SaveStake(ctx, stake); err != nil {
		logger.Error("stake rollback failed",
			"event", "staking_stake_rollback_failed",
			"module", "staking-governance/voting-engine",
			"layer", "application",
			"project_id", stake.ProjectID,
			"participant", stake.Participant,
			"error", err.Error(),
		)
	}
}

func (uc *EngineUseCase) appendEngineEvent(
	ctx context.Context,
	eventType string,
	projectID uint64,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newEngineEnvelope(eventID, eventType, projectID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc *EngineUseCase) isAdmin(caller string) bool {
	admin := strings.TrimSpace(uc.AdminIdentity)
	return admin != "" && strings.EqualFold(caller, admin)
}

func (uc *EngineUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

// projectLock serializes mutating operations per project. Votes from
// different participants on the same project contend here instead of losing
// read-modify-write updates.
func (uc *EngineUseCase) projectLock(projectID uint64) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.locks == nil {
		uc.locks = make(map[uint64]*sync.Mutex)
	}
	lock, ok := uc.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		uc.locks[projectID] = lock
	}
	return lock
}
