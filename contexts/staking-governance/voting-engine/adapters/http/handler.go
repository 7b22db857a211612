package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"stakevote/contexts/staking-governance/voting-engine/application/commands"
	"stakevote/contexts/staking-governance/voting-engine/application/queries"
	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	httptransport "stakevote/contexts/staking-governance/voting-engine/transport/http"
)

// Handler maps transport DTOs onto engine commands and queries.
type Handler struct {
	Engine  *commands.EngineUseCase
	Queries queries.ProjectQueries
	Logger  *slog.Logger
}

func (h Handler) CreateProjectHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateProjectRequest,
) (httptransport.ProjectResponse, error) {
	project, err := h.Engine.CreateProject(ctx, commands.CreateProjectCommand{
		Caller:      caller,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		Duration:    time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) GetProjectHandler(ctx context.Context, projectID uint64) (httptransport.ProjectResponse, error) {
	project, err := h.Queries.GetProject(ctx, projectID)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) TotalProjectsHandler(ctx context.Context) (httptransport.TotalProjectsResponse, error) {
	total, err := h.Queries.TotalProjects(ctx)
	if err != nil {
		return httptransport.TotalProjectsResponse{}, err
	}
	return httptransport.TotalProjectsResponse{Total: total}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	caller string,
	projectID uint64,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	stake, err := h.Engine.CastVote(ctx, commands.CastVoteCommand{
		Caller:    caller,
		ProjectID: projectID,
		Amount:    req.Amount,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ProjectID:     stake.ProjectID,
		Participant:   stake.Participant,
		Amount:        stake.Amount,
		LastStakeTime: stake.LastStakeTime,
	}, nil
}

func (h Handler) FinalizeProjectHandler(ctx context.Context, caller string, projectID uint64) (httptransport.ProjectResponse, error) {
	project, err := h.Engine.FinalizeProject(ctx, commands.FinalizeProjectCommand{
		Caller:    caller,
		ProjectID: projectID,
	})
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) UnstakeHandler(ctx context.Context, caller string, projectID uint64) (httptransport.UnstakeResponse, error) {
	result, err := h.Engine.UnstakeTokens(ctx, commands.UnstakeCommand{
		Caller:    caller,
		ProjectID: projectID,
	})
	if err != nil {
		return httptransport.UnstakeResponse{}, err
	}
	return httptransport.UnstakeResponse{
		ProjectID:   projectID,
		Participant: caller,
		Payout:      result.Payout,
		IsWinner:    result.IsWinner,
	}, nil
}

func (h Handler) UnstakeableBalanceHandler(
	ctx context.Context,
	projectID uint64,
	participant string,
) (httptransport.UnstakeableBalanceResponse, error) {
	amount, err := h.Queries.UnstakeableBalance(ctx, projectID, participant)
	if err != nil {
		return httptransport.UnstakeableBalanceResponse{}, err
	}
	return httptransport.UnstakeableBalanceResponse{
		ProjectID:   projectID,
		Participant: participant,
		Amount:      amount,
	}, nil
}

func (h Handler) StakeRecordHandler(
	ctx context.Context,
	projectID uint64,
	participant string,
) (httptransport.StakeRecordResponse, error) {
	record, found, err := h.Queries.StakeRecord(ctx, projectID, participant)
	if err != nil {
		return httptransport.StakeRecordResponse{}, err
	}
	if !found {
		return httptransport.StakeRecordResponse{
			ProjectID:   projectID,
			Participant: participant,
		}, nil
	}
	return httptransport.StakeRecordResponse{
		ProjectID:     record.ProjectID,
		Participant:   record.Participant,
		Amount:        record.Amount,
		LastStakeTime: record.LastStakeTime,
		HasUnstaked:   record.HasUnstaked,
	}, nil
}

func (h Handler) ParticipantTotalHandler(ctx context.Context, participant string) (httptransport.ParticipantTotalResponse, error) {
	total, err := h.Queries.ParticipantTotalStaked(ctx, participant)
	if err != nil {
		return httptransport.ParticipantTotalResponse{}, err
	}
	return httptransport.ParticipantTotalResponse{
		Participant: participant,
		TotalStaked: total,
	}, nil
}

func projectResponse(project entities.Project) httptransport.ProjectResponse {
	resp := httptransport.ProjectResponse{
		ProjectID:   project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartTime:   project.StartTime,
		EndTime:     project.EndTime,
		TotalVotes:  project.TotalVotes,
		IsActive:    project.IsActive,
		IsFinalized: project.IsFinalized,
	}
	if project.Winner != nil {
		resp.Winner = *project.Winner
	}
	return resp
}
