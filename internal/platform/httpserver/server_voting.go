package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	ledgererrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
	votingerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
	votinghttp "stakevote/contexts/staking-governance/voting-engine/transport/http"
)

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrInvalidInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votingerrors.ErrProjectNotFound):
		writeVotingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidSchedule):
		writeVotingError(w, http.StatusBadRequest, "invalid_schedule", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidVotingPeriod):
		writeVotingError(w, http.StatusBadRequest, "invalid_voting_period", err.Error())
	case errors.Is(err, votingerrors.ErrNoVotesCast):
		writeVotingError(w, http.StatusBadRequest, "no_votes_cast", err.Error())
	case errors.Is(err, votingerrors.ErrProjectNotActive):
		writeVotingError(w, http.StatusConflict, "project_not_active", err.Error())
	case errors.Is(err, votingerrors.ErrProjectAlreadyFinalized):
		writeVotingError(w, http.StatusConflict, "project_already_finalized", err.Error())
	case errors.Is(err, votingerrors.ErrProjectNotFinalized):
		writeVotingError(w, http.StatusConflict, "project_not_finalized", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyUnstaked):
		writeVotingError(w, http.StatusConflict, "already_unstaked", err.Error())
	case errors.Is(err, votingerrors.ErrReentrantCall):
		writeVotingError(w, http.StatusConflict, "reentrant_call", err.Error())
	case errors.Is(err, votingerrors.ErrUnauthorized):
		writeVotingError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientAllowance),
		errors.Is(err, ledgererrors.ErrInsufficientBalance):
		writeVotingError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireCallerIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeVotingError(w, http.StatusUnauthorized, "missing_identity", "X-User-Id header is required")
		return "", false
	}
	return caller, true
}

func parseProjectID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := strings.TrimSpace(r.PathValue("project_id"))
	projectID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || projectID == 0 {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "project_id must be a positive integer")
		return 0, false
	}
	return projectID, true
}

// handleCreateProject godoc
//
//	@Summary	Create a voting project (admin only)
//	@Tags		projects
//	@Router		/projects [post]
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCallerIdentity(w, r)
	if !ok {
		return
	}
	var req votinghttp.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CreateProjectHandler(r.Context(), caller, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.GetProjectHandler(r.Context(), projectID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTotalProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.TotalProjectsHandler(r.Context())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCastVote godoc
//
//	@Summary	Stake tokens on a project inside its voting window
//	@Tags		projects
//	@Router		/projects/{project_id}/votes [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCallerIdentity(w, r)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), caller, projectID, req)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalizeProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCallerIdentity(w, r)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.FinalizeProjectHandler(r.Context(), caller, projectID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCallerIdentity(w, r)
	if !ok {
		return
	}
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	resp, err := s.voting.Handler.UnstakeHandler(r.Context(), caller, projectID)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnstakeableBalance(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	participant := strings.TrimSpace(r.URL.Query().Get("participant"))
	if participant == "" {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "participant query parameter is required")
		return
	}
	resp, err := s.voting.Handler.UnstakeableBalanceHandler(r.Context(), projectID, participant)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStakeRecord(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}
	participant := strings.TrimSpace(r.PathValue("participant"))
	if participant == "" {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "participant is required")
		return
	}
	resp, err := s.voting.Handler.StakeRecordHandler(r.Context(), projectID, participant)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParticipantTotal(w http.ResponseWriter, r *http.Request) {
	participant := strings.TrimSpace(r.PathValue("participant"))
	if participant == "" {
		writeVotingError(w, http.StatusBadRequest, "invalid_request", "participant is required")
		return
	}
	resp, err := s.voting.Handler.ParticipantTotalHandler(r.Context(), participant)
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
