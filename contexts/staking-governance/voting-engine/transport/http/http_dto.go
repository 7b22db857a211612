package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProjectRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type ProjectResponse struct {
	ProjectID   uint64    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TotalVotes  int64     `json:"total_votes"`
	IsActive    bool      `json:"is_active"`
	IsFinalized bool      `json:"is_finalized"`
	Winner      string    `json:"winner,omitempty"`
}

type TotalProjectsResponse struct {
	Total uint64 `json:"total"`
}

type CastVoteRequest struct {
	Amount int64 `json:"amount"`
}

type VoteResponse struct {
	ProjectID     uint64    `json:"project_id"`
	Participant   string    `json:"participant"`
	Amount        int64     `json:"amount"`
	LastStakeTime time.Time `json:"last_stake_time"`
}

type UnstakeResponse struct {
	ProjectID   uint64 `json:"project_id"`
	Participant string `json:"participant"`
	Payout      int64  `json:"payout"`
	IsWinner    bool   `json:"is_winner"`
}

type UnstakeableBalanceResponse struct {
	ProjectID   uint64 `json:"project_id"`
	Participant string `json:"participant"`
	Amount      int64  `json:"amount"`
}

type StakeRecordResponse struct {
	ProjectID     uint64    `json:"project_id"`
	Participant   string    `json:"participant"`
	Amount        int64     `json:"amount"`
	LastStakeTime time.Time `json:"last_stake_time,omitempty"`
	HasUnstaked   bool      `json:"has_unstaked"`
}

type ParticipantTotalResponse struct {
	Participant string `json:"participant"`
	TotalStaked int64  `json:"total_staked"`
}
