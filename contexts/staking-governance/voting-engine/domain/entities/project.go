package entities

import "time"

// Project is a voting campaign with a fixed window and, after finalization,
// a single winner. IDs are sequential and never reused.
type Project struct {
	ID          uint64
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	TotalVotes  int64
	IsActive    bool
	IsFinalized bool
	Winner      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WindowOpen reports whether now falls inside the voting window. Both window
// edges are inclusive.
func (p Project) WindowOpen(now time.Time) bool {
	return !now.Before(p.StartTime) && !now.After(p.EndTime)
}

// Ended reports whether now is strictly past the voting window.
func (p Project) Ended(now time.Time) bool {
	return now.After(p.EndTime)
}

// IsWinner reports whether the participant is the recorded winner.
func (p Project) IsWinner(participant string) bool {
	return p.Winner != nil && *p.Winner == participant
}

// StakeRecord tracks one participant's cumulative stake on one project.
// Amount only grows while voting is open; HasUnstaked flips to true exactly
// once, on withdrawal.
type StakeRecord struct {
	ProjectID     uint64
	Participant   string
	Amount        int64
	LastStakeTime time.Time
	HasUnstaked   bool
}

// UnstakeableAmount is the payout a withdrawal would produce right now:
// 2x the stake for the winner, 1x for everyone else, zero when the window is
// still open, the project is not finalized, or the stake was already drawn.
// UnstakeTokens must pay exactly this value.
func (s StakeRecord) UnstakeableAmount(p Project, now time.Time) int64 {
	if !p.IsFinalized || !p.Ended(now) || s.HasUnstaked || s.Amount <= 0 {
		return 0
	}
	if p.IsWinner(s.Participant) {
		return 2 * s.Amount
	}
	return s.Amount
}
