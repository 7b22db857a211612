package postgresadapter

import (
	"encoding/json"
	"strings"
	"time"

	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	"stakevote/contexts/staking-governance/voting-engine/ports"
)

type projectModel struct {
	ID          uint64    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	StartTime   time.Time `gorm:"column:start_time"`
	EndTime     time.Time `gorm:"column:end_time"`
	TotalVotes  int64     `gorm:"column:total_votes"`
	IsActive    bool      `gorm:"column:is_active"`
	IsFinalized bool      `gorm:"column:is_finalized"`
	Winner      *string   `gorm:"column:winner"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string {
	return "projects"
}

func projectModelFromEntity(project entities.Project) projectModel {
	row := projectModel{
		ID:          project.ID,
		Name:        strings.TrimSpace(project.Name),
		Description: strings.TrimSpace(project.Description),
		StartTime:   project.StartTime.UTC(),
		EndTime:     project.EndTime.UTC(),
		TotalVotes:  project.TotalVotes,
		IsActive:    project.IsActive,
		IsFinalized: project.IsFinalized,
		CreatedAt:   project.CreatedAt.UTC(),
		UpdatedAt:   project.UpdatedAt.UTC(),
	}
	if project.Winner != nil {
		winner := strings.TrimSpace(*project.Winner)
		row.Winner = &winner
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m projectModel) toEntity() entities.Project {
	project := entities.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		StartTime:   m.StartTime.UTC(),
		EndTime:     m.EndTime.UTC(),
		TotalVotes:  m.TotalVotes,
		IsActive:    m.IsActive,
		IsFinalized: m.IsFinalized,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.Winner != nil {
		winner := strings.TrimSpace(*m.Winner)
		project.Winner = &winner
	}
	return project
}

type stakeModel struct {
	ProjectID     uint64    `gorm:"column:project_id;primaryKey"`
	Participant   string    `gorm:"column:participant;primaryKey"`
	Amount        int64     `gorm:"column:amount"`
	LastStakeTime time.Time `gorm:"column:last_stake_time"`
	HasUnstaked   bool      `gorm:"column:has_unstaked"`
}

func (stakeModel) TableName() string {
	return "stake_records"
}

func stakeModelFromEntity(record entities.StakeRecord) stakeModel {
	return stakeModel{
		ProjectID:     record.ProjectID,
		Participant:   strings.TrimSpace(record.Participant),
		Amount:        record.Amount,
		LastStakeTime: record.LastStakeTime.UTC(),
		HasUnstaked:   record.HasUnstaked,
	}
}

func (m stakeModel) toEntity() entities.StakeRecord {
	return entities.StakeRecord{
		ProjectID:     m.ProjectID,
		Participant:   m.Participant,
		Amount:        m.Amount,
		LastStakeTime: m.LastStakeTime.UTC(),
		HasUnstaked:   m.HasUnstaked,
	}
}

type voterModel struct {
	ProjectID   uint64    `gorm:"column:project_id;primaryKey"`
	Participant string    `gorm:"column:participant;primaryKey"`
	Position    int64     `gorm:"column:position"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (voterModel) TableName() string {
	return "project_voters"
}

type participantTotalModel struct {
	Participant string    `gorm:"column:participant;primaryKey"`
	Total       int64     `gorm:"column:total"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (participantTotalModel) TableName() string {
	return "participant_totals"
}

type counterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value uint64 `gorm:"column:value"`
}

func (counterModel) TableName() string {
	return "engine_counters"
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "engine_outbox"
}

func outboxModelFromEnvelope(event ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return outboxModel{}, err
	}
	return outboxModel{
		ID:           event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}, nil
}
