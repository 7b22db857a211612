package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stakevote/contexts/staking-governance/voting-engine/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/voting-engine/domain/errors"
	"stakevote/contexts/staking-governance/voting-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	projectIDCounter = "project_id"
)

// Repository implements ProjectRepository, StakeRepository, OutboxWriter and
// OutboxRepository on postgres.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// NextProjectID increments the sequential project counter under a row lock so
// ids are never reused or skipped under concurrent creates.
func (r *Repository) NextProjectID(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row counterModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", projectIDCounter).
			First(&row).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = counterModel{Name: projectIDCounter}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		row.Value++
		next = row.Value
		return tx.Save(&row).Error
	})
	if err != nil {
		return 0, r.logError("staking_repo_next_project_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveProject(ctx context.Context, project entities.Project) error {
	row := projectModelFromEntity(project)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":         row.Name,
			"description":  row.Description,
			"start_time":   row.StartTime,
			"end_time":     row.EndTime,
			"total_votes":  row.TotalVotes,
			"is_active":    row.IsActive,
			"is_finalized": row.IsFinalized,
			"winner":       row.Winner,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("staking_repo_save_project_failed", create.Error,
			"project_id", project.ID,
		)
	}
	return nil
}

func (r *Repository) GetProject(ctx context.Context, projectID uint64) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("id = ?", projectID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, r.logError("staking_repo_get_project_failed", err, "project_id", projectID)
	}
	return row.toEntity(), nil
}

func (r *Repository) CountProjects(ctx context.Context) (uint64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&projectModel{}).Count(&count).Error; err != nil {
		return 0, r.logError("staking_repo_count_projects_failed", err)
	}
	return uint64(count), nil
}

func (r *Repository) GetStake(ctx context.Context, projectID uint64, participant string) (entities.StakeRecord, bool, error) {
	var row stakeModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("participant = ?", strings.TrimSpace(participant)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StakeRecord{}, false, nil
		}
		return entities.StakeRecord{}, false, r.logError("staking_repo_get_stake_failed", err,
			"project_id", projectID,
			"participant", strings.TrimSpace(participant),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveStake(ctx context.Context, record entities.StakeRecord) error {
	row := stakeModelFromEntity(record)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "participant"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":          row.Amount,
			"last_stake_time": row.LastStakeTime,
			"has_unstaked":    row.HasUnstaked,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("staking_repo_save_stake_failed", create.Error,
			"project_id", record.ProjectID,
			"participant", record.Participant,
		)
	}
	return nil
}

// AppendVoter appends to the ordered voter list; duplicate participants hit
// the unique index and are dropped, preserving first-stake positions.
func (r *Repository) AppendVoter(ctx context.Context, projectID uint64, participant string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&voterModel{}).
			Where("project_id = ?", projectID).
			Count(&count).Error; err != nil {
			return r.logError("staking_repo_append_voter_count_failed", err, "project_id", projectID)
		}
		row := voterModel{
			ProjectID:   projectID,
			Position:    count + 1,
			Participant: strings.TrimSpace(participant),
			CreatedAt:   time.Now().UTC(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "participant"}},
			DoNothing: true,
		}).Create(&row).Error
		if err != nil && !isUniqueViolation(err) {
			return r.logError("staking_repo_append_voter_failed", err,
				"project_id", projectID,
				"participant", strings.TrimSpace(participant),
			)
		}
		return nil
	})
}

func (r *Repository) ListVoters(ctx context.Context, projectID uint64) ([]string, error) {
	var rows []voterModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("staking_repo_list_voters_failed", err, "project_id", projectID)
	}
	voters := make([]string, 0, len(rows))
	for _, row := range rows {
		voters = append(voters, row.Participant)
	}
	return voters, nil
}

func (r *Repository) AddToParticipantTotal(ctx context.Context, participant string, delta int64) error {
	row := participantTotalModel{
		Participant: strings.TrimSpace(participant),
		Total:       delta,
		UpdatedAt:   time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "participant"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total":      gorm.Expr("participant_totals.total + ?", delta),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("staking_repo_add_participant_total_failed", create.Error,
			"participant", strings.TrimSpace(participant),
		)
	}
	return nil
}

func (r *Repository) GetParticipantTotal(ctx context.Context, participant string) (int64, error) {
	var row participantTotalModel
	err := r.db.WithContext(ctx).
		Where("participant = ?", strings.TrimSpace(participant)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("staking_repo_get_participant_total_failed", err,
			"participant", strings.TrimSpace(participant),
		)
	}
	return row.Total, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	row, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("staking_repo_append_outbox_failed", err,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("staking_repo_list_outbox_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	update := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": sentAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("staking_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "staking-governance/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("staking repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
