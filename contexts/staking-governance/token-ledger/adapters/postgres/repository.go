package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stakevote/contexts/staking-governance/token-ledger/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	supplyRowName = "total_supply"
)

// Repository implements LedgerRepository, OutboxWriter and OutboxRepository
// on postgres.
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

func (r *Repository) GetBalance(ctx context.Context, address string) (int64, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("address = ?", strings.TrimSpace(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("ledger_repo_get_balance_failed", err, "address", strings.TrimSpace(address))
	}
	return row.Balance, nil
}

func (r *Repository) SetBalance(ctx context.Context, address string, amount int64) error {
	row := accountModel{
		Address:   strings.TrimSpace(address),
		Balance:   amount,
		UpdatedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance":    row.Balance,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_set_balance_failed", create.Error, "address", row.Address)
	}
	return nil
}

func (r *Repository) GetAllowance(ctx context.Context, owner string, spender string) (int64, error) {
	var row allowanceModel
	err := r.db.WithContext(ctx).
		Where("owner = ?", strings.TrimSpace(owner)).
		Where("spender = ?", strings.TrimSpace(spender)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("ledger_repo_get_allowance_failed", err,
			"owner", strings.TrimSpace(owner),
			"spender", strings.TrimSpace(spender),
		)
	}
	return row.Amount, nil
}

func (r *Repository) SetAllowance(ctx context.Context, owner string, spender string, amount int64) error {
	row := allowanceModel{
		Owner:     strings.TrimSpace(owner),
		Spender:   strings.TrimSpace(spender),
		Amount:    amount,
		UpdatedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner"}, {Name: "spender"}},
		DoUpdates: clause.Assignments(map[string]any{
			"amount":     row.Amount,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_set_allowance_failed", create.Error,
			"owner", row.Owner,
			"spender", row.Spender,
		)
	}
	return nil
}

func (r *Repository) GetTotalSupply(ctx context.Context) (int64, error) {
	var row supplyModel
	err := r.db.WithContext(ctx).
		Where("name = ?", supplyRowName).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("ledger_repo_get_supply_failed", err)
	}
	return row.Value, nil
}

func (r *Repository) SetTotalSupply(ctx context.Context, amount int64) error {
	row := supplyModel{
		Name:      supplyRowName,
		Value:     amount,
		UpdatedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_set_supply_failed", create.Error)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:           event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_append_outbox_failed", err,
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
		return nil, r.logError("ledger_repo_list_outbox_failed", err)
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
		return r.logError("ledger_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "staking-governance/token-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

type accountModel struct {
	Address   string    `gorm:"column:address;primaryKey"`
	Balance   int64     `gorm:"column:balance"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "ledger_accounts"
}

type allowanceModel struct {
	Owner     string    `gorm:"column:owner;primaryKey"`
	Spender   string    `gorm:"column:spender;primaryKey"`
	Amount    int64     `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (allowanceModel) TableName() string {
	return "ledger_allowances"
}

type supplyModel struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     int64     `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (supplyModel) TableName() string {
	return "ledger_supply"
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
	return "ledger_outbox"
}
