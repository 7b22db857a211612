package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "stakevote/contexts/staking-governance/token-ledger/application"
	domainerrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
	"stakevote/contexts/staking-governance/token-ledger/ports"
)

// MintCommand creates new supply on an account. Admin-only.
type MintCommand struct {
	Caller string
	To     string
	Amount int64
}

// TransferCommand moves tokens between two accounts.
type TransferCommand struct {
	Caller string
	To     string
	Amount int64
}

// ApproveCommand sets (not adds to) the spender's allowance on the caller.
type ApproveCommand struct {
	Caller  string
	Spender string
	Amount  int64
}

// LedgerUseCase holds the single logical ledger of truth. All writes are
// serialized behind one lock so read-modify-write sequences never interleave.
// Debit and Credit are the custody primitives the voting engine binds to its
// TokenLedger port: Debit is the transferFrom-style allowance-checked move
// into the treasury, Credit the payout move back out.
type LedgerUseCase struct {
	Balances        ports.LedgerRepository
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	AdminIdentity   string
	TreasuryAccount string
	Logger          *slog.Logger

	mu sync.Mutex
}

func (uc *LedgerUseCase) Mint(ctx context.Context, cmd MintCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	to := strings.TrimSpace(cmd.To)
	if caller == "" || to == "" {
		return domainerrors.ErrInvalidInput
	}
	if cmd.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	if !uc.isAdmin(caller) {
		logger.Warn("mint rejected for non-admin caller",
			"event", "ledger_mint_unauthorized",
			"module", "staking-governance/token-ledger",
			"layer", "application",
			"caller", caller,
		)
		return domainerrors.ErrUnauthorized
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	balance, err := uc.Balances.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	supply, err := uc.Balances.GetTotalSupply(ctx)
	if err != nil {
		return err
	}
	if err := uc.Balances.SetBalance(ctx, to, balance+cmd.Amount); err != nil {
		return err
	}
	if err := uc.Balances.SetTotalSupply(ctx, supply+cmd.Amount); err != nil {
		return err
	}
	if err := uc.appendLedgerEvent(ctx, "tokens.minted", to, map[string]any{
		"to":     to,
		"amount": cmd.Amount,
		"supply": supply + cmd.Amount,
	}); err != nil {
		return err
	}

	logger.Info("tokens minted",
		"event", "ledger_tokens_minted",
		"module", "staking-governance/token-ledger",
		"layer", "application",
		"to", to,
		"amount", cmd.Amount,
	)
	return nil
}

func (uc *LedgerUseCase) Transfer(ctx context.Context, cmd TransferCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	to := strings.TrimSpace(cmd.To)
	if caller == "" || to == "" {
		return domainerrors.ErrInvalidInput
	}
	if cmd.Amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.move(ctx, caller, to, cmd.Amount); err != nil {
		return err
	}
	if err := uc.appendLedgerEvent(ctx, "tokens.transferred", caller, map[string]any{
		"from":   caller,
		"to":     to,
		"amount": cmd.Amount,
	}); err != nil {
		return err
	}

	logger.Info("tokens transferred",
		"event", "ledger_tokens_transferred",
		"module", "staking-governance/token-ledger",
		"layer", "application",
		"from", caller,
		"to", to,
		"amount", cmd.Amount,
	)
	return nil
}

func (uc *LedgerUseCase) Approve(ctx context.Context, cmd ApproveCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	caller := strings.TrimSpace(cmd.Caller)
	spender := strings.TrimSpace(cmd.Spender)
	if caller == "" || spender == "" {
		return domainerrors.ErrInvalidInput
	}
	if cmd.Amount < 0 {
		return domainerrors.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.Balances.SetAllowance(ctx, caller, spender, cmd.Amount); err != nil {
		return err
	}
	if err := uc.appendLedgerEvent(ctx, "tokens.approved", caller, map[string]any{
		"owner":   caller,
		"spender": spender,
		"amount":  cmd.Amount,
	}); err != nil {
		return err
	}

	logger.Info("allowance approved",
		"event", "ledger_allowance_approved",
		"module", "staking-governance/token-ledger",
		"layer", "application",
		"owner", caller,
		"spender", spender,
		"amount", cmd.Amount,
	)
	return nil
}

// Debit satisfies the voting engine's TokenLedger port. The allowance check,
// the allowance decrement and the balance move happen under the ledger lock,
// so the debit is atomic toward the engine.
func (uc *LedgerUseCase) Debit(ctx context.Context, from string, amount int64) error {
	logger := application.ResolveLogger(uc.Logger)
	from = strings.TrimSpace(from)
	if from == "" {
		return domainerrors.ErrInvalidInput
	}
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	treasury := uc.treasury()
	allowance, err := uc.Balances.GetAllowance(ctx, from, treasury)
	if err != nil {
		return err
	}
	if allowance < amount {
		return domainerrors.ErrInsufficientAllowance
	}
	if err := uc.move(ctx, from, treasury, amount); err != nil {
		return err
	}
	if err := uc.Balances.SetAllowance(ctx, from, treasury, allowance-amount); err != nil {
		return err
	}
	if err := uc.appendLedgerEvent(ctx, "tokens.debited", from, map[string]any{
		"from":   from,
		"to":     treasury,
		"amount": amount,
	}); err != nil {
		return err
	}

	logger.Info("stake debited into treasury",
		"event", "ledger_tokens_debited",
		"module", "staking-governance/token-ledger",
		"layer", "application",
		"from", from,
		"amount", amount,
	)
	return nil
}

// Credit satisfies the voting engine's TokenLedger port: a payout from the
// treasury account. The treasury covers winner bonuses out of its externally
// funded reward pool.
func (uc *LedgerUseCase) Credit(ctx context.Context, to string, amount int64) error {
	logger := application.ResolveLogger(uc.Logger)
	to = strings.TrimSpace(to)
	if to == "" {
		return domainerrors.ErrInvalidInput
	}
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.move(ctx, uc.treasury(), to, amount); err != nil {
		return err
	}
	if err := uc.appendLedgerEvent(ctx, "tokens.credited", to, map[string]any{
		"from":   uc.treasury(),
		"to":     to,
		"amount": amount,
	}); err != nil {
		return err
	}

	logger.Info("payout credited from treasury",
		"event", "ledger_tokens_credited",
		"module", "staking-governance/token-ledger",
		"layer", "application",
		"to", to,
		"amount", amount,
	)
	return nil
}

// move transfers between two accounts. Callers hold uc.mu.
func (uc *LedgerUseCase) move(ctx context.Context, from string, to string, amount int64) error {
	fromBalance, err := uc.Balances.GetBalance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return domainerrors.ErrInsufficientBalance
	}
	toBalance, err := uc.Balances.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	if err := uc.Balances.SetBalance(ctx, from, fromBalance-amount); err != nil {
		return err
	}
	if err := uc.Balances.SetBalance(ctx, to, toBalance+amount); err != nil {
		// restore the debited side so a half-applied move never survives
		if restoreErr := uc.Balances.SetBalance(ctx, from, fromBalance); restoreErr != nil {
			application.ResolveLogger(uc.Logger).Error("ledger move rollback failed",
				"event", "ledger_move_rollback_failed",
				"module", "staking-governance/token-ledger",
				"layer", "application",
				"from", from,
				"to", to,
				"error", restoreErr.Error(),
			)
		}
		return err
	}
	return nil
}

func (uc *LedgerUseCase) appendLedgerEvent(ctx context.Context, eventType string, partitionKey string, data map[string]any) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, partitionKey, uc.now(), data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc *LedgerUseCase) isAdmin(caller string) bool {
	admin := strings.TrimSpace(uc.AdminIdentity)
	return admin != "" && strings.EqualFold(caller, admin)
}

func (uc *LedgerUseCase) treasury() string {
	treasury := strings.TrimSpace(uc.TreasuryAccount)
	if treasury == "" {
		treasury = "treasury"
	}
	return treasury
}

func (uc *LedgerUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
