package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"stakevote/contexts/staking-governance/token-ledger/adapters/memory"
	"stakevote/contexts/staking-governance/token-ledger/application/commands"
	"stakevote/contexts/staking-governance/token-ledger/application/queries"
	domainerrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
)

func newLedger(t *testing.T) (*commands.LedgerUseCase, queries.BalanceQueries, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := &commands.LedgerUseCase{
		Balances:        store,
		Outbox:          store,
		Clock:           store,
		IDGen:           store,
		AdminIdentity:   "admin",
		TreasuryAccount: "treasury",
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return uc, queries.BalanceQueries{Balances: store}, store
}

func TestMint(t *testing.T) {
	uc, q, _ := newLedger(t)
	ctx := context.Background()

	err := uc.Mint(ctx, commands.MintCommand{Caller: "mallory", To: "alice", Amount: 10})
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	err = uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "alice", Amount: 0})
	require.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	require.NoError(t, uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "alice", Amount: 10}))
	require.NoError(t, uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "bob", Amount: 5}))

	balance, err := q.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)
	supply, err := q.TotalSupply(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(15), supply)
}

func TestTransfer(t *testing.T) {
	uc, q, _ := newLedger(t)
	ctx := context.Background()
	require.NoError(t, uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "alice", Amount: 10}))

	err := uc.Transfer(ctx, commands.TransferCommand{Caller: "alice", To: "bob", Amount: 20})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	require.NoError(t, uc.Transfer(ctx, commands.TransferCommand{Caller: "alice", To: "bob", Amount: 4}))
	aliceBalance, err := q.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(6), aliceBalance)
	bobBalance, err := q.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(4), bobBalance)
}

func TestApproveAndDebit(t *testing.T) {
	uc, q, _ := newLedger(t)
	ctx := context.Background()
	require.NoError(t, uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "alice", Amount: 10}))

	// No allowance yet.
	err := uc.Debit(ctx, "alice", 5)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientAllowance)

	require.NoError(t, uc.Approve(ctx, commands.ApproveCommand{Caller: "alice", Spender: "treasury", Amount: 8}))
	allowance, err := q.AllowanceOf(ctx, "alice", "treasury")
	require.NoError(t, err)
	require.Equal(t, int64(8), allowance)

	require.NoError(t, uc.Debit(ctx, "alice", 5))
	balance, err := q.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(5), balance)
	treasuryBalance, err := q.BalanceOf(ctx, "treasury")
	require.NoError(t, err)
	require.Equal(t, int64(5), treasuryBalance)
	allowance, err = q.AllowanceOf(ctx, "alice", "treasury")
	require.NoError(t, err)
	require.Equal(t, int64(3), allowance)

	// Allowance left but balance short.
	require.NoError(t, uc.Approve(ctx, commands.ApproveCommand{Caller: "alice", Spender: "treasury", Amount: 100}))
	err = uc.Debit(ctx, "alice", 6)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)
}

func TestCreditPaysFromTreasury(t *testing.T) {
	uc, q, _ := newLedger(t)
	ctx := context.Background()

	// Empty treasury cannot pay.
	err := uc.Credit(ctx, "alice", 5)
	require.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	require.NoError(t, uc.Mint(ctx, commands.MintCommand{Caller: "admin", To: "treasury", Amount: 20}))
	require.NoError(t, uc.Credit(ctx, "alice", 5))

	balance, err := q.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(5), balance)
	treasuryBalance, err := q.BalanceOf(ctx, "treasury")
	require.NoError(t, err)
	require.Equal(t, int64(15), treasuryBalance)
}

func TestAmountAndInputValidation(t *testing.T) {
	uc, _, _ := newLedger(t)
	ctx := context.Background()

	require.ErrorIs(t, uc.Transfer(ctx, commands.TransferCommand{Caller: "alice", To: "bob", Amount: -1}), domainerrors.ErrInvalidAmount)
	require.ErrorIs(t, uc.Transfer(ctx, commands.TransferCommand{Caller: "", To: "bob", Amount: 1}), domainerrors.ErrInvalidInput)
	require.ErrorIs(t, uc.Approve(ctx, commands.ApproveCommand{Caller: "alice", Spender: "treasury", Amount: -1}), domainerrors.ErrInvalidAmount)
	require.ErrorIs(t, uc.Debit(ctx, "", 1), domainerrors.ErrInvalidInput)
	require.ErrorIs(t, uc.Credit(ctx, "alice", 0), domainerrors.ErrInvalidAmount)
}
