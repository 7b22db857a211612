package votingengine_test

import (
	"context"
	"testing"
	"time"

	tokenledger "stakevote/contexts/staking-governance/token-ledger"
	ledgercommands "stakevote/contexts/staking-governance/token-ledger/application/commands"
	votingengine "stakevote/contexts/staking-governance/voting-engine"
	httptransport "stakevote/contexts/staking-governance/voting-engine/transport/http"
)

func TestProjectLifecycleThroughHandlers(t *testing.T) {
	module := votingengine.NewInMemoryModule("admin", nil)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	module.Store.SetNow(base)
	module.Store.SetBalance("alice", 12)
	module.Store.SetAllowance("alice", 12)
	module.Store.SetBalance("bob", 10)
	module.Store.SetAllowance("bob", 10)

	created, err := module.Handler.CreateProjectHandler(context.Background(), "admin", httptransport.CreateProjectRequest{
		Name:            "community grant",
		Description:     "quarterly grant round",
		StartTime:       base.Add(24 * time.Hour),
		DurationSeconds: int64((7 * 24 * time.Hour).Seconds()),
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if created.ProjectID != 1 {
		t.Fatalf("expected project id 1, got %d", created.ProjectID)
	}
	if !created.EndTime.Equal(base.Add(8 * 24 * time.Hour)) {
		t.Fatalf("unexpected end time %s", created.EndTime)
	}

	module.Store.SetNow(base.Add(4 * 24 * time.Hour))
	if _, err := module.Handler.CastVoteHandler(context.Background(), "alice", created.ProjectID, httptransport.CastVoteRequest{Amount: 6}); err != nil {
		t.Fatalf("alice vote failed: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(context.Background(), "bob", created.ProjectID, httptransport.CastVoteRequest{Amount: 4}); err != nil {
		t.Fatalf("bob vote failed: %v", err)
	}

	module.Store.SetNow(base.Add(9 * 24 * time.Hour))
	finalized, err := module.Handler.FinalizeProjectHandler(context.Background(), "admin", created.ProjectID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.Winner != "alice" {
		t.Fatalf("expected winner alice, got %q", finalized.Winner)
	}
	if finalized.TotalVotes != 10 {
		t.Fatalf("expected total votes 10, got %d", finalized.TotalVotes)
	}

	withdrawable, err := module.Handler.UnstakeableBalanceHandler(context.Background(), created.ProjectID, "alice")
	if err != nil {
		t.Fatalf("unstakeable balance failed: %v", err)
	}
	if withdrawable.Amount != 12 {
		t.Fatalf("expected withdrawable 12 for winner, got %d", withdrawable.Amount)
	}

	aliceResult, err := module.Handler.UnstakeHandler(context.Background(), "alice", created.ProjectID)
	if err != nil {
		t.Fatalf("alice unstake failed: %v", err)
	}
	if !aliceResult.IsWinner || aliceResult.Payout != 12 {
		t.Fatalf("unexpected winner payout %+v", aliceResult)
	}
	bobResult, err := module.Handler.UnstakeHandler(context.Background(), "bob", created.ProjectID)
	if err != nil {
		t.Fatalf("bob unstake failed: %v", err)
	}
	if bobResult.IsWinner || bobResult.Payout != 4 {
		t.Fatalf("unexpected loser payout %+v", bobResult)
	}

	if got := module.Store.Balance("alice"); got != 18 {
		t.Fatalf("expected alice balance 18, got %d", got)
	}
	if got := module.Store.Balance("bob"); got != 10 {
		t.Fatalf("expected bob balance 10, got %d", got)
	}
}

// TestEngineAgainstTokenLedger wires the real ledger use case into the engine
// the way bootstrap does, with the treasury custodying stakes and paying
// winner bonuses from its reward pool.
func TestEngineAgainstTokenLedger(t *testing.T) {
	ledgerModule := tokenledger.NewInMemoryModule("admin", "treasury", nil)
	engineModule := votingengine.NewInMemoryModule("admin", nil)
	engineModule.Engine.Ledger = ledgerModule.Ledger

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engineModule.Store.SetNow(base)
	ctx := context.Background()

	for _, mint := range []struct {
		to     string
		amount int64
	}{
		{"alice", 10},
		{"bob", 10},
		{"treasury", 20},
	} {
		if err := ledgerModule.Ledger.Mint(ctx, ledgercommands.MintCommand{Caller: "admin", To: mint.to, Amount: mint.amount}); err != nil {
			t.Fatalf("mint to %s failed: %v", mint.to, err)
		}
	}
	for _, owner := range []string{"alice", "bob"} {
		if err := ledgerModule.Ledger.Approve(ctx, ledgercommands.ApproveCommand{Caller: owner, Spender: "treasury", Amount: 10}); err != nil {
			t.Fatalf("approve for %s failed: %v", owner, err)
		}
	}

	created, err := engineModule.Handler.CreateProjectHandler(ctx, "admin", httptransport.CreateProjectRequest{
		Name:            "community grant",
		StartTime:       base.Add(24 * time.Hour),
		DurationSeconds: int64((7 * 24 * time.Hour).Seconds()),
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	engineModule.Store.SetNow(base.Add(4 * 24 * time.Hour))
	if _, err := engineModule.Handler.CastVoteHandler(ctx, "alice", created.ProjectID, httptransport.CastVoteRequest{Amount: 6}); err != nil {
		t.Fatalf("alice vote failed: %v", err)
	}
	if _, err := engineModule.Handler.CastVoteHandler(ctx, "bob", created.ProjectID, httptransport.CastVoteRequest{Amount: 4}); err != nil {
		t.Fatalf("bob vote failed: %v", err)
	}

	treasuryBalance, err := ledgerModule.Handler.BalanceHandler(ctx, "treasury")
	if err != nil {
		t.Fatalf("treasury balance failed: %v", err)
	}
	if treasuryBalance.Balance != 30 {
		t.Fatalf("expected treasury to custody 30 after stakes, got %d", treasuryBalance.Balance)
	}

	engineModule.Store.SetNow(base.Add(9 * 24 * time.Hour))
	if _, err := engineModule.Handler.FinalizeProjectHandler(ctx, "admin", created.ProjectID); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if _, err := engineModule.Handler.UnstakeHandler(ctx, "alice", created.ProjectID); err != nil {
		t.Fatalf("alice unstake failed: %v", err)
	}
	if _, err := engineModule.Handler.UnstakeHandler(ctx, "bob", created.ProjectID); err != nil {
		t.Fatalf("bob unstake failed: %v", err)
	}

	expected := map[string]int64{"alice": 16, "bob": 10, "treasury": 14}
	for account, want := range expected {
		got, err := ledgerModule.Handler.BalanceHandler(ctx, account)
		if err != nil {
			t.Fatalf("balance of %s failed: %v", account, err)
		}
		if got.Balance != want {
			t.Fatalf("expected %s balance %d, got %d", account, want, got.Balance)
		}
	}
}
