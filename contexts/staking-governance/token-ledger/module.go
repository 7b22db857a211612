package tokenledger

import (
	"log/slog"

	httpadapter "stakevote/contexts/staking-governance/token-ledger/adapters/http"
	"stakevote/contexts/staking-governance/token-ledger/adapters/memory"
	"stakevote/contexts/staking-governance/token-ledger/application/commands"
	"stakevote/contexts/staking-governance/token-ledger/application/queries"
	"stakevote/contexts/staking-governance/token-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Ledger  *commands.LedgerUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Balances        ports.LedgerRepository
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	AdminIdentity   string
	TreasuryAccount string
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := &commands.LedgerUseCase{
		Balances:        deps.Balances,
		Outbox:          deps.Outbox,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		AdminIdentity:   deps.AdminIdentity,
		TreasuryAccount: deps.TreasuryAccount,
		Logger:          deps.Logger,
	}
	balanceQueries := queries.BalanceQueries{
		Balances: deps.Balances,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ledger:   ledger,
			Balances: balanceQueries,
			Logger:   deps.Logger,
		},
		Ledger: ledger,
	}
}

// NewInMemoryModule wires the ledger entirely against the in-memory store.
// Test wiring.
func NewInMemoryModule(adminIdentity string, treasuryAccount string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Balances:        store,
		Outbox:          store,
		Clock:           store,
		IDGen:           store,
		AdminIdentity:   adminIdentity,
		TreasuryAccount: treasuryAccount,
		Logger:          logger,
	})
	module.Store = store
	return module
}
