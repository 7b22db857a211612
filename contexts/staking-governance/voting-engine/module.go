package votingengine

import (
	"log/slog"

	httpadapter "stakevote/contexts/staking-governance/voting-engine/adapters/http"
	"stakevote/contexts/staking-governance/voting-engine/adapters/memory"
	"stakevote/contexts/staking-governance/voting-engine/application/commands"
	"stakevote/contexts/staking-governance/voting-engine/application/queries"
	"stakevote/contexts/staking-governance/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Engine  *commands.EngineUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Projects      ports.ProjectRepository
	Stakes        ports.StakeRepository
	Ledger        ports.TokenLedger
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	AdminIdentity string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	engine := &commands.EngineUseCase{
		Projects:      deps.Projects,
		Stakes:        deps.Stakes,
		Ledger:        deps.Ledger,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		AdminIdentity: deps.AdminIdentity,
		Logger:        deps.Logger,
	}
	projectQueries := queries.ProjectQueries{
		Projects: deps.Projects,
		Stakes:   deps.Stakes,
		Clock:    deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Engine:  engine,
			Queries: projectQueries,
			Logger:  deps.Logger,
		},
		Engine: engine,
	}
}

// NewInMemoryModule wires the engine entirely against the in-memory store,
// including the ledger collaborator. Test wiring.
func NewInMemoryModule(adminIdentity string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Projects:      store,
		Stakes:        store,
		Ledger:        store,
		Outbox:        store,
		Clock:         store,
		IDGen:         store,
		AdminIdentity: adminIdentity,
		Logger:        logger,
	})
	module.Store = store
	return module
}
