package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	tokenledger "stakevote/contexts/staking-governance/token-ledger"
	votingengine "stakevote/contexts/staking-governance/voting-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "stakevote/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	voting votingengine.Module
	ledger tokenledger.Module
}

func New(
	voting votingengine.Module,
	ledger tokenledger.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		voting: voting,
		ledger: ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /projects/count", s.handleTotalProjects)
	s.mux.HandleFunc("GET /projects/{project_id}", s.handleGetProject)
	s.mux.HandleFunc("POST /projects/{project_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /projects/{project_id}/finalize", s.handleFinalizeProject)
	s.mux.HandleFunc("POST /projects/{project_id}/unstake", s.handleUnstake)
	s.mux.HandleFunc("GET /projects/{project_id}/unstakeable-balance", s.handleUnstakeableBalance)
	s.mux.HandleFunc("GET /projects/{project_id}/stakes/{participant}", s.handleStakeRecord)
	s.mux.HandleFunc("GET /participants/{participant}/staked-total", s.handleParticipantTotal)

	s.mux.HandleFunc("POST /ledger/mint", s.handleMint)
	s.mux.HandleFunc("POST /ledger/transfers", s.handleTransfer)
	s.mux.HandleFunc("POST /ledger/approvals", s.handleApprove)
	s.mux.HandleFunc("GET /ledger/balances/{address}", s.handleBalance)
	s.mux.HandleFunc("GET /ledger/allowances/{owner}/{spender}", s.handleAllowance)
	s.mux.HandleFunc("GET /ledger/supply", s.handleTotalSupply)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
