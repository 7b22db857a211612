package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	ledgererrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
	ledgerhttp "stakevote/contexts/staking-governance/token-ledger/transport/http"
)

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidInput),
		errors.Is(err, ledgererrors.ErrInvalidAmount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientBalance):
		writeLedgerError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientAllowance):
		writeLedgerError(w, http.StatusUnprocessableEntity, "insufficient_allowance", err.Error())
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireLedgerCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_identity", "X-User-Id header is required")
		return "", false
	}
	return caller, true
}

// handleMint godoc
//
//	@Summary	Mint tokens onto an account (admin only)
//	@Tags		ledger
//	@Router		/ledger/mint [post]
func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireLedgerCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.MintHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireLedgerCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.TransferHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireLedgerCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.ApproveHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.PathValue("address"))
	if address == "" {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "address is required")
		return
	}
	resp, err := s.ledger.Handler.BalanceHandler(r.Context(), address)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllowance(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.PathValue("owner"))
	spender := strings.TrimSpace(r.PathValue("spender"))
	if owner == "" || spender == "" {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "owner and spender are required")
		return
	}
	resp, err := s.ledger.Handler.AllowanceHandler(r.Context(), owner, spender)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTotalSupply(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.TotalSupplyHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
