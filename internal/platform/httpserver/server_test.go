package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	tokenledger "stakevote/contexts/staking-governance/token-ledger"
	votingengine "stakevote/contexts/staking-governance/voting-engine"
	"stakevote/internal/platform/httpserver"
)

func newTestServer(t *testing.T) (*httpserver.Server, votingengine.Module, tokenledger.Module) {
	t.Helper()
	voting := votingengine.NewInMemoryModule("admin", nil)
	ledger := tokenledger.NewInMemoryModule("admin", "treasury", nil)
	voting.Engine.Ledger = ledger.Ledger
	return httpserver.New(voting, ledger, nil, ":0"), voting, ledger
}

func doRequest(t *testing.T, server *httpserver.Server, method string, path string, caller string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != "" {
		req.Header.Set("X-User-Id", caller)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestCreateProjectStatusMapping(t *testing.T) {
	server, voting, _ := newTestServer(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	voting.Store.SetNow(base)

	body := `{"name":"grant","start_time":"2025-06-02T12:00:00Z","duration_seconds":604800}`

	resp := doRequest(t, server, http.MethodPost, "/projects", "", body)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects", "mallory", body)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects", "admin", `{"name":"grant","start_time":"2025-05-01T12:00:00Z","duration_seconds":60}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	var errBody struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
	require.Equal(t, "invalid_schedule", errBody.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects", "admin", body)
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		ProjectID uint64 `json:"project_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.Equal(t, uint64(1), created.ProjectID)

	resp = doRequest(t, server, http.MethodGet, "/projects/1", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, server, http.MethodGet, "/projects/99", "", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	resp = doRequest(t, server, http.MethodGet, "/projects/not-a-number", "", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestVoteAndUnstakeStatusMapping(t *testing.T) {
	server, voting, _ := newTestServer(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	voting.Store.SetNow(base)

	resp := doRequest(t, server, http.MethodPost, "/ledger/mint", "admin", `{"to":"alice","amount":10}`)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, server, http.MethodPost, "/ledger/mint", "admin", `{"to":"treasury","amount":20}`)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, server, http.MethodPost, "/ledger/approvals", "alice", `{"spender":"treasury","amount":10}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects", "admin", `{"name":"grant","start_time":"2025-06-02T12:00:00Z","duration_seconds":604800}`)
	require.Equal(t, http.StatusCreated, resp.Code)

	// Before the window opens.
	resp = doRequest(t, server, http.MethodPost, "/projects/1/votes", "alice", `{"amount":5}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	voting.Store.SetNow(base.Add(4 * 24 * time.Hour))
	resp = doRequest(t, server, http.MethodPost, "/projects/1/votes", "alice", `{"amount":5}`)
	require.Equal(t, http.StatusOK, resp.Code)

	// Over the remaining allowance.
	resp = doRequest(t, server, http.MethodPost, "/projects/1/votes", "alice", `{"amount":50}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// Unstake before finalization.
	voting.Store.SetNow(base.Add(9 * 24 * time.Hour))
	resp = doRequest(t, server, http.MethodPost, "/projects/1/unstake", "alice", "")
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects/1/finalize", "admin", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, server, http.MethodPost, "/projects/1/finalize", "admin", "")
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = doRequest(t, server, http.MethodPost, "/projects/1/unstake", "alice", "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doRequest(t, server, http.MethodPost, "/projects/1/unstake", "alice", "")
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = doRequest(t, server, http.MethodGet, "/ledger/balances/alice", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var balance struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &balance))
	require.Equal(t, int64(15), balance.Balance)
}
