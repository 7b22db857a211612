package httpadapter

import (
	"context"
	"log/slog"

	"stakevote/contexts/staking-governance/token-ledger/application/commands"
	"stakevote/contexts/staking-governance/token-ledger/application/queries"
	httptransport "stakevote/contexts/staking-governance/token-ledger/transport/http"
)

// Handler maps transport DTOs onto ledger commands and queries.
type Handler struct {
	Ledger   *commands.LedgerUseCase
	Balances queries.BalanceQueries
	Logger   *slog.Logger
}

func (h Handler) MintHandler(ctx context.Context, caller string, req httptransport.MintRequest) (httptransport.AckResponse, error) {
	if err := h.Ledger.Mint(ctx, commands.MintCommand{
		Caller: caller,
		To:     req.To,
		Amount: req.Amount,
	}); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "minted"}, nil
}

func (h Handler) TransferHandler(ctx context.Context, caller string, req httptransport.TransferRequest) (httptransport.AckResponse, error) {
	if err := h.Ledger.Transfer(ctx, commands.TransferCommand{
		Caller: caller,
		To:     req.To,
		Amount: req.Amount,
	}); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "transferred"}, nil
}

func (h Handler) ApproveHandler(ctx context.Context, caller string, req httptransport.ApproveRequest) (httptransport.AckResponse, error) {
	if err := h.Ledger.Approve(ctx, commands.ApproveCommand{
		Caller:  caller,
		Spender: req.Spender,
		Amount:  req.Amount,
	}); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "approved"}, nil
}

func (h Handler) BalanceHandler(ctx context.Context, address string) (httptransport.BalanceResponse, error) {
	account, err := h.Balances.AccountOf(ctx, address)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	return httptransport.BalanceResponse{Address: account.Address, Balance: account.Balance}, nil
}

func (h Handler) AllowanceHandler(ctx context.Context, owner string, spender string) (httptransport.AllowanceResponse, error) {
	approval, err := h.Balances.ApprovalOf(ctx, owner, spender)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{Owner: approval.Owner, Spender: approval.Spender, Allowance: approval.Amount}, nil
}

func (h Handler) TotalSupplyHandler(ctx context.Context) (httptransport.TotalSupplyResponse, error) {
	supply, err := h.Balances.TotalSupply(ctx)
	if err != nil {
		return httptransport.TotalSupplyResponse{}, err
	}
	return httptransport.TotalSupplyResponse{TotalSupply: supply}, nil
}
