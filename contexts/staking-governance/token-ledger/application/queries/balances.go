package queries

import (
	"context"
	"strings"

	"stakevote/contexts/staking-governance/token-ledger/domain/entities"
	domainerrors "stakevote/contexts/staking-governance/token-ledger/domain/errors"
	"stakevote/contexts/staking-governance/token-ledger/ports"
)

// BalanceQueries is the side-effect-free read surface of the ledger.
type BalanceQueries struct {
	Balances ports.LedgerRepository
}

// AccountOf materializes the balance row for an address. Unknown addresses
// read as zero-balance accounts.
func (uc BalanceQueries) AccountOf(ctx context.Context, address string) (entities.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return entities.Account{}, domainerrors.ErrInvalidInput
	}
	balance, err := uc.Balances.GetBalance(ctx, address)
	if err != nil {
		return entities.Account{}, err
	}
	return entities.Account{Address: address, Balance: balance}, nil
}

func (uc BalanceQueries) BalanceOf(ctx context.Context, address string) (int64, error) {
	account, err := uc.AccountOf(ctx, address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// ApprovalOf materializes the allowance an owner granted a spender.
func (uc BalanceQueries) ApprovalOf(ctx context.Context, owner string, spender string) (entities.Approval, error) {
	owner = strings.TrimSpace(owner)
	spender = strings.TrimSpace(spender)
	if owner == "" || spender == "" {
		return entities.Approval{}, domainerrors.ErrInvalidInput
	}
	amount, err := uc.Balances.GetAllowance(ctx, owner, spender)
	if err != nil {
		return entities.Approval{}, err
	}
	return entities.Approval{Owner: owner, Spender: spender, Amount: amount}, nil
}

func (uc BalanceQueries) AllowanceOf(ctx context.Context, owner string, spender string) (int64, error) {
	approval, err := uc.ApprovalOf(ctx, owner, spender)
	if err != nil {
		return 0, err
	}
	return approval.Amount, nil
}

func (uc BalanceQueries) TotalSupply(ctx context.Context) (int64, error) {
	return uc.Balances.GetTotalSupply(ctx)
}
