// Package tokenledger is the fungible-token ledger backing the voting
// engine: balances, administrator minting, transfers and allowances, plus the
// two custody primitives the engine consumes, an allowance-checked debit into
// the treasury account and a payout credit out of it.
package tokenledger
