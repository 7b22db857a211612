package entities

// Account is a token holder's balance.
type Account struct {
	Address string
	Balance int64
}

// Approval is the amount an owner lets a spender draw via Debit.
type Approval struct {
	Owner   string
	Spender string
	Amount  int64
}
