package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type AllowanceResponse struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance int64  `json:"allowance"`
}

type TotalSupplyResponse struct {
	TotalSupply int64 `json:"total_supply"`
}

type AckResponse struct {
	Status string `json:"status"`
}
