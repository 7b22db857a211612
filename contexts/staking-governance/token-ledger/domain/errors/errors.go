package errors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid ledger input")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrUnauthorized          = errors.New("caller is not the configured administrator")
)
