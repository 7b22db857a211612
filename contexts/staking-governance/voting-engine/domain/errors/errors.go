package errors

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid voting input")
	ErrProjectNotFound         = errors.New("project not found")
	ErrInvalidSchedule         = errors.New("start time must be in the future and duration must be positive")
	ErrProjectNotActive        = errors.New("project is not active")
	ErrProjectAlreadyFinalized = errors.New("project is already finalized")
	ErrProjectNotFinalized     = errors.New("project is not finalized")
	ErrInvalidVotingPeriod     = errors.New("current time is outside the allowed period")
	ErrNoVotesCast             = errors.New("no votes cast")
	ErrAlreadyUnstaked         = errors.New("stake has already been withdrawn")
	ErrUnauthorized            = errors.New("caller is not the configured administrator")
	ErrReentrantCall           = errors.New("reentrant call into the voting engine")
)
