package services

import "errors"

// Business-rule failures. None of these are retried by the ledger; the
// caller decides what to do with them. Storage conflicts are retried
// internally and never surface as these.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTurnoverNotMet      = errors.New("turnover requirement not met")
	ErrAlreadyProcessed    = errors.New("request already processed")
	ErrInvalidPin          = errors.New("invalid withdraw pin")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
)
