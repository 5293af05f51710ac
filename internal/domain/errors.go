package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrQuizIncomplete       = errors.New("quiz is not complete")
	ErrPaymentRequired      = errors.New("payment required")
	ErrMacroSplitInfeasible = errors.New("macro split infeasible")
)
