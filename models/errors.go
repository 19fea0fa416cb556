package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrInsufficientBalance        = errors.New("insufficient balance")
	ErrItemNotFound               = errors.New("item not found")
	ErrNFTNotFound                = errors.New("nft not found")
	ErrNFTAlreadyOwned            = errors.New("nft already owned")
	ErrNFTSubsystemUnavailable    = errors.New("nft subsystem unavailable")
	ErrEconomyUninitialized       = errors.New("economy not initialized")
	ErrPlayerUnknown              = errors.New("player unknown")
	ErrContractCallFailed         = errors.New("contract call failed")
	ErrDailyBonusClaimed          = errors.New("daily bonus already claimed")
	ErrInternalInvariantViolation = errors.New("internal invariant violation")
)

// EconomyError is the failure outcome of an engine operation.
type EconomyError struct {
	Op       string
	PlayerID string
	Err      error
}

func NewEconomyError(op, playerID string, err error) *EconomyError {
	return &EconomyError{Op: op, PlayerID: playerID, Err: err}
}

func (e *EconomyError) Error() string {
	if e.PlayerID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.PlayerID, e.Err)
}

func (e *EconomyError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error signals a locking or logic bug rather
// than a recoverable domain rule violation.
func (e *EconomyError) Fatal() bool {
	return errors.Is(e.Err, ErrInternalInvariantViolation)
}
