package types

import "errors"

var (
	// precondition violations: surfaced to the caller, no state change
	ErrNoActiveRound             = errors.New("ErrNoActiveRound")
	ErrRoundNotActive            = errors.New("ErrRoundNotActive")
	ErrRoundNotClosed            = errors.New("ErrRoundNotClosed")
	ErrRoundNotFound             = errors.New("ErrRoundNotFound")
	ErrInsufficientParticipation = errors.New("ErrInsufficientParticipation")
	ErrAmountTooSmall            = errors.New("ErrAmountTooSmall")
	ErrStakeNotFound             = errors.New("ErrStakeNotFound")

	// invariant violations: bookkeeping inconsistencies, not user error
	ErrTierAlreadyComplete = errors.New("ErrTierAlreadyComplete")
	ErrExhaustedAttempts   = errors.New("ErrExhaustedAttempts")
	ErrAllWinnersDrawn     = errors.New("ErrAllWinnersDrawn")
)
