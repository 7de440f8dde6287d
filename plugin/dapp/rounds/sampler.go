package rounds

import (
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
)

// DrawSeed combines block time and height with wraparound addition. The
// result is operator influenceable; a deployment where the drawer cannot be
// trusted needs a verifiable randomness source instead.
func DrawSeed(blocktime, height int64) uint64 {
	return uint64(blocktime) + uint64(height)
}

// SampleTicket picks the first candidate ticket that has not already won:
// candidate = ((seed+attempt) mod total) + 1. The attempt cap defends
// against an unbounded loop if winner bookkeeping is corrupted; under
// correct usage it never trips because quotas total well under half the
// tickets.
func (e *Engine) SampleTicket(roundID int64, seed uint64, total int64) (int64, error) {
	if total <= 0 {
		return 0, rty.ErrExhaustedAttempts
	}
	for attempt := int64(0); attempt < 2*total; attempt++ {
		candidate := int64((seed+uint64(attempt))%uint64(total)) + 1
		if !e.hasWinner(roundID, TicketWinnerKey(candidate)) {
			return candidate, nil
		}
	}
	return 0, rty.ErrExhaustedAttempts
}
