package rounds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
)

func TestDrawSeedWraps(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64-1), DrawSeed(math.MaxInt64, math.MaxInt64))
	assert.Equal(t, uint64(30), DrawSeed(10, 20))
}

func TestSampleTicketSkipsWinners(t *testing.T) {
	e := NewEngine(newTestKV(t), "lottery")
	// seed 0 over 6 tickets lands on ticket 1 first
	ticket, err := e.SampleTicket(1, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ticket)

	markWinner(t, e, 1, 1)
	ticket, err = e.SampleTicket(1, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ticket)
}

func TestSampleTicketExhausts(t *testing.T) {
	e := NewEngine(newTestKV(t), "lottery")
	for ticket := int64(1); ticket <= 3; ticket++ {
		markWinner(t, e, 1, ticket)
	}
	_, err := e.SampleTicket(1, 7, 3)
	assert.Equal(t, rty.ErrExhaustedAttempts, err)
}

func TestSampleTicketZeroTotal(t *testing.T) {
	e := NewEngine(newTestKV(t), "lottery")
	_, err := e.SampleTicket(1, 1, 0)
	assert.Equal(t, rty.ErrExhaustedAttempts, err)
}
