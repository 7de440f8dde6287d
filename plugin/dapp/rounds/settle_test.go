package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winzalabs/winzachain/account"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/queue"
	drivers "github.com/winzalabs/winzachain/system/dapp"
)

func newTestSettler(t *testing.T, q *queue.Queue) (*Settler, *account.DB) {
	kv := newTestKV(t)
	acc := account.NewCoinsAccount(kv)
	var cli queue.Client
	if q != nil {
		cli = q.NewClient()
	}
	s := &Settler{
		Engine:  NewEngine(kv, "lottery"),
		Acc:     acc,
		Queue:   cli,
		ChainID: "main",
		Execer:  "lottery",
	}
	return s, acc
}

func TestSettleLocal(t *testing.T) {
	s, acc := newTestSettler(t, nil)
	_, err := acc.Deposit(drivers.ExecAddress("lottery"), 100)
	require.NoError(t, err)

	winner := &rty.WinnerAssignment{RoundId: 1, Key: TicketWinnerKey(3), Ticket: 3, Owner: "alice", Prize: 40}
	_, _, err = s.Settle(winner)
	require.NoError(t, err)

	assert.True(t, winner.Settled)
	assert.Equal(t, int64(40), acc.Balance("alice"))
	assert.Equal(t, int64(60), acc.Balance(drivers.ExecAddress("lottery")))
	assert.Equal(t, int64(0), s.Engine.PendingCount(1))

	stored, err := s.Engine.GetWinner(1, winner.Key)
	require.NoError(t, err)
	assert.True(t, stored.Settled)
}

func TestSettleZeroPrize(t *testing.T) {
	s, acc := newTestSettler(t, nil)
	winner := &rty.WinnerAssignment{RoundId: 1, Key: TicketWinnerKey(1), Owner: "alice", Prize: 0}
	_, _, err := s.Settle(winner)
	require.NoError(t, err)
	assert.True(t, winner.Settled)
	assert.Equal(t, int64(0), acc.Balance("alice"))
}

func TestSettleCrossChainPendingUntilAck(t *testing.T) {
	q := queue.New("test")
	defer q.Close()
	s, acc := newTestSettler(t, q)
	_, err := acc.Deposit(drivers.ExecAddress("lottery"), 100)
	require.NoError(t, err)

	recv := q.NewClient().Sub("para")
	winner := &rty.WinnerAssignment{RoundId: 1, Key: TicketWinnerKey(2), Ticket: 2,
		Owner: "carol", Prize: 30, OriginChain: "para"}
	_, _, err = s.Settle(winner)
	require.NoError(t, err)

	// pool debited, assignment pending, credit instruction on the wire
	assert.Equal(t, int64(70), acc.Balance(drivers.ExecAddress("lottery")))
	assert.Equal(t, int64(1), s.Engine.PendingCount(1))
	stored, err := s.Engine.GetWinner(1, winner.Key)
	require.NoError(t, err)
	assert.False(t, stored.Settled)

	msg := <-recv
	assert.Equal(t, queue.TyTx, msg.Ty)

	_, _, err = s.HandleAck(&rty.SettleAck{RoundId: 1, Key: winner.Key})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Engine.PendingCount(1))
	stored, err = s.Engine.GetWinner(1, winner.Key)
	require.NoError(t, err)
	assert.True(t, stored.Settled)

	// a redelivered ack is a no-op
	_, _, err = s.HandleAck(&rty.SettleAck{RoundId: 1, Key: winner.Key})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Engine.PendingCount(1))
}

func TestHandleCreditDepositsAndAcks(t *testing.T) {
	q := queue.New("test")
	defer q.Close()
	s, acc := newTestSettler(t, q)
	recv := q.NewClient().Sub("host")

	credit := &rty.SettleCredit{RoundId: 1, Key: TicketWinnerKey(2), Owner: "carol",
		Prize: 30, SourceChain: "host"}
	_, _, err := s.HandleCredit(credit)
	require.NoError(t, err)
	assert.Equal(t, int64(30), acc.Balance("carol"))

	msg := <-recv
	assert.Equal(t, queue.TyTx, msg.Ty)
}
