package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winzalabs/winzachain/types"
)

func TestSendRecv(t *testing.T) {
	q := New("test")
	defer q.Close()

	cli := q.NewClient()
	recv := cli.Sub("chain-b")

	tx := &types.Transaction{Execer: "lottery", Action: "Buy", From: "addr"}
	msg := NewTxMessage("chain-b", tx)
	require.NoError(t, cli.Send(msg))

	got := <-recv
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, TyTx, got.Ty)
	assert.True(t, got.Authenticated)

	var decoded types.Transaction
	require.NoError(t, types.Decode(got.Data, &decoded))
	assert.Equal(t, "lottery", decoded.Execer)
}

func TestSendNoSubscriberBuffers(t *testing.T) {
	q := New("test")
	defer q.Close()

	cli := q.NewClient()
	msg := NewTxMessage("late-chain", &types.Transaction{Execer: "x"})
	require.NoError(t, cli.Send(msg))

	// subscribing after the fact still drains the buffered message
	recv := cli.Sub("late-chain")
	got := <-recv
	assert.Equal(t, msg.ID, got.ID)
}

func TestUniqueMessageIDs(t *testing.T) {
	a := NewTxMessage("c", &types.Transaction{})
	b := NewTxMessage("c", &types.Transaction{})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSendAfterClose(t *testing.T) {
	q := New("test")
	q.Close()
	err := q.Send(NewTxMessage("c", &types.Transaction{}))
	assert.Equal(t, types.ErrIsClosed, err)
}
