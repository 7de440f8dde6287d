package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/queue"
	"github.com/winzalabs/winzachain/system/dapp/coins"
	"github.com/winzalabs/winzachain/types"
)

func newTestExec(t *testing.T) *Executor {
	e := New("test-chain", dbm.NewDB("exec", dbm.MemDBBackendStr, "", 0), nil)
	e.SetClock(func() int64 { return 1700000000 })
	return e
}

func deposit(t *testing.T, e *Executor, addr string, amount int64) {
	_, err := e.Exec(&types.Transaction{
		Execer:  coins.CoinsX,
		Action:  "Deposit",
		Payload: types.Encode(&coins.CoinsDeposit{Addr: addr, Amount: amount}),
	})
	require.NoError(t, err)
}

func balance(t *testing.T, e *Executor, addr string) int64 {
	reply, err := e.Query(coins.CoinsX, "GetBalance", types.Encode(&coins.ReqBalance{Addr: addr}))
	require.NoError(t, err)
	return reply.(*coins.ReplyBalance).Balance
}

func TestExecCommit(t *testing.T) {
	e := newTestExec(t)
	deposit(t, e, "alice", 100*types.Coin)

	receipt, err := e.Exec(&types.Transaction{
		Execer:  coins.CoinsX,
		Action:  "Transfer",
		Payload: types.Encode(&coins.CoinsTransfer{To: "bob", Amount: 30 * types.Coin}),
		From:    "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(types.ExecOk), receipt.Ty)

	assert.Equal(t, int64(70*types.Coin), balance(t, e, "alice"))
	assert.Equal(t, int64(30*types.Coin), balance(t, e, "bob"))
}

func TestExecRollbackOnError(t *testing.T) {
	e := newTestExec(t)
	deposit(t, e, "alice", 10*types.Coin)

	_, err := e.Exec(&types.Transaction{
		Execer:  coins.CoinsX,
		Action:  "Transfer",
		Payload: types.Encode(&coins.CoinsTransfer{To: "bob", Amount: 50 * types.Coin}),
		From:    "alice",
	})
	require.Error(t, err)

	// no partial writes survive a failed transition
	assert.Equal(t, int64(10*types.Coin), balance(t, e, "alice"))
	assert.Equal(t, int64(0), balance(t, e, "bob"))
}

func TestExecUnknownDriver(t *testing.T) {
	e := newTestExec(t)
	_, err := e.Exec(&types.Transaction{Execer: "nope", Action: "X"})
	assert.Equal(t, types.ErrExecerNotExist, err)
}

func TestInboxDelivery(t *testing.T) {
	q := queue.New("test")
	defer q.Close()

	e := New("chain-b", dbm.NewDB("exec", dbm.MemDBBackendStr, "", 0), q)
	e.SetClock(func() int64 { return 1700000000 })
	e.Start()
	defer e.Stop()

	cli := q.NewClient()
	tx := &types.Transaction{
		Execer:  coins.CoinsX,
		Action:  "Deposit",
		Payload: types.Encode(&coins.CoinsDeposit{Addr: "carol", Amount: 5 * types.Coin}),
	}
	require.NoError(t, cli.Send(queue.NewTxMessage("chain-b", tx)))

	assert.Eventually(t, func() bool {
		return balance(t, e, "carol") == 5*types.Coin
	}, 2*time.Second, 10*time.Millisecond)
}
