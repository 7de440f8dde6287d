package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/types"
)

var (
	addrA = "winza1qejllsqta2tspjqjk5p8jqevwt5yh9qx"
	addrB = "winza1m3ks8ptxvzvurpmewn8cnmdzhh0zhhj9"
)

func newTestCoins(t *testing.T) *DB {
	kv, err := dbm.NewGoMemDB("account", "", 0)
	require.NoError(t, err)
	return NewCoinsAccount(kv)
}

func TestLoadAccountMissing(t *testing.T) {
	acc := newTestCoins(t)
	account := acc.LoadAccount(addrA)
	assert.Equal(t, addrA, account.Addr)
	assert.Zero(t, account.GetBalance())
}

func TestDepositAndTransfer(t *testing.T) {
	acc := newTestCoins(t)

	receipt, err := acc.Deposit(addrA, 100*types.Coin)
	require.NoError(t, err)
	assert.Equal(t, types.ExecOk, receipt.Ty)
	assert.Equal(t, 100*types.Coin, acc.Balance(addrA))

	receipt, err = acc.Transfer(addrA, addrB, 30*types.Coin)
	require.NoError(t, err)
	assert.Len(t, receipt.Logs, 2)
	assert.Equal(t, 70*types.Coin, acc.Balance(addrA))
	assert.Equal(t, 30*types.Coin, acc.Balance(addrB))
}

func TestTransferFailures(t *testing.T) {
	acc := newTestCoins(t)
	_, err := acc.Deposit(addrA, 10)
	require.NoError(t, err)

	_, err = acc.Transfer(addrA, addrB, 11)
	assert.Equal(t, types.ErrNoBalance, err)

	_, err = acc.Transfer(addrA, addrA, 5)
	assert.Equal(t, types.ErrSendSameToRecv, err)

	_, err = acc.Transfer(addrA, addrB, 0)
	assert.Equal(t, types.ErrAmount, err)

	_, err = acc.Transfer(addrA, addrB, -3)
	assert.Equal(t, types.ErrAmount, err)

	// failed transfers leave balances untouched
	assert.Equal(t, int64(10), acc.Balance(addrA))
	assert.Zero(t, acc.Balance(addrB))
}

func TestClaim(t *testing.T) {
	acc := newTestCoins(t)
	_, err := acc.Deposit(addrA, 50)
	require.NoError(t, err)

	receipt, err := acc.Claim(addrA, addrB, 20)
	require.NoError(t, err)
	assert.Equal(t, types.TyLogClaim, receipt.Logs[0].Ty)
	assert.Equal(t, int64(30), acc.Balance(addrA))
	assert.Equal(t, int64(20), acc.Balance(addrB))
}

func TestDebit(t *testing.T) {
	acc := newTestCoins(t)
	_, err := acc.Deposit(addrA, 50)
	require.NoError(t, err)

	_, err = acc.Debit(addrA, 60)
	assert.Equal(t, types.ErrNoBalance, err)

	_, err = acc.Debit(addrA, 50)
	require.NoError(t, err)
	assert.Zero(t, acc.Balance(addrA))
}
