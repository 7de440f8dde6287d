// Package account implements the fungible-asset ledger consumed by the
// settlement core. It is constructed against a chain's state KV and passed
// into executors explicitly, so the core stays testable without a live
// chain runtime.
package account

import (
	log "github.com/inconshreveable/log15"

	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/types"
)

var alog = log.New("module", "account")

// DB is the asset ledger bound to one chain's state store.
type DB struct {
	db     dbm.KV
	prefix []byte
}

// NewCoinsAccount binds the native-coin ledger to a state KV.
func NewCoinsAccount(db dbm.KV) *DB {
	return &DB{db: db, prefix: []byte("mavl-coins-wza-")}
}

func (acc *DB) AccountKey(addr string) []byte {
	return append(append([]byte{}, acc.prefix...), []byte(addr)...)
}

func (acc *DB) LoadAccount(addr string) *types.Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
	if err != nil {
		return &types.Account{Addr: addr}
	}
	var account types.Account
	if err := types.Decode(value, &account); err != nil {
		panic(err) // stored account records are written by this package only
	}
	return &account
}

func (acc *DB) SaveAccount(account *types.Account) {
	set := acc.GetKVSet(account)
	for i := 0; i < len(set); i++ {
		if err := acc.db.Set(set[i].GetKey(), set[i].Value); err != nil {
			panic(err)
		}
	}
}

func (acc *DB) GetKVSet(account *types.Account) (kvset []*types.KeyValue) {
	value := types.Encode(account)
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(account.Addr),
		Value: value,
	})
	return kvset
}

// Balance returns the spendable balance for addr.
func (acc *DB) Balance(addr string) int64 {
	return acc.LoadAccount(addr).GetBalance()
}

func (acc *DB) CheckTransfer(from string, amount int64) error {
	if !types.CheckAmount(amount) {
		return types.ErrAmount
	}
	if acc.LoadAccount(from).GetBalance()-amount < 0 {
		return types.ErrNoBalance
	}
	return nil
}

// Transfer moves amount from one owner to another on this chain.
func (acc *DB) Transfer(from, to string, amount int64) (*types.Receipt, error) {
	return acc.transfer(from, to, amount, types.TyLogTransfer)
}

// Claim pulls amount out of a source account into a target account. It is
// the same balance movement as Transfer under a distinct log type, kept
// separate because the caller's authority differs (the target initiates).
func (acc *DB) Claim(source, target string, amount int64) (*types.Receipt, error) {
	return acc.transfer(source, target, amount, types.TyLogClaim)
}

func (acc *DB) transfer(from, to string, amount int64, logTy int32) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	if from == to {
		return nil, types.ErrSendSameToRecv
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	if accFrom.GetBalance()-amount < 0 {
		alog.Debug("transfer", "from", from, "balance", accFrom.GetBalance(), "amount", amount)
		return nil, types.ErrNoBalance
	}
	copyFrom := *accFrom
	copyTo := *accTo

	accFrom.Balance -= amount
	accTo.Balance += amount

	acc.SaveAccount(accFrom)
	acc.SaveAccount(accTo)

	var kv []*types.KeyValue
	kv = append(kv, acc.GetKVSet(accFrom)...)
	kv = append(kv, acc.GetKVSet(accTo)...)
	logs := []*types.ReceiptLog{
		{Ty: logTy, Log: types.Encode(&types.ReceiptAccountTransfer{Prev: &copyFrom, Current: accFrom})},
		{Ty: logTy, Log: types.Encode(&types.ReceiptAccountTransfer{Prev: &copyTo, Current: accTo})},
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
}

// Deposit credits amount to addr. Used for genesis funding and for applying
// a cross-chain credit instruction on the destination chain.
func (acc *DB) Deposit(addr string, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	account := acc.LoadAccount(addr)
	copyAcc := *account
	account.Balance += amount
	acc.SaveAccount(account)

	logs := []*types.ReceiptLog{
		{Ty: types.TyLogDeposit, Log: types.Encode(&types.ReceiptAccountTransfer{Prev: &copyAcc, Current: account})},
	}
	return &types.Receipt{Ty: types.ExecOk, KV: acc.GetKVSet(account), Logs: logs}, nil
}

// Debit removes amount from addr, the local half of a cross-chain payout.
func (acc *DB) Debit(addr string, amount int64) (*types.Receipt, error) {
	if !types.CheckAmount(amount) {
		return nil, types.ErrAmount
	}
	account := acc.LoadAccount(addr)
	if account.GetBalance()-amount < 0 {
		return nil, types.ErrNoBalance
	}
	copyAcc := *account
	account.Balance -= amount
	acc.SaveAccount(account)

	logs := []*types.ReceiptLog{
		{Ty: types.TyLogTransfer, Log: types.Encode(&types.ReceiptAccountTransfer{Prev: &copyAcc, Current: account})},
	}
	return &types.Receipt{Ty: types.ExecOk, KV: acc.GetKVSet(account), Logs: logs}, nil
}
