package dapp

import (
	"reflect"

	log "github.com/inconshreveable/log15"

	"github.com/winzalabs/winzachain/account"
	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/queue"
	"github.com/winzalabs/winzachain/types"
)

var blog = log.New("module", "execs.base")

// Driver is one dapp executor hosted on a chain. Each Exec call is a single
// atomic state transition: the harness hands the driver a buffered state KV
// and commits it only when Exec returns without error.
type Driver interface {
	GetDriverName() string

	SetStateDB(dbm.KV)
	SetLocalDB(dbm.KVDB)
	SetCoinsAccount(*account.DB)
	SetQueueClient(queue.Client)
	SetChainID(string)
	SetEnv(height, blocktime int64)

	Exec(tx *types.Transaction) (*types.Receipt, error)
	Query(funcName string, params []byte) (types.Message, error)
}

// DriverBase carries the per-transition environment shared by all dapps.
type DriverBase struct {
	statedb   dbm.KV
	localdb   dbm.KVDB
	coins     *account.DB
	qclient   queue.Client
	chainID   string
	height    int64
	blocktime int64
	child     Driver
}

func (d *DriverBase) SetChild(child Driver) {
	d.child = child
}

func (d *DriverBase) SetStateDB(db dbm.KV)             { d.statedb = db }
func (d *DriverBase) GetStateDB() dbm.KV               { return d.statedb }
func (d *DriverBase) SetLocalDB(db dbm.KVDB)           { d.localdb = db }
func (d *DriverBase) GetLocalDB() dbm.KVDB             { return d.localdb }
func (d *DriverBase) SetCoinsAccount(acc *account.DB)  { d.coins = acc }
func (d *DriverBase) GetCoinsAccount() *account.DB     { return d.coins }
func (d *DriverBase) SetQueueClient(cli queue.Client)  { d.qclient = cli }
func (d *DriverBase) GetQueueClient() queue.Client     { return d.qclient }
func (d *DriverBase) SetChainID(id string)             { d.chainID = id }
func (d *DriverBase) GetChainID() string               { return d.chainID }

func (d *DriverBase) SetEnv(height, blocktime int64) {
	d.height = height
	d.blocktime = blocktime
}

func (d *DriverBase) GetHeight() int64    { return d.height }
func (d *DriverBase) GetBlockTime() int64 { return d.blocktime }

// Query dispatches by reflection to the child's Query_<funcName> method with
// signature func(params []byte) (types.Message, error).
func (d *DriverBase) Query(funcName string, params []byte) (types.Message, error) {
	if d.child == nil {
		return nil, types.ErrQueryNotExist
	}
	value := reflect.ValueOf(d.child)
	method := value.MethodByName("Query_" + funcName)
	if !method.IsValid() {
		blog.Debug("Query", "func not found", funcName)
		return nil, types.ErrQueryNotExist
	}
	results := method.Call([]reflect.Value{reflect.ValueOf(params)})
	if len(results) != 2 {
		return nil, types.ErrQueryNotExist
	}
	if errv := results[1].Interface(); errv != nil {
		return nil, errv.(error)
	}
	return results[0].Interface(), nil
}

// ExecAddress derives the pool/payer account owned by a dapp. There is no
// private key behind it; only executors credit or debit it.
func ExecAddress(name string) string {
	return "exec-" + name
}
