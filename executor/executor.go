// Package executor hosts the dapp drivers of one chain. Every transaction,
// whether submitted locally or delivered over the cross-chain queue, passes
// through Exec: state changes are buffered during the call and committed
// atomically only when the driver returns without error.
package executor

import (
	"sync"
	"time"

	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/winzalabs/winzachain/account"
	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/queue"
	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var elog = log.New("module", "executor")

// Executor is one chain's execution environment. Exec advances the chain by
// one height per transaction; the wall clock stands in for block time.
type Executor struct {
	mu      sync.Mutex
	chainID string
	statedb dbm.DB
	qclient queue.Client
	drivers map[string]drivers.Driver
	height  int64
	clock   func() int64

	done chan struct{}
}

func New(chainID string, statedb dbm.DB, q *queue.Queue) *Executor {
	e := &Executor{
		chainID: chainID,
		statedb: statedb,
		drivers: make(map[string]drivers.Driver),
		clock:   func() int64 { return time.Now().Unix() },
		done:    make(chan struct{}),
	}
	if q != nil {
		e.qclient = q.NewClient()
	}
	for _, name := range drivers.Registered() {
		creator, _ := drivers.Load(name)
		e.drivers[name] = creator()
	}
	return e
}

// SetClock replaces the block-time source. Tests pin it.
func (e *Executor) SetClock(clock func() int64) {
	e.clock = clock
}

func (e *Executor) ChainID() string {
	return e.chainID
}

// Exec runs one transaction against its dapp. The driver sees a write-buffer
// over the state db; the buffer is flushed in a single batch on success and
// discarded on error, so a failed transition leaves no partial writes.
func (e *Executor) Exec(tx *types.Transaction) (*types.Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	driver, ok := e.drivers[tx.Execer]
	if !ok {
		return nil, types.ErrExecerNotExist
	}

	e.height++
	blocktime := e.clock()

	cache := newStateCache(e.statedb)
	driver.SetStateDB(cache)
	driver.SetLocalDB(e.statedb)
	driver.SetCoinsAccount(account.NewCoinsAccount(cache))
	driver.SetQueueClient(e.qclient)
	driver.SetChainID(e.chainID)
	driver.SetEnv(e.height, blocktime)

	receipt, err := driver.Exec(tx)
	if err != nil {
		e.height--
		return nil, errors.Wrapf(err, "exec %s.%s", tx.Execer, tx.Action)
	}
	if err := cache.Commit(); err != nil {
		e.height--
		return nil, errors.Wrap(err, "commit state")
	}
	return receipt, nil
}

// Query runs a read-only dapp query against committed state.
func (e *Executor) Query(execer, funcName string, params []byte) (types.Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	driver, ok := e.drivers[execer]
	if !ok {
		return nil, types.ErrExecerNotExist
	}
	driver.SetStateDB(e.statedb)
	driver.SetLocalDB(e.statedb)
	driver.SetCoinsAccount(account.NewCoinsAccount(e.statedb))
	driver.SetQueueClient(e.qclient)
	driver.SetChainID(e.chainID)
	driver.SetEnv(e.height, e.clock())
	return driver.Query(funcName, params)
}

// Start drains the chain's cross-chain inbox. Failures of delivered
// transactions are logged and swallowed: the sending chain has already
// committed its half and cannot roll back.
func (e *Executor) Start() {
	if e.qclient == nil {
		return
	}
	recv := e.qclient.Sub(e.chainID)
	go func() {
		for {
			select {
			case msg, ok := <-recv:
				if !ok {
					return
				}
				e.process(msg)
			case <-e.done:
				return
			}
		}
	}()
}

func (e *Executor) process(msg *queue.Message) {
	if msg.Ty != queue.TyTx {
		elog.Warn("unknown message type", "ty", msg.Ty, "id", msg.ID)
		return
	}
	var tx types.Transaction
	if err := types.Decode(msg.Data, &tx); err != nil {
		elog.Error("decode inbound tx", "id", msg.ID, "err", err)
		return
	}
	if _, err := e.Exec(&tx); err != nil {
		elog.Error("inbound tx failed", "execer", tx.Execer, "action", tx.Action, "err", err)
	}
}

func (e *Executor) Stop() {
	close(e.done)
}
