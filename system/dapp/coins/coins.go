// Package coins is the native-asset executor: plain transfers, deposits
// applied from authenticated cross-chain instructions, and balance queries.
package coins

import (
	log "github.com/inconshreveable/log15"

	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var clog = log.New("module", "execs.coins")

const CoinsX = "coins"

func init() {
	drivers.Register(CoinsX, newCoins)
}

type Coins struct {
	drivers.DriverBase
}

func newCoins() drivers.Driver {
	c := &Coins{}
	c.SetChild(c)
	return c
}

func (c *Coins) GetDriverName() string {
	return CoinsX
}

func (c *Coins) Exec(tx *types.Transaction) (*types.Receipt, error) {
	switch tx.Action {
	case "Transfer":
		var payload CoinsTransfer
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return c.GetCoinsAccount().Transfer(tx.From, payload.To, payload.Amount)
	case "Claim":
		var payload CoinsClaim
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return c.GetCoinsAccount().Claim(payload.Source, tx.From, payload.Amount)
	case "Deposit":
		var payload CoinsDeposit
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		clog.Debug("Deposit", "addr", payload.Addr, "amount", payload.Amount)
		return c.GetCoinsAccount().Deposit(payload.Addr, payload.Amount)
	}
	return nil, types.ErrActionNotExist
}

func (c *Coins) Query_GetBalance(params []byte) (types.Message, error) {
	var req ReqBalance
	if err := types.Decode(params, &req); err != nil {
		return nil, err
	}
	return &ReplyBalance{
		Addr:    req.Addr,
		Balance: c.GetCoinsAccount().Balance(req.Addr),
	}, nil
}
