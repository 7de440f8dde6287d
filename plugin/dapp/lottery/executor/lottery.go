// Package executor implements the tiered ticket lottery: fixed-price ticket
// sales into a shared pool, four winner tiers drawn after close, payouts
// routed back to each winner's origin chain.
package executor

import (
	log "github.com/inconshreveable/log15"

	lty "github.com/winzalabs/winzachain/plugin/dapp/lottery/types"
	"github.com/winzalabs/winzachain/plugin/dapp/rounds"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/queue"
	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var llog = log.New("module", "execs.lottery")

func init() {
	drivers.Register(lty.LotteryX, newLottery)
}

type Lottery struct {
	drivers.DriverBase
}

func newLottery() drivers.Driver {
	l := &Lottery{}
	l.SetChild(l)
	return l
}

func (l *Lottery) GetDriverName() string {
	return lty.LotteryX
}

func (l *Lottery) engine() *rounds.Engine {
	return rounds.NewEngine(l.GetStateDB(), lty.LotteryX)
}

func (l *Lottery) settler() *rounds.Settler {
	return &rounds.Settler{
		Engine:  l.engine(),
		Acc:     l.GetCoinsAccount(),
		Queue:   l.GetQueueClient(),
		ChainID: l.GetChainID(),
		Execer:  lty.LotteryX,
	}
}

func (l *Lottery) Exec(tx *types.Transaction) (*types.Receipt, error) {
	switch tx.Action {
	case "Create":
		var payload lty.LotteryCreate
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return l.execCreate(&payload)
	case "Buy":
		var payload lty.LotteryBuy
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return l.execBuy(tx.From, &payload)
	case "Close":
		return l.execClose()
	case "Draw":
		var payload lty.LotteryDraw
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return l.execDraw(&payload)
	case "SettleCredit":
		var payload rty.SettleCredit
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		kv, logs, err := l.settler().HandleCredit(&payload)
		if err != nil {
			return nil, err
		}
		return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
	case "SettleAck":
		var payload rty.SettleAck
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		kv, logs, err := l.settler().HandleAck(&payload)
		if err != nil {
			return nil, err
		}
		return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
	}
	return nil, types.ErrActionNotExist
}

func (l *Lottery) execCreate(payload *lty.LotteryCreate) (*types.Receipt, error) {
	if payload.TicketPrice <= 0 {
		return nil, types.ErrInvalidParam
	}
	round, kvset, err := l.engine().CreateRound(payload.TicketPrice, l.GetBlockTime())
	if err != nil {
		return nil, err
	}
	llog.Info("round created", "round", round.Id, "price", payload.TicketPrice)
	logs := []*types.ReceiptLog{{Ty: rty.TyLogRoundCreate, Log: types.Encode(round)}}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

// execBuy either relays the purchase to the hosting chain or records it
// locally. A relayed purchase debits the buyer here; the value travels with
// the authenticated message and is deposited into the pool on arrival.
func (l *Lottery) execBuy(owner string, payload *lty.LotteryBuy) (*types.Receipt, error) {
	if !types.CheckAmount(payload.Amount) {
		return nil, types.ErrAmount
	}
	host := lty.GetHostChain()
	if host != "" && host != l.GetChainID() && payload.OriginChain == "" {
		return l.relayBuy(owner, payload, host)
	}

	acc := l.GetCoinsAccount()
	var fund *types.Receipt
	var err error
	if payload.OriginChain != "" && payload.OriginChain != l.GetChainID() {
		fund, err = acc.Deposit(drivers.ExecAddress(lty.LotteryX), payload.Amount)
	} else {
		fund, err = acc.Transfer(owner, drivers.ExecAddress(lty.LotteryX), payload.Amount)
	}
	if err != nil {
		return nil, err
	}

	round, stake, kvset, err := l.engine().AddTickets(owner, payload.Amount, payload.OriginChain)
	if err != nil {
		return nil, err
	}
	llog.Info("tickets bought", "round", round.Id, "owner", owner,
		"amount", payload.Amount, "tickets", stake.TicketCount, "origin", payload.OriginChain)

	kvset = append(fund.KV, kvset...)
	logs := append(fund.Logs, &types.ReceiptLog{Ty: rty.TyLogStake, Log: types.Encode(stake)})
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

func (l *Lottery) relayBuy(owner string, payload *lty.LotteryBuy, host string) (*types.Receipt, error) {
	receipt, err := l.GetCoinsAccount().Debit(owner, payload.Amount)
	if err != nil {
		return nil, err
	}
	relayed := &lty.LotteryBuy{Amount: payload.Amount, OriginChain: l.GetChainID()}
	tx := &types.Transaction{
		Execer:  lty.LotteryX,
		Action:  "Buy",
		Payload: types.Encode(relayed),
		From:    owner,
	}
	if err := l.GetQueueClient().Send(queue.NewTxMessage(host, tx)); err != nil {
		return nil, err
	}
	llog.Info("buy relayed", "owner", owner, "amount", payload.Amount, "host", host)
	receipt.Logs = append(receipt.Logs, &types.ReceiptLog{Ty: rty.TyLogRelay, Log: types.Encode(relayed)})
	return receipt, nil
}

func (l *Lottery) execClose() (*types.Receipt, error) {
	closed, next, kvset, err := l.engine().CloseTicketRound(l.GetBlockTime())
	if err != nil {
		return nil, err
	}
	llog.Info("round closed", "round", closed.Id, "tickets", closed.TicketsSold,
		"pool", closed.Pool, "next", next.Id)
	logs := []*types.ReceiptLog{
		{Ty: rty.TyLogRoundClose, Log: types.Encode(closed)},
		{Ty: rty.TyLogRoundCreate, Log: types.Encode(next)},
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

func (l *Lottery) execDraw(payload *lty.LotteryDraw) (*types.Receipt, error) {
	seed := rounds.DrawSeed(l.GetBlockTime(), l.GetHeight())
	winner, kvset, err := l.engine().DrawOne(payload.RoundId, seed, l.GetBlockTime())
	if err != nil {
		return nil, err
	}
	llog.Info("winner drawn", "round", payload.RoundId, "tier", winner.Tier,
		"ticket", winner.Ticket, "owner", winner.Owner, "prize", winner.Prize)

	settleKV, settleLogs, err := l.settler().Settle(winner)
	if err != nil {
		return nil, err
	}
	kvset = append(kvset, settleKV...)
	logs := append([]*types.ReceiptLog{{Ty: rty.TyLogWinner, Log: types.Encode(winner)}}, settleLogs...)
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}
