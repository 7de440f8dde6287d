// Package executor implements the binary up/down prediction market: bets
// accumulate into side pools while a round is active, the round closes at a
// recorded price, and resolution against a later price pays the winning side
// proportional shares of the whole pool.
package executor

import (
	log "github.com/inconshreveable/log15"

	bty "github.com/winzalabs/winzachain/plugin/dapp/leaderboard/types"
	pty "github.com/winzalabs/winzachain/plugin/dapp/prediction/types"
	"github.com/winzalabs/winzachain/plugin/dapp/rounds"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/queue"
	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var plog = log.New("module", "execs.prediction")

func init() {
	drivers.Register(pty.PredictionX, newPrediction)
}

type Prediction struct {
	drivers.DriverBase
}

func newPrediction() drivers.Driver {
	p := &Prediction{}
	p.SetChild(p)
	return p
}

func (p *Prediction) GetDriverName() string {
	return pty.PredictionX
}

func (p *Prediction) engine() *rounds.Engine {
	return rounds.NewEngine(p.GetStateDB(), pty.PredictionX)
}

func (p *Prediction) settler() *rounds.Settler {
	return &rounds.Settler{
		Engine:  p.engine(),
		Acc:     p.GetCoinsAccount(),
		Queue:   p.GetQueueClient(),
		ChainID: p.GetChainID(),
		Execer:  pty.PredictionX,
	}
}

func (p *Prediction) Exec(tx *types.Transaction) (*types.Receipt, error) {
	switch tx.Action {
	case "Create":
		return p.execCreate()
	case "Bet":
		var payload pty.PredictionBet
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return p.execBet(tx.From, &payload)
	case "Close":
		var payload pty.PredictionClose
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return p.execClose(&payload)
	case "Resolve":
		var payload pty.PredictionResolve
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return p.execResolve(&payload)
	case "SettleCredit":
		var payload rty.SettleCredit
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		kv, logs, err := p.settler().HandleCredit(&payload)
		if err != nil {
			return nil, err
		}
		return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
	case "SettleAck":
		var payload rty.SettleAck
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		kv, logs, err := p.settler().HandleAck(&payload)
		if err != nil {
			return nil, err
		}
		return &types.Receipt{Ty: types.ExecOk, KV: kv, Logs: logs}, nil
	}
	return nil, types.ErrActionNotExist
}

func (p *Prediction) execCreate() (*types.Receipt, error) {
	round, kvset, err := p.engine().CreateRound(0, p.GetBlockTime())
	if err != nil {
		return nil, err
	}
	plog.Info("round created", "round", round.Id)
	logs := []*types.ReceiptLog{{Ty: rty.TyLogRoundCreate, Log: types.Encode(round)}}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

func (p *Prediction) execBet(owner string, payload *pty.PredictionBet) (*types.Receipt, error) {
	if !types.CheckAmount(payload.Amount) {
		return nil, types.ErrAmount
	}
	host := pty.GetHostChain()
	if host != "" && host != p.GetChainID() && payload.OriginChain == "" {
		return p.relayBet(owner, payload, host)
	}

	acc := p.GetCoinsAccount()
	var fund *types.Receipt
	var err error
	if payload.OriginChain != "" && payload.OriginChain != p.GetChainID() {
		fund, err = acc.Deposit(drivers.ExecAddress(pty.PredictionX), payload.Amount)
	} else {
		fund, err = acc.Transfer(owner, drivers.ExecAddress(pty.PredictionX), payload.Amount)
	}
	if err != nil {
		return nil, err
	}

	round, stake, kvset, err := p.engine().AddBet(owner, payload.Amount, payload.Side, payload.OriginChain)
	if err != nil {
		return nil, err
	}
	plog.Info("bet placed", "round", round.Id, "owner", owner, "side", payload.Side,
		"amount", payload.Amount, "origin", payload.OriginChain)

	kvset = append(fund.KV, kvset...)
	logs := append(fund.Logs, &types.ReceiptLog{Ty: rty.TyLogStake, Log: types.Encode(stake)})
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

func (p *Prediction) relayBet(owner string, payload *pty.PredictionBet, host string) (*types.Receipt, error) {
	receipt, err := p.GetCoinsAccount().Debit(owner, payload.Amount)
	if err != nil {
		return nil, err
	}
	relayed := &pty.PredictionBet{Amount: payload.Amount, Side: payload.Side, OriginChain: p.GetChainID()}
	tx := &types.Transaction{
		Execer:  pty.PredictionX,
		Action:  "Bet",
		Payload: types.Encode(relayed),
		From:    owner,
	}
	if err := p.GetQueueClient().Send(queue.NewTxMessage(host, tx)); err != nil {
		return nil, err
	}
	plog.Info("bet relayed", "owner", owner, "amount", payload.Amount, "host", host)
	receipt.Logs = append(receipt.Logs, &types.ReceiptLog{Ty: rty.TyLogRelay, Log: types.Encode(relayed)})
	return receipt, nil
}

func (p *Prediction) execClose(payload *pty.PredictionClose) (*types.Receipt, error) {
	closed, next, kvset, err := p.engine().CloseBinaryRound(payload.ClosingPrice, p.GetBlockTime())
	if err != nil {
		return nil, err
	}
	plog.Info("round closed", "round", closed.Id, "price", payload.ClosingPrice,
		"pool", closed.Pool, "next", next.Id)
	logs := []*types.ReceiptLog{
		{Ty: rty.TyLogRoundClose, Log: types.Encode(closed)},
		{Ty: rty.TyLogRoundCreate, Log: types.Encode(next)},
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

// execResolve produces every winner assignment in one pass, settles each, and
// emits a leaderboard delta for every staking owner.
func (p *Prediction) execResolve(payload *pty.PredictionResolve) (*types.Receipt, error) {
	engine := p.engine()
	winners, kvset, err := engine.ResolveBinary(payload.RoundId, payload.ResolutionPrice, p.GetBlockTime())
	if err != nil {
		return nil, err
	}
	plog.Info("round resolved", "round", payload.RoundId,
		"price", payload.ResolutionPrice, "winners", len(winners))

	var logs []*types.ReceiptLog
	settler := p.settler()
	payouts := make(map[string]int64)
	for _, winner := range winners {
		logs = append(logs, &types.ReceiptLog{Ty: rty.TyLogWinner, Log: types.Encode(winner)})
		settleKV, settleLogs, err := settler.Settle(winner)
		if err != nil {
			return nil, err
		}
		kvset = append(kvset, settleKV...)
		logs = append(logs, settleLogs...)
		payouts[winner.Owner] = winner.Prize
	}

	for _, owner := range engine.Owners(payload.RoundId) {
		stake, err := engine.GetStake(payload.RoundId, owner)
		if err != nil {
			continue
		}
		p.sendScore(owner, stake, payouts[owner])
	}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

// sendScore emits one net profit/loss delta. Failures are logged and
// swallowed: the leaderboard is a pure sink and never fails a settlement.
func (p *Prediction) sendScore(owner string, stake *rty.StakeRecord, payout int64) {
	update := &bty.UpdateScore{Owner: owner, ChainID: p.GetChainID()}
	if stake.OriginChain != "" {
		update.ChainID = stake.OriginChain
	}
	if profit := payout - stake.Amount; profit >= 0 && payout > 0 {
		update.IsWin = true
		update.Amount = profit
	} else {
		update.Amount = stake.Amount - payout
	}

	cli := p.GetQueueClient()
	if cli == nil {
		plog.Warn("score update dropped, no queue", "owner", owner)
		return
	}
	dest := pty.GetLeaderboardChain()
	if dest == "" {
		dest = p.GetChainID()
	}
	tx := &types.Transaction{
		Execer:  bty.LeaderboardX,
		Action:  "UpdateScore",
		Payload: types.Encode(update),
		From:    drivers.ExecAddress(pty.PredictionX),
	}
	if err := cli.Send(queue.NewTxMessage(dest, tx)); err != nil {
		plog.Error("score update send failed", "owner", owner, "dest", dest, "err", err)
	}
}
