package rounds

import (
	log "github.com/inconshreveable/log15"

	"github.com/winzalabs/winzachain/account"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/queue"
	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var slog = log.New("module", "execs.settle")

// Settler routes winner payouts. A winner whose stake originated on this
// chain is paid in the same transition; a cross-chain winner gets a credit
// instruction sent to the origin chain and stays pending until the ack
// comes back.
type Settler struct {
	Engine  *Engine
	Acc     *account.DB
	Queue   queue.Client
	ChainID string
	Execer  string
}

func (s *Settler) poolAddr() string {
	return drivers.ExecAddress(s.Execer)
}

// Settle discharges one assignment. Local transfer failures abort the
// transition; a failed send of the cross-chain instruction is logged and
// swallowed because the pool debit has already happened and the delivery
// layer gives no stronger guarantee.
func (s *Settler) Settle(winner *rty.WinnerAssignment) ([]*types.KeyValue, []*types.ReceiptLog, error) {
	var kvset []*types.KeyValue
	var logs []*types.ReceiptLog

	if winner.Prize <= 0 {
		winner.Settled = true
		s.Engine.setKV(&kvset, s.Engine.WinnerKey(winner.RoundId, winner.Key), winner)
		return kvset, logs, nil
	}

	dest := winner.OriginChain
	if dest == "" || dest == s.ChainID {
		receipt, err := s.Acc.Transfer(s.poolAddr(), winner.Owner, winner.Prize)
		if err != nil {
			return nil, nil, err
		}
		kvset = append(kvset, receipt.KV...)
		logs = append(logs, receipt.Logs...)

		winner.Settled = true
		s.Engine.setKV(&kvset, s.Engine.WinnerKey(winner.RoundId, winner.Key), winner)
		s.markStakeSettled(winner, &kvset)
	} else {
		receipt, err := s.Acc.Debit(s.poolAddr(), winner.Prize)
		if err != nil {
			return nil, nil, err
		}
		kvset = append(kvset, receipt.KV...)
		logs = append(logs, receipt.Logs...)

		s.Engine.setKV(&kvset, s.Engine.WinnerKey(winner.RoundId, winner.Key), winner)
		s.Engine.addPending(winner.RoundId, 1, &kvset)

		credit := &rty.SettleCredit{
			RoundId:     winner.RoundId,
			Key:         winner.Key,
			Owner:       winner.Owner,
			Prize:       winner.Prize,
			SourceChain: s.ChainID,
		}
		tx := &types.Transaction{
			Execer:  s.Execer,
			Action:  "SettleCredit",
			Payload: types.Encode(credit),
			From:    s.poolAddr(),
		}
		if err := s.Queue.Send(queue.NewTxMessage(dest, tx)); err != nil {
			slog.Error("settle credit send failed", "round", winner.RoundId,
				"key", winner.Key, "dest", dest, "err", err)
		}
	}

	logs = append(logs, &types.ReceiptLog{Ty: rty.TyLogSettle, Log: types.Encode(winner)})
	return kvset, logs, nil
}

// HandleCredit runs on the destination chain: credit the winner and ack the
// source chain so it can mark the assignment settled.
func (s *Settler) HandleCredit(credit *rty.SettleCredit) ([]*types.KeyValue, []*types.ReceiptLog, error) {
	receipt, err := s.Acc.Deposit(credit.Owner, credit.Prize)
	if err != nil {
		return nil, nil, err
	}

	ack := &rty.SettleAck{RoundId: credit.RoundId, Key: credit.Key}
	tx := &types.Transaction{
		Execer:  s.Execer,
		Action:  "SettleAck",
		Payload: types.Encode(ack),
		From:    s.poolAddr(),
	}
	if err := s.Queue.Send(queue.NewTxMessage(credit.SourceChain, tx)); err != nil {
		slog.Error("settle ack send failed", "round", credit.RoundId,
			"key", credit.Key, "dest", credit.SourceChain, "err", err)
	}
	return receipt.KV, receipt.Logs, nil
}

// HandleAck marks a pending assignment settled. Redelivered acks are no-ops.
func (s *Settler) HandleAck(ack *rty.SettleAck) ([]*types.KeyValue, []*types.ReceiptLog, error) {
	winner, err := s.Engine.GetWinner(ack.RoundId, ack.Key)
	if err != nil {
		return nil, nil, err
	}
	var kvset []*types.KeyValue
	if winner.Settled {
		return kvset, nil, nil
	}
	winner.Settled = true
	s.Engine.setKV(&kvset, s.Engine.WinnerKey(ack.RoundId, ack.Key), winner)
	s.Engine.addPending(ack.RoundId, -1, &kvset)
	s.markStakeSettled(winner, &kvset)

	logs := []*types.ReceiptLog{{Ty: rty.TyLogSettle, Log: types.Encode(winner)}}
	return kvset, logs, nil
}

// markStakeSettled flags the owner's stake record when the assignment is the
// owner-keyed kind. Ticket-keyed assignments settle per ticket, not per
// stake.
func (s *Settler) markStakeSettled(winner *rty.WinnerAssignment, kvset *[]*types.KeyValue) {
	if winner.Key != winner.Owner {
		return
	}
	stake, err := s.Engine.GetStake(winner.RoundId, winner.Owner)
	if err != nil {
		return
	}
	stake.Settled = true
	s.Engine.setKV(kvset, s.Engine.StakeKey(winner.RoundId, winner.Owner), stake)
}
