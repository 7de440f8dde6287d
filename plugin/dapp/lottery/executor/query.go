package executor

import (
	dbm "github.com/winzalabs/winzachain/common/db"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/types"
)

func (l *Lottery) Query_GetRound(params []byte) (types.Message, error) {
	var req rty.ReqRound
	if err := types.Decode(params, &req); err != nil {
		return nil, err
	}
	return l.engine().GetRound(req.RoundId)
}

func (l *Lottery) Query_GetActiveRound(params []byte) (types.Message, error) {
	return l.engine().ActiveRound()
}

func (l *Lottery) Query_GetAllRounds(params []byte) (types.Message, error) {
	values, err := l.GetLocalDB().List(l.engine().RoundListPrefix(), nil, 0, dbm.ListASC)
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplyRounds{}
	for _, value := range values {
		var round rty.Round
		if err := types.Decode(value, &round); err != nil {
			return nil, err
		}
		reply.Rounds = append(reply.Rounds, &round)
	}
	return reply, nil
}

func (l *Lottery) Query_GetRoundWinners(params []byte) (types.Message, error) {
	var req rty.ReqRound
	if err := types.Decode(params, &req); err != nil {
		return nil, err
	}
	values, err := l.GetLocalDB().List(l.engine().WinnerListPrefix(req.RoundId), nil, 0, dbm.ListASC)
	if err != nil {
		return nil, err
	}
	reply := &rty.ReplyWinners{}
	for _, value := range values {
		var winner rty.WinnerAssignment
		if err := types.Decode(value, &winner); err != nil {
			return nil, err
		}
		reply.Winners = append(reply.Winners, &winner)
	}
	return reply, nil
}

func (l *Lottery) Query_GetUserStake(params []byte) (types.Message, error) {
	var req rty.ReqUserStake
	if err := types.Decode(params, &req); err != nil {
		return nil, err
	}
	return l.engine().GetStake(req.RoundId, req.Addr)
}
