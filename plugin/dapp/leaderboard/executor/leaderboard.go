// Package executor implements the leaderboard sink: it tallies
// post-settlement win/loss deltas per (owner, chain) pair. Pure sink, no
// response flows back to the sender.
package executor

import (
	"fmt"

	log "github.com/inconshreveable/log15"

	dbm "github.com/winzalabs/winzachain/common/db"
	bty "github.com/winzalabs/winzachain/plugin/dapp/leaderboard/types"
	drivers "github.com/winzalabs/winzachain/system/dapp"
	"github.com/winzalabs/winzachain/types"
)

var blog = log.New("module", "execs.leaderboard")

const scorePrefix = "mavl-leaderboard-score-"

func init() {
	drivers.Register(bty.LeaderboardX, newLeaderboard)
}

type Leaderboard struct {
	drivers.DriverBase
}

func newLeaderboard() drivers.Driver {
	b := &Leaderboard{}
	b.SetChild(b)
	return b
}

func (b *Leaderboard) GetDriverName() string {
	return bty.LeaderboardX
}

func scoreKey(owner, chainID string) []byte {
	return []byte(fmt.Sprintf("%s%s-%s", scorePrefix, owner, chainID))
}

func (b *Leaderboard) loadScore(owner, chainID string) *bty.Score {
	value, err := b.GetStateDB().Get(scoreKey(owner, chainID))
	if err != nil {
		return &bty.Score{Owner: owner, ChainID: chainID}
	}
	var score bty.Score
	if err := types.Decode(value, &score); err != nil {
		return &bty.Score{Owner: owner, ChainID: chainID}
	}
	return &score
}

func (b *Leaderboard) Exec(tx *types.Transaction) (*types.Receipt, error) {
	switch tx.Action {
	case "UpdateScore":
		var payload bty.UpdateScore
		if err := types.Decode(tx.Payload, &payload); err != nil {
			return nil, err
		}
		return b.execUpdate(&payload)
	}
	return nil, types.ErrActionNotExist
}

func (b *Leaderboard) execUpdate(payload *bty.UpdateScore) (*types.Receipt, error) {
	if payload.Owner == "" {
		return nil, types.ErrInvalidParam
	}
	score := b.loadScore(payload.Owner, payload.ChainID)
	if payload.IsWin {
		score.Wins++
		score.Net += payload.Amount
	} else {
		score.Losses++
		score.Net -= payload.Amount
	}

	key := scoreKey(payload.Owner, payload.ChainID)
	value := types.Encode(score)
	if err := b.GetStateDB().Set(key, value); err != nil {
		return nil, err
	}
	blog.Debug("score updated", "owner", payload.Owner, "chain", payload.ChainID,
		"wins", score.Wins, "losses", score.Losses, "net", score.Net)

	kvset := []*types.KeyValue{{Key: key, Value: value}}
	logs := []*types.ReceiptLog{{Ty: bty.TyLogScore, Log: types.Encode(score)}}
	return &types.Receipt{Ty: types.ExecOk, KV: kvset, Logs: logs}, nil
}

func (b *Leaderboard) Query_GetScore(params []byte) (types.Message, error) {
	var req bty.ReqScore
	if err := types.Decode(params, &req); err != nil {
		return nil, err
	}
	value, err := b.GetStateDB().Get(scoreKey(req.Owner, req.ChainID))
	if err != nil {
		return nil, types.ErrNotFound
	}
	var score bty.Score
	if err := types.Decode(value, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

func (b *Leaderboard) Query_ListScores(params []byte) (types.Message, error) {
	values, err := b.GetLocalDB().List([]byte(scorePrefix), nil, 0, dbm.ListASC)
	if err != nil {
		return nil, err
	}
	reply := &bty.ReplyScores{}
	for _, value := range values {
		var score bty.Score
		if err := types.Decode(value, &score); err != nil {
			return nil, err
		}
		reply.Scores = append(reply.Scores, &score)
	}
	return reply, nil
}
