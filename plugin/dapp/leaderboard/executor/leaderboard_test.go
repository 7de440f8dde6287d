package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "github.com/winzalabs/winzachain/common/db"
	exec "github.com/winzalabs/winzachain/executor"
	bty "github.com/winzalabs/winzachain/plugin/dapp/leaderboard/types"
	"github.com/winzalabs/winzachain/types"
)

func updateTx(payload *bty.UpdateScore) *types.Transaction {
	return &types.Transaction{
		Execer:  bty.LeaderboardX,
		Action:  "UpdateScore",
		Payload: types.Encode(payload),
		From:    "exec-prediction",
	}
}

func TestScoreTally(t *testing.T) {
	e := exec.New("main", dbm.NewDB("exec", dbm.MemDBBackendStr, "", 0), nil)

	_, err := e.Exec(updateTx(&bty.UpdateScore{Owner: "alice", ChainID: "main", IsWin: true, Amount: 80}))
	require.NoError(t, err)
	_, err = e.Exec(updateTx(&bty.UpdateScore{Owner: "alice", ChainID: "main", Amount: 30}))
	require.NoError(t, err)
	_, err = e.Exec(updateTx(&bty.UpdateScore{Owner: "alice", ChainID: "para", IsWin: true, Amount: 10}))
	require.NoError(t, err)

	reply, err := e.Query(bty.LeaderboardX, "GetScore",
		types.Encode(&bty.ReqScore{Owner: "alice", ChainID: "main"}))
	require.NoError(t, err)
	score := reply.(*bty.Score)
	assert.Equal(t, int64(1), score.Wins)
	assert.Equal(t, int64(1), score.Losses)
	assert.Equal(t, int64(50), score.Net)

	// per-chain tallies stay separate
	reply, err = e.Query(bty.LeaderboardX, "ListScores", nil)
	require.NoError(t, err)
	assert.Len(t, reply.(*bty.ReplyScores).Scores, 2)
}

func TestScoreMissing(t *testing.T) {
	e := exec.New("main", dbm.NewDB("exec", dbm.MemDBBackendStr, "", 0), nil)
	_, err := e.Query(bty.LeaderboardX, "GetScore",
		types.Encode(&bty.ReqScore{Owner: "nobody", ChainID: "main"}))
	assert.Equal(t, types.ErrNotFound, err)
}
