package types

// LeaderboardX is the executor name.
const LeaderboardX = "leaderboard"

// TyLogScore tags score-update receipt logs.
const TyLogScore = 801

// UpdateScore is one post-settlement win/loss delta. Fire-and-forget: the
// sender never consumes a response.
type UpdateScore struct {
	Owner   string `json:"owner"`
	ChainID string `json:"chainId"`
	IsWin   bool   `json:"isWin"`
	Amount  int64  `json:"amount"`
}

// Score is the running tally for one (owner, chain) pair.
type Score struct {
	Owner   string `json:"owner"`
	ChainID string `json:"chainId"`
	Wins    int64  `json:"wins"`
	Losses  int64  `json:"losses"`
	Net     int64  `json:"net"`
}

type ReqScore struct {
	Owner   string `json:"owner"`
	ChainID string `json:"chainId"`
}

type ReplyScores struct {
	Scores []*Score `json:"scores"`
}
