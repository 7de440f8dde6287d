package types

import "sync"

// PredictionX is the executor name.
const PredictionX = "prediction"

var (
	mu               sync.RWMutex
	hostChain        string
	leaderboardChain string
)

// SetHostChain names the chain whose round sequence is canonical; bets
// submitted elsewhere are routed there. Empty means every chain hosts its
// own rounds.
func SetHostChain(chain string) {
	mu.Lock()
	defer mu.Unlock()
	hostChain = chain
}

func GetHostChain() string {
	mu.RLock()
	defer mu.RUnlock()
	return hostChain
}

// SetLeaderboardChain names the chain hosting the leaderboard sink. Empty
// means the executing chain's own leaderboard.
func SetLeaderboardChain(chain string) {
	mu.Lock()
	defer mu.Unlock()
	leaderboardChain = chain
}

func GetLeaderboardChain() string {
	mu.RLock()
	defer mu.RUnlock()
	return leaderboardChain
}

// PredictionCreate opens a new round.
type PredictionCreate struct{}

// PredictionBet stakes Amount on one side of the active round.
type PredictionBet struct {
	Amount      int64  `json:"amount"`
	Side        int32  `json:"side"`
	OriginChain string `json:"originChain,omitempty"`
}

// PredictionClose freezes the active round at the closing price and opens
// its successor.
type PredictionClose struct {
	ClosingPrice int64 `json:"closingPrice"`
}

// PredictionResolve settles a closed round against the resolution price.
type PredictionResolve struct {
	RoundId         int64 `json:"roundId"`
	ResolutionPrice int64 `json:"resolutionPrice"`
}
