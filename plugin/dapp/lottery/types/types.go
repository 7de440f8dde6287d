package types

import "sync"

// LotteryX is the executor name.
const LotteryX = "lottery"

var (
	hostMu    sync.RWMutex
	hostChain string
)

// SetHostChain names the chain whose round sequence is canonical. Purchases
// submitted on other chains are routed there. Empty means every chain hosts
// its own independent rounds.
func SetHostChain(chain string) {
	hostMu.Lock()
	defer hostMu.Unlock()
	hostChain = chain
}

func GetHostChain() string {
	hostMu.RLock()
	defer hostMu.RUnlock()
	return hostChain
}

// LotteryCreate opens a new round at a fixed ticket price.
type LotteryCreate struct {
	TicketPrice int64 `json:"ticketPrice"`
}

// LotteryBuy converts Amount into tickets. OriginChain is set by the relay
// when the purchase was submitted on a non-hosting chain.
type LotteryBuy struct {
	Amount      int64  `json:"amount"`
	OriginChain string `json:"originChain,omitempty"`
}

// LotteryClose freezes the active round and opens its successor.
type LotteryClose struct{}

// LotteryDraw selects one winner of a closed round.
type LotteryDraw struct {
	RoundId int64 `json:"roundId"`
}
