// Package types holds the round-engine state records shared by the lottery
// and prediction dapps.
package types

// Round statuses. A lottery round keeps status Closed while its tier cursor
// walks 1..4; Complete is terminal for both variants.
const (
	RoundStatusActive   = int32(1)
	RoundStatusClosed   = int32(2)
	RoundStatusComplete = int32(3)
)

const (
	// TierCount is the number of winner tiers in a ticket lottery round.
	TierCount = 4
	// MinTicketsToClose is the participation floor for closing a lottery round.
	MinTicketsToClose = 4
	// MaxHistoryRounds is the retention window; older rounds are purged when a
	// new round is created, unless they still carry pending settlements.
	MaxHistoryRounds = 5
)

// TicketShare sizes each tier's winner quota as a percentage of tickets sold.
// PrizeShare sizes each tier's slice of the pool. The two scales are
// independent and neither needs to sum to 100.
var (
	TicketShare = [TierCount]int64{15, 7, 5, 3}
	PrizeShare  = [TierCount]int64{20, 25, 30, 25}
)

// Prediction sides and round results.
const (
	SideNone = int32(0)
	SideUp   = int32(1)
	SideDown = int32(2)
)

// Receipt log types.
const (
	TyLogRoundCreate = 701
	TyLogStake       = 702
	TyLogRoundClose  = 703
	TyLogWinner      = 704
	TyLogSettle      = 705
	TyLogRoundPurge  = 706
	TyLogRelay       = 707
)

// Round is one betting epoch. Ids are monotonic and never reused. Lottery
// rounds use TicketPrice/TicketsSold/NextTicket and the tier arrays;
// prediction rounds use the price and side fields.
type Round struct {
	Id         int64 `json:"id"`
	CreatedAt  int64 `json:"createdAt"`
	ClosedAt   int64 `json:"closedAt,omitempty"`
	ResolvedAt int64 `json:"resolvedAt,omitempty"`
	Status     int32 `json:"status"`

	TicketPrice int64 `json:"ticketPrice,omitempty"`
	Pool        int64 `json:"pool"`
	TicketsSold int64 `json:"ticketsSold,omitempty"`
	NextTicket  int64 `json:"nextTicket,omitempty"`

	CurrentTier int32            `json:"currentTier,omitempty"`
	TierQuota   [TierCount]int64 `json:"tierQuota"`
	TierDrawn   [TierCount]int64 `json:"tierDrawn"`

	ClosingPrice    int64 `json:"closingPrice,omitempty"`
	ResolutionPrice int64 `json:"resolutionPrice,omitempty"`
	UpCount         int64 `json:"upCount,omitempty"`
	DownCount       int64 `json:"downCount,omitempty"`
	UpPool          int64 `json:"upPool,omitempty"`
	DownPool        int64 `json:"downPool,omitempty"`
	Result          int32 `json:"result,omitempty"`
}

// TicketRange is one contiguous block of ticket numbers assigned by a single
// purchase. Repeat purchases by the same owner append ranges.
type TicketRange struct {
	First int64 `json:"first"`
	Last  int64 `json:"last"`
}

// StakeRecord is one owner's commitment in one round. At most one exists per
// (round, owner); repeat stakes merge additively.
type StakeRecord struct {
	RoundId     int64          `json:"roundId"`
	Owner       string         `json:"owner"`
	Amount      int64          `json:"amount"`
	Ranges      []*TicketRange `json:"ranges,omitempty"`
	TicketCount int64          `json:"ticketCount,omitempty"`
	AmountUp    int64          `json:"amountUp,omitempty"`
	AmountDown  int64          `json:"amountDown,omitempty"`
	OriginChain string         `json:"originChain,omitempty"`
	Settled     bool           `json:"settled,omitempty"`
}

// TicketIndex maps one ticket number back to its owner for O(1) winner
// lookup at draw time.
type TicketIndex struct {
	RoundId int64  `json:"roundId"`
	Ticket  int64  `json:"ticket"`
	Owner   string `json:"owner"`
}

// StakeOwners lists every staking owner of a round, in first-stake order.
// Resolve and purge walk it instead of scanning the store.
type StakeOwners struct {
	RoundId int64    `json:"roundId"`
	Owners  []string `json:"owners"`
}

// WinnerAssignment is one payout obligation. Key is the ticket number
// (lottery) or the owner (prediction); each key wins at most once per round.
type WinnerAssignment struct {
	RoundId     int64  `json:"roundId"`
	Key         string `json:"key"`
	Ticket      int64  `json:"ticket,omitempty"`
	Tier        int32  `json:"tier,omitempty"`
	Owner       string `json:"owner"`
	Prize       int64  `json:"prize"`
	Settled     bool   `json:"settled"`
	OriginChain string `json:"originChain,omitempty"`
}

// PendingSettle counts a round's winner assignments awaiting a cross-chain
// settlement ack. A round with a nonzero count is never purged.
type PendingSettle struct {
	RoundId int64 `json:"roundId"`
	Count   int64 `json:"count"`
}

// RoundCount is the monotonic id allocator.
type RoundCount struct {
	Total int64 `json:"total"`
}

// ActivePointer names the single accepting-stakes round, if any.
type ActivePointer struct {
	RoundId int64 `json:"roundId"`
}

// PurgeCursor is the next round id the retention sweep will consider. It
// stops at the first round it must keep, so a round skipped for pending
// settlements is retried on the next sweep.
type PurgeCursor struct {
	Next int64 `json:"next"`
}

// SettleCredit instructs the origin chain to credit a cross-chain winner.
type SettleCredit struct {
	RoundId     int64  `json:"roundId"`
	Key         string `json:"key"`
	Owner       string `json:"owner"`
	Prize       int64  `json:"prize"`
	SourceChain string `json:"sourceChain"`
}

// SettleAck confirms a SettleCredit back to the chain that ran settlement.
type SettleAck struct {
	RoundId int64  `json:"roundId"`
	Key     string `json:"key"`
}

// Shared query payloads.

type ReqRound struct {
	RoundId int64 `json:"roundId"`
}

type ReqUserStake struct {
	RoundId int64  `json:"roundId"`
	Addr    string `json:"addr"`
}

type ReplyRounds struct {
	Rounds []*Round `json:"rounds"`
}

type ReplyWinners struct {
	Winners []*WinnerAssignment `json:"winners"`
}
