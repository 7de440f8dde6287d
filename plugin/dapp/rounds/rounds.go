// Package rounds is the settlement engine shared by the lottery and
// prediction dapps: round lifecycle, stake ledger, winner selection, prize
// arithmetic, settlement relay and retention purge. The dapps own only their
// action dispatch and the strategy choices (tier drawing vs price
// resolution); everything that touches round state lives here.
package rounds

import (
	"fmt"

	log "github.com/inconshreveable/log15"

	dbm "github.com/winzalabs/winzachain/common/db"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/types"
)

var rlog = log.New("module", "execs.rounds")

// Engine runs one dapp's round state against a buffered KV. Every mutating
// method also returns the KeyValue set it wrote so callers can assemble
// receipts; a nil value in the set is a deletion.
type Engine struct {
	kv   dbm.KV
	name string
}

func NewEngine(kv dbm.KV, name string) *Engine {
	return &Engine{kv: kv, name: name}
}

func (e *Engine) prefix() string {
	return "mavl-" + e.name + "-"
}

// RoundKey has a fixed-width id so lexical order is numeric order.
func (e *Engine) RoundKey(id int64) []byte {
	return []byte(fmt.Sprintf("%sround-%018d", e.prefix(), id))
}

// RoundListPrefix bounds List calls to round records only.
func (e *Engine) RoundListPrefix() []byte {
	return []byte(e.prefix() + "round-")
}

func (e *Engine) activeKey() []byte {
	return []byte(e.prefix() + "active")
}

func (e *Engine) countKey() []byte {
	return []byte(e.prefix() + "count")
}

func (e *Engine) purgeKey() []byte {
	return []byte(e.prefix() + "purgecursor")
}

func (e *Engine) StakeKey(id int64, owner string) []byte {
	return []byte(fmt.Sprintf("%sstake-%018d-%s", e.prefix(), id, owner))
}

func (e *Engine) ownersKey(id int64) []byte {
	return []byte(fmt.Sprintf("%sowners-%018d", e.prefix(), id))
}

func (e *Engine) ticketKey(id, ticket int64) []byte {
	return []byte(fmt.Sprintf("%sticket-%018d-%018d", e.prefix(), id, ticket))
}

func (e *Engine) WinnerKey(id int64, key string) []byte {
	return []byte(fmt.Sprintf("%swinner-%018d-%s", e.prefix(), id, key))
}

// WinnerListPrefix bounds List calls to one round's winner assignments.
func (e *Engine) WinnerListPrefix(id int64) []byte {
	return []byte(fmt.Sprintf("%swinner-%018d-", e.prefix(), id))
}

func (e *Engine) pendingKey(id int64) []byte {
	return []byte(fmt.Sprintf("%spending-%018d", e.prefix(), id))
}

// TicketWinnerKey formats a ticket number as a winner-assignment key.
func TicketWinnerKey(ticket int64) string {
	return fmt.Sprintf("%018d", ticket)
}

func (e *Engine) setKV(kvset *[]*types.KeyValue, key []byte, msg types.Message) {
	value := types.Encode(msg)
	if err := e.kv.Set(key, value); err != nil {
		panic(err)
	}
	*kvset = append(*kvset, &types.KeyValue{Key: key, Value: value})
}

func (e *Engine) delKV(kvset *[]*types.KeyValue, key []byte) {
	if err := e.kv.Set(key, nil); err != nil {
		panic(err)
	}
	*kvset = append(*kvset, &types.KeyValue{Key: key})
}

func (e *Engine) GetRound(id int64) (*rty.Round, error) {
	value, err := e.kv.Get(e.RoundKey(id))
	if err != nil {
		return nil, rty.ErrRoundNotFound
	}
	var round rty.Round
	if err := types.Decode(value, &round); err != nil {
		return nil, err
	}
	return &round, nil
}

// ActiveRound loads the single accepting-stakes round.
func (e *Engine) ActiveRound() (*rty.Round, error) {
	value, err := e.kv.Get(e.activeKey())
	if err != nil {
		return nil, rty.ErrNoActiveRound
	}
	var ptr rty.ActivePointer
	if err := types.Decode(value, &ptr); err != nil {
		return nil, err
	}
	if ptr.RoundId == 0 {
		return nil, rty.ErrNoActiveRound
	}
	round, err := e.GetRound(ptr.RoundId)
	if err != nil {
		return nil, rty.ErrNoActiveRound
	}
	return round, nil
}

func (e *Engine) roundCount() int64 {
	value, err := e.kv.Get(e.countKey())
	if err != nil {
		return 0
	}
	var count rty.RoundCount
	if err := types.Decode(value, &count); err != nil {
		return 0
	}
	return count.Total
}

// CreateRound allocates the next id and makes it the active round. Creation
// always succeeds; any previously active round must already have been closed
// by the caller. As a maintenance side effect it sweeps rounds that fell out
// of the retention window.
func (e *Engine) CreateRound(ticketPrice, now int64) (*rty.Round, []*types.KeyValue, error) {
	var kvset []*types.KeyValue

	id := e.roundCount() + 1
	round := &rty.Round{
		Id:          id,
		CreatedAt:   now,
		Status:      rty.RoundStatusActive,
		TicketPrice: ticketPrice,
		NextTicket:  1,
	}
	e.setKV(&kvset, e.RoundKey(id), round)
	e.setKV(&kvset, e.countKey(), &rty.RoundCount{Total: id})
	e.setKV(&kvset, e.activeKey(), &rty.ActivePointer{RoundId: id})

	e.sweep(id, &kvset)
	return round, kvset, nil
}

// sweep purges rounds older than the retention window. The cursor stops at
// the first round it must keep, so a round held back by pending settlements
// is retried on the next sweep instead of being skipped forever.
func (e *Engine) sweep(newest int64, kvset *[]*types.KeyValue) {
	cursor := e.purgeCursor()
	next := cursor.Next
	for next <= newest-rty.MaxHistoryRounds {
		if !e.purgeRound(next, kvset) {
			break
		}
		next++
	}
	if next != cursor.Next {
		e.setKV(kvset, e.purgeKey(), &rty.PurgeCursor{Next: next})
	}
}

func (e *Engine) purgeCursor() *rty.PurgeCursor {
	value, err := e.kv.Get(e.purgeKey())
	if err != nil {
		return &rty.PurgeCursor{Next: 1}
	}
	var cursor rty.PurgeCursor
	if err := types.Decode(value, &cursor); err != nil {
		return &rty.PurgeCursor{Next: 1}
	}
	return &cursor
}

// purgeRound drops one round and its stake/ticket/winner sub-records.
// Returns false when the round must be kept.
func (e *Engine) purgeRound(id int64, kvset *[]*types.KeyValue) bool {
	round, err := e.GetRound(id)
	if err != nil {
		return true
	}
	if pending := e.PendingCount(id); pending > 0 {
		rlog.Warn("purge deferred", "name", e.name, "round", id, "pending", pending)
		return false
	}
	for ticket := int64(1); ticket < round.NextTicket; ticket++ {
		e.delKV(kvset, e.ticketKey(id, ticket))
		e.delKV(kvset, e.WinnerKey(id, TicketWinnerKey(ticket)))
	}
	for _, owner := range e.Owners(id) {
		e.delKV(kvset, e.StakeKey(id, owner))
		e.delKV(kvset, e.WinnerKey(id, owner))
	}
	e.delKV(kvset, e.ownersKey(id))
	e.delKV(kvset, e.pendingKey(id))
	e.delKV(kvset, e.RoundKey(id))
	rlog.Info("round purged", "name", e.name, "round", id)
	return true
}

// CloseTicketRound freezes the active lottery round, sizes the four tier
// quotas from tickets sold, and opens the successor round at the same price.
func (e *Engine) CloseTicketRound(now int64) (*rty.Round, *rty.Round, []*types.KeyValue, error) {
	round, err := e.ActiveRound()
	if err != nil {
		return nil, nil, nil, err
	}
	if round.TicketsSold < rty.MinTicketsToClose {
		return nil, nil, nil, rty.ErrInsufficientParticipation
	}

	for i := 0; i < rty.TierCount; i++ {
		quota := round.TicketsSold * rty.TicketShare[i] / 100
		// floor of one winner once enough tickets exist to support the tier
		if quota == 0 && round.TicketsSold > int64(i) {
			quota = 1
		}
		round.TierQuota[i] = quota
	}
	round.Status = rty.RoundStatusClosed
	round.ClosedAt = now
	round.CurrentTier = 1

	var kvset []*types.KeyValue
	e.setKV(&kvset, e.RoundKey(round.Id), round)

	next, createKV, err := e.CreateRound(round.TicketPrice, now)
	if err != nil {
		return nil, nil, nil, err
	}
	kvset = append(kvset, createKV...)
	return round, next, kvset, nil
}

// CloseBinaryRound freezes the active prediction round at the closing price
// and opens the successor round.
func (e *Engine) CloseBinaryRound(closingPrice, now int64) (*rty.Round, *rty.Round, []*types.KeyValue, error) {
	round, err := e.ActiveRound()
	if err != nil {
		return nil, nil, nil, err
	}
	round.Status = rty.RoundStatusClosed
	round.ClosedAt = now
	round.ClosingPrice = closingPrice

	var kvset []*types.KeyValue
	e.setKV(&kvset, e.RoundKey(round.Id), round)

	next, createKV, err := e.CreateRound(0, now)
	if err != nil {
		return nil, nil, nil, err
	}
	kvset = append(kvset, createKV...)
	return round, next, kvset, nil
}

// DrawOne selects and prices exactly one lottery winner, advancing the tier
// cursor when the current tier's quota fills. Completing tier four completes
// the round; if no round is accepting stakes afterwards a fresh one is opened
// at the same ticket price.
func (e *Engine) DrawOne(roundID int64, seed uint64, now int64) (*rty.WinnerAssignment, []*types.KeyValue, error) {
	round, err := e.GetRound(roundID)
	if err != nil {
		return nil, nil, err
	}
	if round.Status == rty.RoundStatusComplete {
		return nil, nil, rty.ErrAllWinnersDrawn
	}
	if round.Status != rty.RoundStatusClosed {
		return nil, nil, rty.ErrRoundNotClosed
	}
	tier := int(round.CurrentTier) - 1
	if tier < 0 || tier >= rty.TierCount || round.TierDrawn[tier] >= round.TierQuota[tier] {
		return nil, nil, rty.ErrTierAlreadyComplete
	}

	ticket, err := e.SampleTicket(roundID, seed, round.TicketsSold)
	if err != nil {
		return nil, nil, err
	}
	index, err := e.ticketOwner(roundID, ticket)
	if err != nil {
		return nil, nil, err
	}
	stake, err := e.GetStake(roundID, index.Owner)
	if err != nil {
		return nil, nil, err
	}

	winner := &rty.WinnerAssignment{
		RoundId:     roundID,
		Key:         TicketWinnerKey(ticket),
		Ticket:      ticket,
		Tier:        round.CurrentTier,
		Owner:       index.Owner,
		Prize:       TierWinnerPrize(round.Pool, tier, round.TierQuota[tier]),
		OriginChain: stake.OriginChain,
	}

	var kvset []*types.KeyValue
	e.setKV(&kvset, e.WinnerKey(roundID, winner.Key), winner)

	round.TierDrawn[tier]++
	if round.TierDrawn[tier] >= round.TierQuota[tier] {
		if tier == rty.TierCount-1 {
			round.Status = rty.RoundStatusComplete
			round.ResolvedAt = now
		} else {
			round.CurrentTier++
		}
	}
	e.setKV(&kvset, e.RoundKey(roundID), round)

	if round.Status == rty.RoundStatusComplete {
		if _, err := e.ActiveRound(); err == rty.ErrNoActiveRound {
			_, createKV, err := e.CreateRound(round.TicketPrice, now)
			if err != nil {
				return nil, nil, err
			}
			kvset = append(kvset, createKV...)
		}
	}
	return winner, kvset, nil
}

// ResolveBinary settles a closed prediction round against the resolution
// price. An equal price yields no winners and forfeits the pool; the round
// still completes. Payouts are proportional shares of the entire pool, so
// winners get their own stake back as part of the share.
func (e *Engine) ResolveBinary(roundID, resolutionPrice, now int64) ([]*rty.WinnerAssignment, []*types.KeyValue, error) {
	round, err := e.GetRound(roundID)
	if err != nil {
		return nil, nil, err
	}
	if round.Status != rty.RoundStatusClosed {
		return nil, nil, rty.ErrRoundNotClosed
	}

	round.ResolutionPrice = resolutionPrice
	switch {
	case resolutionPrice > round.ClosingPrice:
		round.Result = rty.SideUp
	case resolutionPrice < round.ClosingPrice:
		round.Result = rty.SideDown
	default:
		round.Result = rty.SideNone
	}

	sidePool := int64(0)
	switch round.Result {
	case rty.SideUp:
		sidePool = round.UpPool
	case rty.SideDown:
		sidePool = round.DownPool
	}

	var winners []*rty.WinnerAssignment
	var kvset []*types.KeyValue
	if round.Result != rty.SideNone && sidePool > 0 {
		for _, owner := range e.Owners(roundID) {
			stake, err := e.GetStake(roundID, owner)
			if err != nil {
				return nil, nil, err
			}
			amount := stake.AmountUp
			if round.Result == rty.SideDown {
				amount = stake.AmountDown
			}
			if amount == 0 {
				continue
			}
			winner := &rty.WinnerAssignment{
				RoundId:     roundID,
				Key:         owner,
				Owner:       owner,
				Prize:       ProportionalPayout(amount, round.Pool, sidePool),
				OriginChain: stake.OriginChain,
			}
			e.setKV(&kvset, e.WinnerKey(roundID, owner), winner)
			winners = append(winners, winner)
		}
	}

	round.Status = rty.RoundStatusComplete
	round.ResolvedAt = now
	e.setKV(&kvset, e.RoundKey(roundID), round)
	return winners, kvset, nil
}

func (e *Engine) ticketOwner(roundID, ticket int64) (*rty.TicketIndex, error) {
	value, err := e.kv.Get(e.ticketKey(roundID, ticket))
	if err != nil {
		return nil, err
	}
	var index rty.TicketIndex
	if err := types.Decode(value, &index); err != nil {
		return nil, err
	}
	return &index, nil
}

// GetWinner loads one assignment by its selection key.
func (e *Engine) GetWinner(roundID int64, key string) (*rty.WinnerAssignment, error) {
	value, err := e.kv.Get(e.WinnerKey(roundID, key))
	if err != nil {
		return nil, types.ErrNotFound
	}
	var winner rty.WinnerAssignment
	if err := types.Decode(value, &winner); err != nil {
		return nil, err
	}
	return &winner, nil
}

func (e *Engine) hasWinner(roundID int64, key string) bool {
	_, err := e.kv.Get(e.WinnerKey(roundID, key))
	return err == nil
}

// Owners returns a round's staking owners in first-stake order.
func (e *Engine) Owners(roundID int64) []string {
	value, err := e.kv.Get(e.ownersKey(roundID))
	if err != nil {
		return nil
	}
	var owners rty.StakeOwners
	if err := types.Decode(value, &owners); err != nil {
		return nil
	}
	return owners.Owners
}

// PendingCount is the number of unacked cross-chain settlements of a round.
func (e *Engine) PendingCount(roundID int64) int64 {
	value, err := e.kv.Get(e.pendingKey(roundID))
	if err != nil {
		return 0
	}
	var pending rty.PendingSettle
	if err := types.Decode(value, &pending); err != nil {
		return 0
	}
	return pending.Count
}

func (e *Engine) addPending(roundID, delta int64, kvset *[]*types.KeyValue) {
	count := e.PendingCount(roundID) + delta
	if count < 0 {
		count = 0
	}
	e.setKV(kvset, e.pendingKey(roundID), &rty.PendingSettle{RoundId: roundID, Count: count})
}
