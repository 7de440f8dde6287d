package rounds

import (
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/types"
)

// GetStake loads one owner's stake record in a round.
func (e *Engine) GetStake(roundID int64, owner string) (*rty.StakeRecord, error) {
	value, err := e.kv.Get(e.StakeKey(roundID, owner))
	if err != nil {
		return nil, rty.ErrStakeNotFound
	}
	var stake rty.StakeRecord
	if err := types.Decode(value, &stake); err != nil {
		return nil, err
	}
	return &stake, nil
}

// loadOrNewStake returns the owner's existing record or a fresh one,
// registering the owner in the round's owner list on first stake.
func (e *Engine) loadOrNewStake(roundID int64, owner, originChain string, kvset *[]*types.KeyValue) (*rty.StakeRecord, error) {
	stake, err := e.GetStake(roundID, owner)
	if err == nil {
		if stake.OriginChain == "" {
			stake.OriginChain = originChain
		}
		return stake, nil
	}
	if err != rty.ErrStakeNotFound {
		return nil, err
	}
	owners := append(e.Owners(roundID), owner)
	e.setKV(kvset, e.ownersKey(roundID), &rty.StakeOwners{RoundId: roundID, Owners: owners})
	return &rty.StakeRecord{RoundId: roundID, Owner: owner, OriginChain: originChain}, nil
}

// AddTickets converts amount into whole tickets at the round's fixed price
// and assigns the next contiguous range. The remainder of a non-exact
// division is retained: the pool is credited the full amount, not
// count*price. Repeat purchases append a range to the existing record.
func (e *Engine) AddTickets(owner string, amount int64, originChain string) (*rty.Round, *rty.StakeRecord, []*types.KeyValue, error) {
	round, err := e.ActiveRound()
	if err != nil {
		return nil, nil, nil, rty.ErrRoundNotActive
	}
	if round.TicketPrice <= 0 {
		return nil, nil, nil, types.ErrInvalidParam
	}
	count := amount / round.TicketPrice
	if count <= 0 {
		return nil, nil, nil, rty.ErrAmountTooSmall
	}

	var kvset []*types.KeyValue
	stake, err := e.loadOrNewStake(round.Id, owner, originChain, &kvset)
	if err != nil {
		return nil, nil, nil, err
	}

	first := round.NextTicket
	last := first + count - 1
	stake.Amount += amount
	stake.TicketCount += count
	stake.Ranges = append(stake.Ranges, &rty.TicketRange{First: first, Last: last})
	e.setKV(&kvset, e.StakeKey(round.Id, owner), stake)

	for ticket := first; ticket <= last; ticket++ {
		e.setKV(&kvset, e.ticketKey(round.Id, ticket),
			&rty.TicketIndex{RoundId: round.Id, Ticket: ticket, Owner: owner})
	}

	round.Pool += amount
	round.TicketsSold += count
	round.NextTicket = last + 1
	e.setKV(&kvset, e.RoundKey(round.Id), round)
	return round, stake, kvset, nil
}

// AddBet accumulates a prediction stake on one side. The side's participant
// count moves only on the zero-to-nonzero edge of that owner's bucket, so
// repeat bets on the same side never inflate it.
func (e *Engine) AddBet(owner string, amount int64, side int32, originChain string) (*rty.Round, *rty.StakeRecord, []*types.KeyValue, error) {
	round, err := e.ActiveRound()
	if err != nil {
		return nil, nil, nil, rty.ErrRoundNotActive
	}
	if amount <= 0 {
		return nil, nil, nil, rty.ErrAmountTooSmall
	}
	if side != rty.SideUp && side != rty.SideDown {
		return nil, nil, nil, types.ErrInvalidParam
	}

	var kvset []*types.KeyValue
	stake, err := e.loadOrNewStake(round.Id, owner, originChain, &kvset)
	if err != nil {
		return nil, nil, nil, err
	}

	switch side {
	case rty.SideUp:
		if stake.AmountUp == 0 {
			round.UpCount++
		}
		stake.AmountUp += amount
		round.UpPool += amount
	case rty.SideDown:
		if stake.AmountDown == 0 {
			round.DownCount++
		}
		stake.AmountDown += amount
		round.DownPool += amount
	}
	stake.Amount += amount
	round.Pool += amount

	e.setKV(&kvset, e.StakeKey(round.Id, owner), stake)
	e.setKV(&kvset, e.RoundKey(round.Id), round)
	return round, stake, kvset, nil
}
