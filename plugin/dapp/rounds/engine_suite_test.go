package rounds

import (
	"testing"

	"github.com/stretchr/testify/suite"

	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
)

// EngineSuite runs stateful sequences against a fresh engine per test.
type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine(newTestKV(s.T()), "lottery")
}

func (s *EngineSuite) TestLifecycleStatuses() {
	_, _, err := s.engine.CreateRound(10, 1000)
	s.Require().NoError(err)
	_, _, _, err = s.engine.AddTickets("alice", 60, "")
	s.Require().NoError(err)

	round, err := s.engine.ActiveRound()
	s.Require().NoError(err)
	s.Equal(rty.RoundStatusActive, round.Status)

	closed, _, _, err := s.engine.CloseTicketRound(1100)
	s.Require().NoError(err)
	s.Equal(rty.RoundStatusClosed, closed.Status)

	for i := 0; i < 4; i++ {
		_, _, err := s.engine.DrawOne(closed.Id, uint64(i), 1200)
		s.Require().NoError(err)
	}
	done, err := s.engine.GetRound(closed.Id)
	s.Require().NoError(err)
	s.Equal(rty.RoundStatusComplete, done.Status)
}

func (s *EngineSuite) TestCloseKeepsStakesReadable() {
	_, _, err := s.engine.CreateRound(10, 1000)
	s.Require().NoError(err)
	_, _, _, err = s.engine.AddTickets("alice", 40, "")
	s.Require().NoError(err)
	_, _, _, err = s.engine.CloseTicketRound(1100)
	s.Require().NoError(err)

	stake, err := s.engine.GetStake(1, "alice")
	s.Require().NoError(err)
	s.Equal(int64(4), stake.TicketCount)

	// the successor round has no stakes yet
	_, err = s.engine.GetStake(2, "alice")
	s.Equal(rty.ErrStakeNotFound, err)
}

func (s *EngineSuite) TestDrawAdvancesTiersInOrder() {
	_, _, err := s.engine.CreateRound(1, 1000)
	s.Require().NoError(err)
	_, _, _, err = s.engine.AddTickets("alice", 100, "")
	s.Require().NoError(err)
	closed, _, _, err := s.engine.CloseTicketRound(1100)
	s.Require().NoError(err)
	s.Equal([4]int64{15, 7, 5, 3}, closed.TierQuota)

	drawn := 0
	for tier := 1; tier <= 4; tier++ {
		for i := int64(0); i < closed.TierQuota[tier-1]; i++ {
			winner, _, err := s.engine.DrawOne(closed.Id, uint64(drawn*31), 1200)
			s.Require().NoError(err)
			s.Equal(int32(tier), winner.Tier)
			drawn++
		}
	}
	s.Equal(30, drawn)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
