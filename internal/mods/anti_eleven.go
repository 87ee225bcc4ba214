package mods

import (
	"math/rand"

	"spades/internal/engine"
)

const AntiElevenID = "anti-eleven"

// AntiEleven occasionally blocks the 4th bidder from making the table's
// combined bid exactly 11. The disablement chance starts at zero, grows 10%
// after every round whose total bid lands on 11, and resets to zero once a
// disablement actually fires. If the table already sits at 11 or more before
// the 4th bid, no check is performed.
type AntiEleven struct {
	rng            *rand.Rand
	chance         float64
	rolled         bool
	suppress       bool
	firedThisRound bool
}

func NewAntiEleven(seed int64) *AntiEleven {
	return &AntiEleven{rng: rand.New(rand.NewSource(seed))}
}

func (*AntiEleven) ID() string   { return AntiElevenID }
func (*AntiEleven) Name() string { return "Anti-11" }
func (*AntiEleven) Description() string {
	return "Occasionally prevents the 4th bidder from making the table total equal 11."
}

func (m *AntiEleven) DisabledBids(ctx *DisabledBidsContext) {
	round := ctx.State.Round
	if round == nil || len(round.Bids) != 3 {
		return
	}
	tableBid := 0
	for _, b := range round.Bids {
		if !b.IsNil && !b.IsBlindNil {
			tableBid += b.Bid
		}
	}
	if tableBid >= 11 {
		return
	}
	completing := 11 - tableBid
	if completing > 13 {
		return
	}
	// Roll once per bidding window so the advisory list and the bid check
	// always agree on the verdict.
	if !m.rolled {
		m.rolled = true
		m.suppress = m.rng.Float64() < m.chance
	}
	if m.suppress {
		ctx.Disabled = append(ctx.Disabled, completing)
		m.firedThisRound = true
	}
}

func (m *AntiEleven) RoundEnd(_ engine.GameState, summary engine.RoundSummary) {
	fired := m.firedThisRound
	m.firedThisRound = false
	m.rolled = false
	m.suppress = false

	if summary.Team1.Bid+summary.Team2.Bid != 11 {
		return
	}
	if fired {
		m.chance = 0
		return
	}
	m.chance += 0.1
	if m.chance > 1 {
		m.chance = 1
	}
}
