package mods

import (
	"testing"

	"github.com/stretchr/testify/require"

	"spades/internal/engine"
)

func threeBidsState(bids ...int) engine.GameState {
	g := tableState(engine.PhaseBidding)
	for i, b := range bids {
		g.Round.Bids = append(g.Round.Bids, engine.NewBid(g.Players[i+1].ID, b, false, false))
	}
	g.CurrentPosition = 0
	return g
}

func disabledBidsOf(m *AntiEleven, g engine.GameState) []int {
	ctx := &DisabledBidsContext{State: g, Config: engine.DefaultConfig(), PlayerID: "p0"}
	m.DisabledBids(ctx)
	return ctx.Disabled
}

func TestAntiElevenNeverFiresAtZeroChance(t *testing.T) {
	m := NewAntiEleven(1)
	for i := 0; i < 50; i++ {
		require.Empty(t, disabledBidsOf(m, threeBidsState(3, 3, 2)))
	}
}

func TestAntiElevenDisablesTheCompletingBid(t *testing.T) {
	m := NewAntiEleven(1)
	m.chance = 1

	disabled := disabledBidsOf(m, threeBidsState(3, 3, 2))
	require.Equal(t, []int{3}, disabled)
	require.True(t, m.firedThisRound)
}

func TestAntiElevenOnlyChecksTheFourthBidder(t *testing.T) {
	m := NewAntiEleven(1)
	m.chance = 1

	g := tableState(engine.PhaseBidding)
	g.Round.Bids = []engine.PlayerBid{
		engine.NewBid("p1", 3, false, false),
		engine.NewBid("p2", 3, false, false),
	}
	require.Empty(t, disabledBidsOf(m, g))
}

func TestAntiElevenSkipsTablesAlreadyAtEleven(t *testing.T) {
	m := NewAntiEleven(1)
	m.chance = 1
	require.Empty(t, disabledBidsOf(m, threeBidsState(5, 4, 2)))
}

func TestAntiElevenVerdictIsStableWithinAWindow(t *testing.T) {
	m := NewAntiEleven(7)
	m.chance = 0.5

	// The advisory list is recomputed on every broadcast while the 4th
	// bidder is on turn, and again when the bid lands. All of those calls
	// must see the same verdict.
	first := disabledBidsOf(m, threeBidsState(3, 3, 2))
	for i := 0; i < 20; i++ {
		require.Equal(t, first, disabledBidsOf(m, threeBidsState(3, 3, 2)))
	}
	require.Equal(t, len(first) > 0, m.firedThisRound)

	// A new round opens a fresh window with a fresh roll.
	m.suppress = true
	m.rolled = true
	m.chance = 0
	m.RoundEnd(engine.GameState{}, engine.RoundSummary{})
	require.False(t, m.rolled)
	require.Empty(t, disabledBidsOf(m, threeBidsState(3, 3, 2)))
}

func TestAntiElevenChanceGrowsAndResets(t *testing.T) {
	m := NewAntiEleven(1)
	elevenSummary := engine.RoundSummary{
		Team1: engine.TeamRoundResult{Bid: 6},
		Team2: engine.TeamRoundResult{Bid: 5},
	}

	m.RoundEnd(engine.GameState{}, elevenSummary)
	require.InDelta(t, 0.1, m.chance, 1e-9)
	m.RoundEnd(engine.GameState{}, elevenSummary)
	require.InDelta(t, 0.2, m.chance, 1e-9)

	// An off-total round leaves the chance alone.
	m.RoundEnd(engine.GameState{}, engine.RoundSummary{
		Team1: engine.TeamRoundResult{Bid: 5},
		Team2: engine.TeamRoundResult{Bid: 5},
	})
	require.InDelta(t, 0.2, m.chance, 1e-9)

	// Once the disablement fires on an eleven round, the chance resets.
	m.firedThisRound = true
	m.RoundEnd(engine.GameState{}, elevenSummary)
	require.Zero(t, m.chance)
	require.False(t, m.firedThisRound)
}
