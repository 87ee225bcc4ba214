package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Phase }{
		{PhaseWaiting, PhaseReady},
		{PhaseReady, PhaseDealing},
		{PhaseDealing, PhaseBidding},
		{PhaseBidding, PhasePlaying},
		{PhasePlaying, PhaseTrickEnd},
		{PhasePlaying, PhasePlaying},
		{PhaseTrickEnd, PhasePlaying},
		{PhaseTrickEnd, PhaseRoundEnd},
		{PhaseRoundEnd, PhaseDealing},
		{PhaseRoundEnd, PhaseGameEnd},
	}
	for _, tc := range allowed {
		require.True(t, CanTransition(tc.from, tc.to), "%v -> %v", tc.from, tc.to)
	}

	denied := []struct{ from, to Phase }{
		{PhaseWaiting, PhaseBidding},
		{PhaseBidding, PhaseTrickEnd},
		{PhaseGameEnd, PhaseWaiting},
		{PhaseGameEnd, PhaseDealing},
		{PhaseRoundEnd, PhasePlaying},
	}
	for _, tc := range denied {
		require.False(t, CanTransition(tc.from, tc.to), "%v -> %v", tc.from, tc.to)
	}
}

func apply(t *testing.T, g GameState, a Action) GameState {
	t.Helper()
	res := ProcessAction(g, a, DefaultConfig())
	require.True(t, res.Valid, "%s: %v", a.Type, res.Err)
	return res.State
}

// fullTable walks a fresh game to the bidding phase through the real action
// sequence: four joins, four readies, start, deal.
func fullTable(t *testing.T) GameState {
	t.Helper()
	g := NewGame("g", 42, DefaultConfig())
	for _, id := range []string{"p0", "p1", "p2", "p3"} {
		g = apply(t, g, Action{Type: ActionPlayerJoin, PlayerID: id, Nickname: id})
	}
	for _, id := range []string{"p0", "p1", "p2", "p3"} {
		g = apply(t, g, Action{Type: ActionPlayerReady, PlayerID: id})
	}
	require.Equal(t, PhaseReady, g.Phase)
	g = apply(t, g, Action{Type: ActionStartGame})
	g = apply(t, g, Action{Type: ActionDealCards})
	return g
}

func TestJoinSeatsAndTeams(t *testing.T) {
	g := NewGame("g", 1, DefaultConfig())
	for i, id := range []string{"a", "b", "c", "d"} {
		g = apply(t, g, Action{Type: ActionPlayerJoin, PlayerID: id, Nickname: id})
		require.Equal(t, i, g.Players[i].Position)
		require.Equal(t, TeamForPosition(i), g.Players[i].Team)
	}

	res := ProcessAction(g, Action{Type: ActionPlayerJoin, PlayerID: "e"}, DefaultConfig())
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrRoomFull)

	g.Players = g.Players[:2]
	res = ProcessAction(g, Action{Type: ActionPlayerJoin, PlayerID: "a"}, DefaultConfig())
	require.False(t, res.Valid)
	require.ErrorIs(t, res.Err, ErrPlayerExists)
}

func TestLeaveInWaitingReseatsContiguously(t *testing.T) {
	g := NewGame("g", 1, DefaultConfig())
	for _, id := range []string{"a", "b", "c"} {
		g = apply(t, g, Action{Type: ActionPlayerJoin, PlayerID: id, Nickname: id})
	}

	g = apply(t, g, Action{Type: ActionPlayerLeave, PlayerID: "b"})
	require.Len(t, g.Players, 2)
	require.Equal(t, "a", g.Players[0].ID)
	require.Equal(t, 0, g.Players[0].Position)
	require.Equal(t, "c", g.Players[1].ID)
	require.Equal(t, 1, g.Players[1].Position)
	require.Equal(t, Team2, g.Players[1].Team)
}

func TestLeaveMidGameOnlyDisconnects(t *testing.T) {
	g := fullTable(t)
	g = apply(t, g, Action{Type: ActionPlayerLeave, PlayerID: "p2"})
	require.Len(t, g.Players, 4)
	require.False(t, g.Players[2].Connected)
	require.Equal(t, PhaseBidding, g.Phase)

	g = apply(t, g, Action{Type: ActionPlayerReconnect, PlayerID: "p2"})
	require.True(t, g.Players[2].Connected)
}

func TestDealCardsIsSeededAndPrivate(t *testing.T) {
	a := fullTable(t)
	b := fullTable(t)

	require.Equal(t, PhaseBidding, a.Phase)
	require.Equal(t, 1, a.Round.Number)
	require.Equal(t, (a.DealerPosition+1)%4, a.CurrentPosition)

	seen := map[Card]bool{}
	for i, p := range a.Players {
		require.Len(t, p.Hand, 13)
		require.Equal(t, p.Hand, b.Players[i].Hand, "same seed must deal the same hands")
		for _, c := range p.Hand {
			require.False(t, seen[c], "card %v dealt twice", c)
			seen[c] = true
		}
	}
	require.Len(t, seen, 52)
}

func TestDealEmitsHandEffect(t *testing.T) {
	g := NewGame("g", 7, DefaultConfig())
	for _, id := range []string{"p0", "p1", "p2", "p3"} {
		g = apply(t, g, Action{Type: ActionPlayerJoin, PlayerID: id, Nickname: id})
		g = apply(t, g, Action{Type: ActionPlayerReady, PlayerID: id})
	}
	g = apply(t, g, Action{Type: ActionStartGame})

	res := ProcessAction(g, Action{Type: ActionDealCards}, DefaultConfig())
	require.True(t, res.Valid)
	require.Len(t, res.Effects, 1)
	require.Equal(t, EffectDealHands, res.Effects[0].Type)
	require.Len(t, res.Effects[0].Hands, 4)
	for id, hand := range res.Effects[0].Hands {
		require.Len(t, hand, 13, "hand for %s", id)
	}
}

func TestBiddingRotationAndHandoff(t *testing.T) {
	g := fullTable(t)
	order := []string{"p1", "p2", "p3", "p0"}

	for i, id := range order {
		player, ok := g.PlayerByPosition(g.CurrentPosition)
		require.True(t, ok)
		require.Equal(t, id, player.ID, "bidder %d", i)
		g = apply(t, g, Action{Type: ActionMakeBid, PlayerID: id, Bid: 3})
	}

	require.Equal(t, PhasePlaying, g.Phase)
	// First trick is led from the dealer's left regardless of who bid last.
	require.Equal(t, (g.DealerPosition+1)%4, g.CurrentPosition)
}

// playingTable returns a mid-game state with crafted hands so plays are
// predictable: seat 1 leads.
func playingTable() GameState {
	g := NewGame("g", 1, DefaultConfig())
	hands := [][]Card{
		{{SuitClubs, RankA}, {SuitHearts, Rank2}},
		{{SuitClubs, Rank5}, {SuitHearts, Rank9}},
		{{SuitClubs, Rank8}, {SuitHearts, RankK}},
		{{SuitClubs, RankQ}, {SuitHearts, Rank6}},
	}
	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		g.Players = append(g.Players, Player{
			ID: id, Nickname: id, Position: i, Team: TeamForPosition(i),
			Hand: hands[i], Connected: true, Ready: true,
		})
	}
	g.Phase = PhasePlaying
	g.Round = NewRound(1)
	g.DealerPosition = 0
	g.CurrentPosition = 1
	return g
}

func TestPlayCardTrickLifecycle(t *testing.T) {
	g := playingTable()

	g = apply(t, g, Action{Type: ActionPlayCard, PlayerID: "p1", Card: &Card{SuitClubs, Rank5}})
	require.Len(t, g.Players[1].Hand, 1)
	require.Equal(t, SuitClubs, *g.Round.CurrentTrick.LeadSuit)
	require.Equal(t, 2, g.CurrentPosition)

	g = apply(t, g, Action{Type: ActionPlayCard, PlayerID: "p2", Card: &Card{SuitClubs, Rank8}})
	g = apply(t, g, Action{Type: ActionPlayCard, PlayerID: "p3", Card: &Card{SuitClubs, RankQ}})

	res := ProcessAction(g, Action{Type: ActionPlayCard, PlayerID: "p0", Card: &Card{SuitClubs, RankA}}, DefaultConfig())
	require.True(t, res.Valid)
	g = res.State

	require.Equal(t, PhaseTrickEnd, g.Phase)
	require.Len(t, res.Effects, 1)
	require.Equal(t, EffectTrickComplete, res.Effects[0].Type)
	require.Equal(t, "p0", res.Effects[0].WinnerID)
	require.Equal(t, 1, res.Effects[0].TrickNumber)

	g = apply(t, g, Action{Type: ActionCollectTrick})
	require.Equal(t, PhasePlaying, g.Phase)
	require.Len(t, g.Round.Tricks, 1)
	require.Empty(t, g.Round.CurrentTrick.Plays)
	// Winner leads the next trick.
	require.Equal(t, 0, g.CurrentPosition)
}

func TestPlayCardBreaksSpades(t *testing.T) {
	g := playingTable()
	g.Players[1].Hand = []Card{{SuitSpades, Rank4}}
	lead := SuitClubs
	g.Round.CurrentTrick = Trick{
		Plays:    []TrickPlay{{PlayerID: "p0", Card: Card{SuitClubs, Rank3}}},
		LeadSuit: &lead,
	}

	g = apply(t, g, Action{Type: ActionPlayCard, PlayerID: "p1", Card: &Card{SuitSpades, Rank4}})
	require.True(t, g.Round.SpadesBroken)
}

func TestCollectTrickPanicsWithoutWinner(t *testing.T) {
	g := playingTable()
	g.Phase = PhaseTrickEnd // trick never completed

	defer func() {
		require.NotNil(t, recover(), "expected a panic on the broken phase contract")
	}()
	ProcessAction(g, Action{Type: ActionCollectTrick}, DefaultConfig())
}

// endedRound builds a round-end state with recorded bids and 13 archived
// trick winners, bypassing card play.
func endedRound(bids []PlayerBid, winners []string) GameState {
	g := playingTable()
	g.Phase = PhaseRoundEnd
	g.Round.Bids = bids
	for _, w := range winners {
		g.Round.Tricks = append(g.Round.Tricks, Trick{Winner: w})
	}
	return g
}

func repeat(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

func TestEndRoundScoresBothTeams(t *testing.T) {
	bids := []PlayerBid{
		NewBid("p0", 4, false, false),
		NewBid("p1", 5, false, false),
		NewBid("p2", 0, true, false),
		NewBid("p3", 2, false, false),
	}
	// p0 takes 4, p1 takes 6, p3 takes 3; the nil bidder stays clean.
	winners := append(append(repeat("p0", 4), repeat("p1", 6)...), repeat("p3", 3)...)
	g := endedRound(bids, winners)

	res := ProcessAction(g, Action{Type: ActionEndRound}, DefaultConfig())
	require.True(t, res.Valid, "%v", res.Err)
	g = res.State

	// Team1: bid 4, took 4, nil succeeded: 40 + 100.
	require.Equal(t, 140, g.Scores.Team1.Score)
	require.Equal(t, 0, g.Scores.Team1.Bags)
	require.Equal(t, 4, g.Scores.Team1.RoundBid)
	// Team2: bid 7, took 9: 72 with 2 bags.
	require.Equal(t, 72, g.Scores.Team2.Score)
	require.Equal(t, 2, g.Scores.Team2.Bags)
	require.Equal(t, 9, g.Scores.Team2.RoundTricks)

	require.Equal(t, 1, g.DealerPosition, "dealer rotates after the round")
	require.Len(t, res.Effects, 1)
	require.Equal(t, EffectRoundComplete, res.Effects[0].Type)
	require.NotNil(t, res.Effects[0].Summary)
	require.Equal(t, PhaseRoundEnd, g.Phase)

	g = apply(t, g, Action{Type: ActionStartNextRound})
	require.Equal(t, PhaseDealing, g.Phase)
	for _, p := range g.Players {
		require.Empty(t, p.Hand)
	}
	require.Zero(t, g.Scores.Team1.RoundBid)
	require.Zero(t, g.Scores.Team2.RoundTricks)
}

func TestEndRoundDetectsGameEnd(t *testing.T) {
	bids := []PlayerBid{
		NewBid("p0", 7, false, false),
		NewBid("p1", 3, false, false),
		NewBid("p2", 3, false, false),
		NewBid("p3", 3, false, false),
	}
	winners := append(append(repeat("p0", 7), repeat("p2", 3)...), repeat("p1", 3)...)
	g := endedRound(bids, winners)
	g.Scores.Team1.Score = 450

	res := ProcessAction(g, Action{Type: ActionEndRound}, DefaultConfig())
	require.True(t, res.Valid, "%v", res.Err)

	require.Equal(t, PhaseGameEnd, res.State.Phase)
	require.Len(t, res.Effects, 2)
	require.Equal(t, EffectGameComplete, res.Effects[1].Type)
	require.Equal(t, Team1, res.Effects[1].Winner)
}

type doublingReviser struct{}

func (doublingReviser) ReviseScore(ctx ScoreContext) ScoreCalculation {
	out := ctx.Calc
	out.TotalScore *= 2
	return out
}

func TestEndRoundConsultsScoreReviser(t *testing.T) {
	bids := []PlayerBid{
		NewBid("p0", 5, false, false),
		NewBid("p1", 4, false, false),
		NewBid("p2", 2, false, false),
		NewBid("p3", 2, false, false),
	}
	winners := append(append(repeat("p0", 5), repeat("p2", 2)...), repeat("p1", 6)...)
	g := endedRound(bids, winners)

	res := ProcessActionWith(g, Action{Type: ActionEndRound}, DefaultConfig(), doublingReviser{})
	require.True(t, res.Valid, "%v", res.Err)
	require.Equal(t, 140, res.State.Scores.Team1.Score)
}

func TestProcessActionNeverMutatesInput(t *testing.T) {
	g := playingTable()
	snapshot := g.Clone()

	res := ProcessAction(g, Action{Type: ActionPlayCard, PlayerID: "p1", Card: &Card{SuitClubs, Rank5}}, DefaultConfig())
	require.True(t, res.Valid)

	g.LastActivity = snapshot.LastActivity
	require.Equal(t, snapshot, g)
}
