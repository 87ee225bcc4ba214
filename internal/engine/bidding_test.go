package engine

import (
	"errors"
	"testing"
)

func biddingState() GameState {
	g := NewGame("g", 1, DefaultConfig())
	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		g.Players = append(g.Players, Player{
			ID: id, Nickname: id, Position: i, Team: TeamForPosition(i), Connected: true,
		})
	}
	g.Phase = PhaseBidding
	g.Round = NewRound(1)
	g.DealerPosition = 0
	g.CurrentPosition = 1
	return g
}

func TestNextBidderWalksFromDealersLeft(t *testing.T) {
	g := biddingState()
	if got := NextBidder(g); got != 1 {
		t.Fatalf("first bidder = %d, want 1", got)
	}
	g.Round.Bids = append(g.Round.Bids, NewBid("p1", 3, false, false))
	if got := NextBidder(g); got != 2 {
		t.Fatalf("second bidder = %d, want 2", got)
	}
	g.Round.Bids = append(g.Round.Bids,
		NewBid("p2", 3, false, false),
		NewBid("p3", 3, false, false),
	)
	if got := NextBidder(g); got != 0 {
		t.Fatalf("last bidder = %d, want 0 (dealer)", got)
	}
}

func TestValidateBid(t *testing.T) {
	noNil := DefaultConfig()
	noNil.AllowNil = false
	noBlind := DefaultConfig()
	noBlind.AllowBlindNil = false

	cases := []struct {
		name       string
		mutate     func(*GameState)
		cfg        GameConfig
		player     string
		bid        int
		isNil      bool
		isBlindNil bool
		want       error
	}{
		{name: "valid bid", cfg: DefaultConfig(), player: "p1", bid: 4},
		{name: "zero bid without nil flag", cfg: DefaultConfig(), player: "p1", bid: 0},
		{name: "valid nil", cfg: DefaultConfig(), player: "p1", isNil: true},
		{name: "valid blind nil", cfg: DefaultConfig(), player: "p1", isBlindNil: true},
		{
			name:   "wrong phase",
			mutate: func(g *GameState) { g.Phase = PhasePlaying },
			cfg:    DefaultConfig(), player: "p1", bid: 4,
			want: ErrPhaseMismatch,
		},
		{
			name: "unknown player",
			cfg:  DefaultConfig(), player: "ghost", bid: 4,
			want: ErrPlayerNotFound,
		},
		{
			name: "out of turn",
			cfg:  DefaultConfig(), player: "p2", bid: 4,
			want: ErrNotYourTurn,
		},
		{
			name: "already bid",
			mutate: func(g *GameState) {
				g.Round.Bids = append(g.Round.Bids, NewBid("p1", 3, false, false))
			},
			cfg: DefaultConfig(), player: "p1", bid: 4,
			want: ErrAlreadyBid,
		},
		{
			name: "nil disabled",
			cfg:  noNil, player: "p1", isNil: true,
			want: ErrNilNotAllowed,
		},
		{
			name: "blind nil disabled",
			cfg:  noBlind, player: "p1", isBlindNil: true,
			want: ErrBlindNilNotAllowed,
		},
		{
			name: "nil with nonzero value",
			cfg:  DefaultConfig(), player: "p1", bid: 3, isNil: true,
			want: ErrInvalidBidValue,
		},
		{
			name: "bid above thirteen",
			cfg:  DefaultConfig(), player: "p1", bid: 14,
			want: ErrInvalidBidValue,
		},
		{
			name: "negative bid",
			cfg:  DefaultConfig(), player: "p1", bid: -1,
			want: ErrInvalidBidValue,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := biddingState()
			if tc.mutate != nil {
				tc.mutate(&g)
			}
			err := ValidateBid(g, tc.player, tc.bid, tc.isNil, tc.isBlindNil, tc.cfg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewBidNormalizesNilToZero(t *testing.T) {
	b := NewBid("p1", 7, true, false)
	if b.Bid != 0 || !b.IsNil {
		t.Fatalf("nil bid not normalized: %+v", b)
	}
	b = NewBid("p1", 7, false, true)
	if b.Bid != 0 || !b.IsBlindNil {
		t.Fatalf("blind nil bid not normalized: %+v", b)
	}
}

func TestTeamBidTotalSkipsNilBids(t *testing.T) {
	bids := []PlayerBid{
		NewBid("p0", 4, false, false),
		NewBid("p1", 5, false, false),
		NewBid("p2", 0, true, false),
		NewBid("p3", 2, false, false),
	}
	if got := TeamBidTotal(bids, []string{"p0", "p2"}); got != 4 {
		t.Fatalf("team1 total = %d, want 4", got)
	}
	if got := TeamBidTotal(bids, []string{"p1", "p3"}); got != 7 {
		t.Fatalf("team2 total = %d, want 7", got)
	}
}
