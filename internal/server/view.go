package server

import "spades/internal/engine"

// PlayerView never carries a hand; private hands travel only through the
// cards_dealt message to their owner.
type PlayerView struct {
	ID        string        `json:"id"`
	Nickname  string        `json:"nickname"`
	Position  int           `json:"position"`
	Team      engine.TeamID `json:"team"`
	CardCount int           `json:"cardCount"`
	Connected bool          `json:"connected"`
	Ready     bool          `json:"ready"`
}

type TrickPlayView struct {
	PlayerID string  `json:"playerId"`
	Card     CardDTO `json:"card"`
}

type TrickView struct {
	Plays    []TrickPlayView `json:"plays"`
	LeadSuit string          `json:"leadSuit,omitempty"`
}

type RoundView struct {
	RoundNumber  int                `json:"roundNumber"`
	Bids         []engine.PlayerBid `json:"bids"`
	CurrentTrick TrickView          `json:"currentTrick"`
	TricksWon    map[string]int     `json:"tricksWon"`
	SpadesBroken bool               `json:"spadesBroken"`
}

type GameView struct {
	ID              string        `json:"id"`
	Phase           string        `json:"phase"`
	Players         []PlayerView  `json:"players"`
	Scores          engine.Scores `json:"scores"`
	Round           *RoundView    `json:"currentRound"`
	DealerPosition  int           `json:"dealerPosition"`
	CurrentPosition int           `json:"currentPlayerPosition"`
	// DisabledBids lists bid values rule mods want greyed out for the
	// player on turn during bidding.
	DisabledBids []int `json:"disabledBids,omitempty"`
}

// BuildGameView projects authoritative state into the client-safe shape:
// card counts instead of hands, per-player trick tallies, and the advisory
// disabled-bid list for the seat on turn.
func BuildGameView(g engine.GameState, disabledBids []int) *GameView {
	players := make([]PlayerView, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, PlayerView{
			ID:        p.ID,
			Nickname:  p.Nickname,
			Position:  p.Position,
			Team:      p.Team,
			CardCount: len(p.Hand),
			Connected: p.Connected,
			Ready:     p.Ready,
		})
	}

	var round *RoundView
	if g.Round != nil {
		tricksWon := make(map[string]int, len(g.Players))
		for _, p := range g.Players {
			tricksWon[p.ID] = 0
		}
		for _, t := range g.Round.Tricks {
			if t.Winner != "" {
				tricksWon[t.Winner]++
			}
		}

		trick := TrickView{Plays: []TrickPlayView{}}
		for _, play := range g.Round.CurrentTrick.Plays {
			trick.Plays = append(trick.Plays, TrickPlayView{
				PlayerID: play.PlayerID,
				Card:     cardToDTO(play.Card),
			})
		}
		if g.Round.CurrentTrick.LeadSuit != nil {
			trick.LeadSuit = g.Round.CurrentTrick.LeadSuit.String()
		}

		round = &RoundView{
			RoundNumber:  g.Round.Number,
			Bids:         g.Round.Bids,
			CurrentTrick: trick,
			TricksWon:    tricksWon,
			SpadesBroken: g.Round.SpadesBroken,
		}
	}

	return &GameView{
		ID:              g.ID,
		Phase:           g.Phase.String(),
		Players:         players,
		Scores:          g.Scores,
		Round:           round,
		DealerPosition:  g.DealerPosition,
		CurrentPosition: g.CurrentPosition,
		DisabledBids:    disabledBids,
	}
}
