package bots

import (
	"math/rand"

	"spades/internal/engine"
)

// Bot chooses an action for a seat. Implementations are deterministic for a
// given seed and state.
type Bot interface {
	ChooseAction(state engine.GameState, playerID string) engine.Action
}

type EasyBot struct {
	RNG *rand.Rand
}

func NewEasy(seed int64) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *EasyBot) ChooseAction(state engine.GameState, playerID string) engine.Action {
	switch state.Phase {
	case engine.PhaseBidding:
		return engine.Action{
			Type:     engine.ActionMakeBid,
			PlayerID: playerID,
			Bid:      1 + b.RNG.Intn(4),
		}
	case engine.PhasePlaying:
		hand := handOf(state, playerID)
		legal := engine.PlayableCards(state, playerID, hand)
		if len(legal) == 0 {
			return engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID}
		}
		card := legal[b.RNG.Intn(len(legal))]
		return engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID, Card: &card}
	default:
		return engine.Action{Type: engine.ActionPlayerReady, PlayerID: playerID}
	}
}

type NormalBot struct {
	RNG *rand.Rand
}

func NewNormal(seed int64) *NormalBot {
	return &NormalBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *NormalBot) ChooseAction(state engine.GameState, playerID string) engine.Action {
	switch state.Phase {
	case engine.PhaseBidding:
		return bidByHeuristic(state, playerID)
	case engine.PhasePlaying:
		return playHeuristic(state, playerID)
	default:
		return engine.Action{Type: engine.ActionPlayerReady, PlayerID: playerID}
	}
}

// bidByHeuristic estimates tricks from aces, kings, and long spades.
func bidByHeuristic(state engine.GameState, playerID string) engine.Action {
	hand := handOf(state, playerID)
	estimate := 0
	spadeCount := 0
	for _, c := range hand {
		if c.Rank == engine.RankA || c.Rank == engine.RankK {
			estimate++
		}
		if c.Suit == engine.SuitSpades {
			spadeCount++
		}
	}
	if spadeCount > 3 {
		estimate += spadeCount - 3
	}
	if estimate == 0 {
		return engine.Action{
			Type:     engine.ActionMakeBid,
			PlayerID: playerID,
			IsNil:    true,
		}
	}
	if estimate > 13 {
		estimate = 13
	}
	return engine.Action{
		Type:     engine.ActionMakeBid,
		PlayerID: playerID,
		Bid:      estimate,
	}
}

// playHeuristic wins the trick with the cheapest winning card when it can,
// otherwise sheds its lowest legal card.
func playHeuristic(state engine.GameState, playerID string) engine.Action {
	hand := handOf(state, playerID)
	legal := engine.PlayableCards(state, playerID, hand)
	if len(legal) == 0 {
		return engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID}
	}

	trick := state.Round.CurrentTrick
	if len(trick.Plays) > 0 {
		var winning *engine.Card
		for i := range legal {
			if winsIfPlayed(trick, legal[i]) {
				if winning == nil || legal[i].Rank < winning.Rank {
					winning = &legal[i]
				}
			}
		}
		if winning != nil {
			return engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID, Card: winning}
		}
	}

	lowest := legal[0]
	for _, c := range legal[1:] {
		if c.Rank < lowest.Rank {
			lowest = c
		}
	}
	return engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID, Card: &lowest}
}

// winsIfPlayed reports whether card would currently hold the trick.
func winsIfPlayed(trick engine.Trick, card engine.Card) bool {
	if trick.LeadSuit == nil {
		return true
	}
	lead := *trick.LeadSuit
	for _, p := range trick.Plays {
		if engine.CompareCards(card, p.Card, lead) <= 0 {
			return false
		}
	}
	return true
}

func handOf(state engine.GameState, playerID string) []engine.Card {
	for _, p := range state.Players {
		if p.ID == playerID {
			return p.Hand
		}
	}
	return nil
}
