package engine

import (
	"math/rand"
	"sort"
)

// NewDeck returns all 52 cards in canonical order: suits per Suits, ranks
// ascending within each suit.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// ShuffleDeck returns a Fisher-Yates shuffled copy. The input is untouched.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DealHands shuffles and deals the deck round-robin into numPlayers sorted
// hands. A 52-card deck across 4 players yields 13 cards per hand.
func DealHands(deck []Card, numPlayers int, rng *rand.Rand) [][]Card {
	hands := make([][]Card, numPlayers)
	shuffled := ShuffleDeck(deck, rng)
	for i, c := range shuffled {
		hands[i%numPlayers] = append(hands[i%numPlayers], c)
	}
	for i := range hands {
		hands[i] = SortHand(hands[i])
	}
	return hands
}

// suitSortOrder groups a sorted hand as spades, hearts, clubs, diamonds.
func suitSortOrder(s Suit) int {
	switch s {
	case SuitSpades:
		return 0
	case SuitHearts:
		return 1
	case SuitClubs:
		return 2
	default:
		return 3
	}
}

// SortHand returns a copy ordered by suit group (spades, hearts, clubs,
// diamonds) with ranks descending inside each group.
func SortHand(hand []Card) []Card {
	sorted := append([]Card(nil), hand...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Suit != b.Suit {
			return suitSortOrder(a.Suit) < suitSortOrder(b.Suit)
		}
		return a.Rank > b.Rank
	})
	return sorted
}

func HasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func HasCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

func CardsOfSuit(hand []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range hand {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func HasOnlySpades(hand []Card) bool {
	for _, c := range hand {
		if c.Suit != SuitSpades {
			return false
		}
	}
	return true
}

// RemoveCard returns a copy of hand without the first occurrence of card.
// Absent card is a no-op: the hand comes back unchanged, not an error.
func RemoveCard(hand []Card, card Card) []Card {
	for i, c := range hand {
		if c == card {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...)
		}
	}
	return hand
}
