package mods

import "spades/internal/engine"

const JokerSpadesID = "joker-spades"

// JokerSpades would add two jokers ranking above the ace of spades. The deck
// and trick comparator have no joker representation yet, so this variant is
// an inert stub demonstrating the observer hook shape.
type JokerSpades struct{}

func NewJokerSpades() *JokerSpades {
	return &JokerSpades{}
}

func (*JokerSpades) ID() string   { return JokerSpadesID }
func (*JokerSpades) Name() string { return "Joker Spades" }
func (*JokerSpades) Description() string {
	return "Adds two jokers that beat all other cards (not yet active)."
}

func (*JokerSpades) TrickComplete(engine.GameState, engine.Trick, string) {}
