// Package mods is the rule-extension surface: an ordered pipeline of rule
// variants consulted at fixed interception points around the core engine.
// The base game behaves identically with no mods registered.
package mods

import "spades/internal/engine"

// Mod is the identity every rule variant carries. Behavior is added through
// the optional capability interfaces below; the pipeline type-asserts for
// each one, so a mod implements only the hooks it needs.
type Mod interface {
	ID() string
	Name() string
	Description() string
}

// ConfigModifier adjusts the game config once, at game creation.
type ConfigModifier interface {
	ModifyConfig(engine.GameConfig) engine.GameConfig
}

// BidContext flows through BidValidator hooks. A hook vetoes by setting Err;
// the pipeline stops at the first veto.
type BidContext struct {
	State      engine.GameState
	Config     engine.GameConfig
	PlayerID   string
	Bid        int
	IsNil      bool
	IsBlindNil bool
	Err        error
}

type BidValidator interface {
	ValidateBid(*BidContext)
}

// PlayContext flows through PlayValidator hooks, same veto protocol.
type PlayContext struct {
	State    engine.GameState
	Config   engine.GameConfig
	PlayerID string
	Card     engine.Card
	Hand     []engine.Card
	Err      error
}

type PlayValidator interface {
	ValidatePlay(*PlayContext)
}

// DisabledBidsContext collects bid values a mod wants greyed out for the
// player on turn. Disablement is advisory unless the caller enforces it.
type DisabledBidsContext struct {
	State    engine.GameState
	Config   engine.GameConfig
	PlayerID string
	Disabled []int
}

type BidRestrictor interface {
	DisabledBids(*DisabledBidsContext)
}

// PlayObserver sees every accepted card play.
type PlayObserver interface {
	CardPlayed(state engine.GameState, playerID string, card engine.Card)
}

// TrickObserver sees every completed trick.
type TrickObserver interface {
	TrickComplete(state engine.GameState, trick engine.Trick, winnerID string)
}

// RoundObserver sees every settled round and may update private mod state.
type RoundObserver interface {
	RoundEnd(state engine.GameState, summary engine.RoundSummary)
}

// ScoreReviser mirrors engine.ScoreReviser for mods that rewrite a team's
// round score.
type ScoreReviser interface {
	ReviseScore(engine.ScoreContext) engine.ScoreCalculation
}
