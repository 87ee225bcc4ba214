package mods

import "spades/internal/engine"

// Pipeline runs registered mods in registration order. It implements
// engine.ScoreReviser so it can be handed straight to the machine.
type Pipeline struct {
	mods []Mod
}

func NewPipeline(mods ...Mod) *Pipeline {
	return &Pipeline{mods: mods}
}

func (p *Pipeline) Add(mod Mod) {
	p.mods = append(p.mods, mod)
}

func (p *Pipeline) Mods() []Mod {
	return p.mods
}

// ModifyConfig folds every ConfigModifier over the config, left to right.
func (p *Pipeline) ModifyConfig(cfg engine.GameConfig) engine.GameConfig {
	for _, m := range p.mods {
		if h, ok := m.(ConfigModifier); ok {
			cfg = h.ModifyConfig(cfg)
		}
	}
	return cfg
}

// ValidateBid runs bid-validation hooks until one vetoes.
func (p *Pipeline) ValidateBid(ctx *BidContext) {
	for _, m := range p.mods {
		if h, ok := m.(BidValidator); ok {
			h.ValidateBid(ctx)
			if ctx.Err != nil {
				return
			}
		}
	}
}

// ValidatePlay runs play-validation hooks until one vetoes.
func (p *Pipeline) ValidatePlay(ctx *PlayContext) {
	for _, m := range p.mods {
		if h, ok := m.(PlayValidator); ok {
			h.ValidatePlay(ctx)
			if ctx.Err != nil {
				return
			}
		}
	}
}

// DisabledBids returns the bid values mods want disabled for the player on
// turn.
func (p *Pipeline) DisabledBids(state engine.GameState, cfg engine.GameConfig, playerID string) []int {
	ctx := &DisabledBidsContext{State: state, Config: cfg, PlayerID: playerID}
	for _, m := range p.mods {
		if h, ok := m.(BidRestrictor); ok {
			h.DisabledBids(ctx)
		}
	}
	return ctx.Disabled
}

func (p *Pipeline) CardPlayed(state engine.GameState, playerID string, card engine.Card) {
	for _, m := range p.mods {
		if h, ok := m.(PlayObserver); ok {
			h.CardPlayed(state, playerID, card)
		}
	}
}

func (p *Pipeline) TrickComplete(state engine.GameState, trick engine.Trick, winnerID string) {
	for _, m := range p.mods {
		if h, ok := m.(TrickObserver); ok {
			h.TrickComplete(state, trick, winnerID)
		}
	}
}

func (p *Pipeline) RoundEnd(state engine.GameState, summary engine.RoundSummary) {
	for _, m := range p.mods {
		if h, ok := m.(RoundObserver); ok {
			h.RoundEnd(state, summary)
		}
	}
}

// ReviseScore implements engine.ScoreReviser by threading the calculation
// through every revising mod in order.
func (p *Pipeline) ReviseScore(ctx engine.ScoreContext) engine.ScoreCalculation {
	for _, m := range p.mods {
		if h, ok := m.(ScoreReviser); ok {
			ctx.Calc = h.ReviseScore(ctx)
		}
	}
	return ctx.Calc
}
