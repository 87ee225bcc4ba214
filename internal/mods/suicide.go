package mods

import (
	"errors"
	"fmt"

	"spades/internal/engine"
)

const SuicideSpadesID = "suicide-spades"

// SuicideSpades: each team must bid exactly 4 combined. The first bidder on
// a team bids 0-4 and the partner bids the remainder. Making exactly 4
// tricks scores 40; anything else loses 40. Nil bids are turned off.
type SuicideSpades struct{}

func NewSuicideSpades() *SuicideSpades {
	return &SuicideSpades{}
}

func (*SuicideSpades) ID() string   { return SuicideSpadesID }
func (*SuicideSpades) Name() string { return "Suicide Spades" }
func (*SuicideSpades) Description() string {
	return "Teams must bid exactly 4 combined; exact tricks or a 40-point set."
}

func (*SuicideSpades) ModifyConfig(cfg engine.GameConfig) engine.GameConfig {
	cfg.AllowNil = false
	cfg.AllowBlindNil = false
	return cfg
}

func (*SuicideSpades) ValidateBid(ctx *BidContext) {
	if ctx.IsNil || ctx.IsBlindNil {
		ctx.Err = errors.New("nil bids are not allowed in Suicide Spades")
		return
	}
	player, ok := playerByID(ctx.State, ctx.PlayerID)
	if !ok || ctx.State.Round == nil {
		return
	}

	var partnerBid *engine.PlayerBid
	for i, b := range ctx.State.Round.Bids {
		other, found := playerByID(ctx.State, b.PlayerID)
		if found && other.Team == player.Team {
			partnerBid = &ctx.State.Round.Bids[i]
			break
		}
	}

	if partnerBid == nil {
		if ctx.Bid < 0 || ctx.Bid > 4 {
			ctx.Err = errors.New("first team bidder must bid 0-4 in Suicide Spades")
		}
		return
	}
	required := 4 - partnerBid.Bid
	if ctx.Bid != required {
		ctx.Err = fmt.Errorf("must bid %d to make the team total of 4", required)
	}
}

func (*SuicideSpades) ReviseScore(ctx engine.ScoreContext) engine.ScoreCalculation {
	if ctx.Bid != 4 {
		// Bid validation should have prevented this; leave the base calc.
		return ctx.Calc
	}
	calc := ctx.Calc
	calc.Bags = 0
	if ctx.Tricks == 4 {
		calc.BaseScore = 40
	} else {
		calc.BaseScore = -40
	}
	calc.TotalScore = calc.BaseScore + calc.NilBonus
	return calc
}
