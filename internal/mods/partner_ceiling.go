package mods

import "spades/internal/engine"

const PartnerCeilingID = "partner-ceiling"

// PartnerCeiling greys out bids that would push a partnership's combined bid
// past 13. It only applies once both opponents have bid (the 3rd and 4th
// bidders) and a partner's non-nil bid is on the table; a nil-bidding
// partner leaves the seat unrestricted. The core validator still accepts
// these bids; enforcement happens only where the caller opts in.
type PartnerCeiling struct{}

func NewPartnerCeiling() *PartnerCeiling {
	return &PartnerCeiling{}
}

func (*PartnerCeiling) ID() string   { return PartnerCeilingID }
func (*PartnerCeiling) Name() string { return "Partner Ceiling" }
func (*PartnerCeiling) Description() string {
	return "Disables bids that would take a team's combined bid past 13."
}

func (*PartnerCeiling) DisabledBids(ctx *DisabledBidsContext) {
	round := ctx.State.Round
	if round == nil || len(round.Bids) < 2 {
		return
	}
	player, ok := playerByID(ctx.State, ctx.PlayerID)
	if !ok {
		return
	}

	partner, ok := ctx.State.PlayerByPosition(engine.PartnerPosition(player.Position))
	if !ok {
		return
	}
	for _, b := range round.Bids {
		if b.PlayerID != partner.ID || b.IsNil || b.IsBlindNil {
			continue
		}
		ceiling := 13 - b.Bid
		for v := ceiling + 1; v <= 13; v++ {
			ctx.Disabled = append(ctx.Disabled, v)
		}
		return
	}
}

func playerByID(state engine.GameState, id string) (engine.Player, bool) {
	for _, p := range state.Players {
		if p.ID == id {
			return p, true
		}
	}
	return engine.Player{}, false
}
