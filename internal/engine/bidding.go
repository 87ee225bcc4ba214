package engine

// NextBidder returns the seat expected to bid next. Bidding starts at the
// dealer's left and proceeds clockwise.
func NextBidder(g GameState) int {
	bids := 0
	if g.Round != nil {
		bids = len(g.Round.Bids)
	}
	return (g.DealerPosition + 1 + bids) % 4
}

// ValidateBid checks a proposed bid against phase, seating, turn order and
// the configured nil rules. The partner-ceiling restriction is deliberately
// absent here: any in-range bid from any seat is legal in the base game, and
// overshoot disablement is surfaced only through the rule-mod pipeline.
func ValidateBid(g GameState, playerID string, bid int, isNil, isBlindNil bool, cfg GameConfig) error {
	if g.Phase != PhaseBidding {
		return ErrPhaseMismatch
	}
	player, ok := g.playerByID(playerID)
	if !ok {
		return ErrPlayerNotFound
	}
	if player.Position != g.CurrentPosition {
		return ErrNotYourTurn
	}
	if g.Round == nil {
		return ErrNoActiveRound
	}
	for _, b := range g.Round.Bids {
		if b.PlayerID == playerID {
			return ErrAlreadyBid
		}
	}
	if isNil && !cfg.AllowNil {
		return ErrNilNotAllowed
	}
	if isBlindNil && !cfg.AllowBlindNil {
		return ErrBlindNilNotAllowed
	}
	if isNil || isBlindNil {
		if bid != 0 {
			return ErrInvalidBidValue
		}
	} else if bid < 0 || bid > 13 {
		return ErrInvalidBidValue
	}
	return nil
}

func AllBidsComplete(g GameState) bool {
	return g.Round != nil && len(g.Round.Bids) == 4
}

// NewBid builds the recorded bid entry. Nil and blind-nil bids normalize to
// a bid value of zero for scoring.
func NewBid(playerID string, bid int, isNil, isBlindNil bool) PlayerBid {
	if isNil || isBlindNil {
		bid = 0
	}
	return PlayerBid{PlayerID: playerID, Bid: bid, IsNil: isNil, IsBlindNil: isBlindNil}
}

// TeamBidTotal sums the non-nil bids placed by the given players. Rule mods
// use this to compute advisory bid ceilings; the core validator does not.
func TeamBidTotal(bids []PlayerBid, playerIDs []string) int {
	total := 0
	for _, b := range bids {
		if b.IsNil || b.IsBlindNil {
			continue
		}
		for _, id := range playerIDs {
			if b.PlayerID == id {
				total += b.Bid
				break
			}
		}
	}
	return total
}
