package engine

// ValidatePlay checks a proposed card play against turn order, hand
// membership, the spades-broken lead gate and the follow-suit obligation.
// The hand is supplied by the caller so the transport layer can validate
// against its own cached copy before dispatching.
func ValidatePlay(g GameState, playerID string, card Card, hand []Card) error {
	if g.Phase != PhasePlaying {
		return ErrPhaseMismatch
	}
	player, ok := g.playerByID(playerID)
	if !ok {
		return ErrPlayerNotFound
	}
	if player.Position != g.CurrentPosition {
		return ErrNotYourTurn
	}
	if !HasCard(hand, card) {
		return ErrCardNotInHand
	}
	if g.Round == nil {
		return ErrNoActiveRound
	}

	trick := g.Round.CurrentTrick
	if len(trick.Plays) == 0 {
		// Leading. A hand holding nothing but spades may always lead them.
		if card.Suit == SuitSpades && !g.Round.SpadesBroken && !HasOnlySpades(hand) {
			return ErrSpadesNotBroken
		}
		return nil
	}

	lead := *trick.LeadSuit
	if card.Suit != lead && HasSuit(hand, lead) {
		return ErrMustFollowSuit
	}
	return nil
}

// PlayableCards returns the subset of hand that ValidatePlay accepts.
func PlayableCards(g GameState, playerID string, hand []Card) []Card {
	out := []Card{}
	for _, c := range hand {
		if ValidatePlay(g, playerID, c, hand) == nil {
			out = append(out, c)
		}
	}
	return out
}
