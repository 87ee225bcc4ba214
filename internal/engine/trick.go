package engine

// CompareCards orders two cards inside one trick: positive when a beats b.
// Spades trump everything; otherwise following the lead suit beats off-suit;
// cards of the same suit compare by rank. Two off-suit non-spades compare
// equal, which keeps the earlier play winning.
func CompareCards(a, b Card, lead Suit) int {
	aSpade := a.Suit == SuitSpades
	bSpade := b.Suit == SuitSpades

	if aSpade && !bSpade {
		return 1
	}
	if bSpade && !aSpade {
		return -1
	}
	if a.Suit == b.Suit {
		return int(a.Rank) - int(b.Rank)
	}

	aLead := a.Suit == lead
	bLead := b.Suit == lead
	if aLead && !bLead {
		return 1
	}
	if bLead && !aLead {
		return -1
	}
	return 0
}

// TrickWinner resolves a completed trick to the winning player's id.
// Incomplete tricks (or a trick with no lead suit) resolve to "".
func TrickWinner(t Trick) string {
	if len(t.Plays) != 4 || t.LeadSuit == nil {
		return ""
	}
	winning := t.Plays[0]
	for _, play := range t.Plays[1:] {
		if CompareCards(play.Card, winning.Card, *t.LeadSuit) > 0 {
			winning = play
		}
	}
	return winning.PlayerID
}

// AddPlay appends a play to the trick, fixing the lead suit on the first
// play and resolving the winner once the fourth play lands. The input trick
// is never modified.
func AddPlay(t Trick, play TrickPlay) Trick {
	out := cloneTrick(t)
	out.Plays = append(out.Plays, play)
	if out.LeadSuit == nil {
		lead := play.Card.Suit
		out.LeadSuit = &lead
	}
	if len(out.Plays) == 4 {
		out.Winner = TrickWinner(out)
	} else {
		out.Winner = ""
	}
	return out
}

func IsTrickComplete(t Trick) bool {
	return len(t.Plays) == 4
}

// TrickHasSpade reports whether any play in this trick was a spade. The
// round-scoped broken flag lives on RoundState, not here.
func TrickHasSpade(t Trick) bool {
	for _, p := range t.Plays {
		if p.Card.Suit == SuitSpades {
			return true
		}
	}
	return false
}
