package engine

const (
	nilValue      = 100
	blindNilValue = 200
)

// ScoreCalculation is one team's raw result for a round, before bag
// accumulation is applied to the running score.
type ScoreCalculation struct {
	BaseScore  int `json:"baseScore"`
	Bags       int `json:"bags"`
	NilBonus   int `json:"nilBonus"`
	TotalScore int `json:"totalScore"`
}

// RoundScore converts a team's combined non-nil bid and trick count into a
// score calculation. Each nil bid is judged per player, all or nothing: any
// trick taken forfeits the full bonus. When both partners bid nil there is
// no non-nil bidder and the base-score component is skipped entirely.
func RoundScore(bid, tricks int, nilBids []PlayerBid, playerTricks map[string]int) ScoreCalculation {
	var calc ScoreCalculation

	for _, nb := range nilBids {
		value := nilValue
		if nb.IsBlindNil {
			value = blindNilValue
		}
		if playerTricks[nb.PlayerID] == 0 {
			calc.NilBonus += value
		} else {
			calc.NilBonus -= value
		}
	}

	switch {
	case bid == 0 && len(nilBids) == 2:
		// Both partners bid nil; only the nil outcomes count.
	case tricks >= bid:
		calc.BaseScore = bid * 10
		calc.Bags = tricks - bid
	default:
		calc.BaseScore = -bid * 10
	}

	// Each bag is worth a point now; the penalty is tracked cumulatively.
	calc.TotalScore = calc.BaseScore + calc.Bags + calc.NilBonus
	return calc
}

// ApplyRoundScore folds a round calculation into the running team score.
// Bags past the threshold cost BagPenalty and the overflow carries forward
// rather than resetting to zero.
func ApplyRoundScore(current TeamScore, calc ScoreCalculation, cfg GameConfig) TeamScore {
	out := current
	newBags := current.Bags + calc.Bags
	out.Score += calc.TotalScore
	if newBags >= cfg.BagPenaltyThreshold {
		out.Score -= cfg.BagPenalty
		out.Bags = newBags - cfg.BagPenaltyThreshold
	} else {
		out.Bags = newBags
	}
	return out
}

// GameWinner reports which team, if any, has won. When both teams cross the
// threshold the higher score wins; an exact tie declares no winner.
func GameWinner(scores Scores, winningScore int) (TeamID, bool) {
	t1, t2 := scores.Team1.Score, scores.Team2.Score

	if t1 >= winningScore && t2 >= winningScore {
		switch {
		case t1 > t2:
			return Team1, true
		case t2 > t1:
			return Team2, true
		default:
			return "", false
		}
	}
	if t1 >= winningScore {
		return Team1, true
	}
	if t2 >= winningScore {
		return Team2, true
	}
	return "", false
}

type NilResult struct {
	PlayerID   string `json:"playerId"`
	IsBlindNil bool   `json:"isBlindNil"`
	Succeeded  bool   `json:"succeeded"`
	Points     int    `json:"points"`
}

type TeamRoundResult struct {
	Bid        int         `json:"bid"`
	Tricks     int         `json:"tricks"`
	Points     int         `json:"points"`
	Bags       int         `json:"bags"`
	BagPenalty bool        `json:"bagPenalty"`
	NilResults []NilResult `json:"nilResults"`
}

// RoundSummary is a derived display model for one settled round; it is not
// authoritative state.
type RoundSummary struct {
	RoundNumber int             `json:"roundNumber"`
	Team1       TeamRoundResult `json:"team1"`
	Team2       TeamRoundResult `json:"team2"`
}

// NewRoundSummary aggregates both teams' results for the current round.
func NewRoundSummary(g GameState, playerTricks map[string]int, cfg GameConfig) RoundSummary {
	return RoundSummary{
		RoundNumber: g.Round.Number,
		Team1:       teamRoundResult(g, Team1, playerTricks, cfg),
		Team2:       teamRoundResult(g, Team2, playerTricks, cfg),
	}
}

func teamRoundResult(g GameState, team TeamID, playerTricks map[string]int, cfg GameConfig) TeamRoundResult {
	bid, tricks, nilBids := teamRoundInputs(g, team, playerTricks)
	calc := RoundScore(bid, tricks, nilBids, playerTricks)

	nilResults := make([]NilResult, 0, len(nilBids))
	for _, nb := range nilBids {
		value := nilValue
		if nb.IsBlindNil {
			value = blindNilValue
		}
		succeeded := playerTricks[nb.PlayerID] == 0
		points := value
		if !succeeded {
			points = -value
		}
		nilResults = append(nilResults, NilResult{
			PlayerID:   nb.PlayerID,
			IsBlindNil: nb.IsBlindNil,
			Succeeded:  succeeded,
			Points:     points,
		})
	}

	return TeamRoundResult{
		Bid:        bid,
		Tricks:     tricks,
		Points:     calc.TotalScore,
		Bags:       calc.Bags,
		BagPenalty: g.Scores.ByTeam(team).Bags+calc.Bags >= cfg.BagPenaltyThreshold,
		NilResults: nilResults,
	}
}

// teamRoundInputs derives a team's non-nil bid, trick count and nil bids
// from the current round.
func teamRoundInputs(g GameState, team TeamID, playerTricks map[string]int) (bid, tricks int, nilBids []PlayerBid) {
	ids := g.TeamPlayerIDs(team)
	bid = TeamBidTotal(g.Round.Bids, ids)
	for _, id := range ids {
		tricks += playerTricks[id]
		for _, b := range g.Round.Bids {
			if b.PlayerID == id && (b.IsNil || b.IsBlindNil) {
				nilBids = append(nilBids, b)
			}
		}
	}
	return bid, tricks, nilBids
}
