package engine

import (
	"fmt"
	"time"
)

type Suit int

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
)

// Suits lists every suit in canonical deck order.
var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

func (s Suit) String() string {
	switch s {
	case SuitSpades:
		return "spades"
	case SuitHearts:
		return "hearts"
	case SuitDiamonds:
		return "diamonds"
	case SuitClubs:
		return "clubs"
	default:
		return "?"
	}
}

// Rank values are the numeric trick-comparison order: 2 low, ace high.
type Rank int

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
)

// Ranks lists every rank in canonical deck order.
var Ranks = []Rank{
	Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8,
	Rank9, Rank10, RankJ, RankQ, RankK, RankA,
}

func (r Rank) String() string {
	switch {
	case r >= Rank2 && r <= Rank10:
		return fmt.Sprintf("%d", int(r))
	case r == RankJ:
		return "J"
	case r == RankQ:
		return "Q"
	case r == RankK:
		return "K"
	case r == RankA:
		return "A"
	default:
		return "?"
	}
}

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseReady
	PhaseDealing
	PhaseBidding
	PhasePlaying
	PhaseTrickEnd
	PhaseRoundEnd
	PhaseGameEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseReady:
		return "ready"
	case PhaseDealing:
		return "dealing"
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseTrickEnd:
		return "trick-end"
	case PhaseRoundEnd:
		return "round-end"
	case PhaseGameEnd:
		return "game-end"
	default:
		return "unknown"
	}
}

type TeamID string

const (
	Team1 TeamID = "team1"
	Team2 TeamID = "team2"
)

// TeamForPosition derives the fixed partnership from seat parity:
// seats 0 and 2 are team1, seats 1 and 3 are team2.
func TeamForPosition(position int) TeamID {
	if position%2 == 0 {
		return Team1
	}
	return Team2
}

func PartnerPosition(position int) int {
	return (position + 2) % 4
}

type Player struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	Position  int    `json:"position"`
	Team      TeamID `json:"team"`
	Hand      []Card `json:"hand"`
	Connected bool   `json:"connected"`
	Ready     bool   `json:"ready"`
}

// PlayerBid records one seat's bid. A nil or blind-nil bid always carries
// Bid == 0 regardless of the value the player submitted.
type PlayerBid struct {
	PlayerID   string `json:"playerId"`
	Bid        int    `json:"bid"`
	IsNil      bool   `json:"isNil"`
	IsBlindNil bool   `json:"isBlindNil"`
}

type TrickPlay struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Trick holds up to four plays in play order. LeadSuit is set by the first
// play and never changes for the rest of the trick. Winner is non-empty
// exactly when four plays are present.
type Trick struct {
	Plays    []TrickPlay `json:"plays"`
	LeadSuit *Suit       `json:"leadSuit"`
	Winner   string      `json:"winner"`
}

func NewTrick() Trick {
	return Trick{}
}

type RoundState struct {
	Number       int         `json:"roundNumber"`
	Bids         []PlayerBid `json:"bids"`
	Tricks       []Trick     `json:"tricks"`
	CurrentTrick Trick       `json:"currentTrick"`
	SpadesBroken bool        `json:"spadesBroken"`
}

func NewRound(number int) *RoundState {
	return &RoundState{
		Number:       number,
		CurrentTrick: NewTrick(),
	}
}

type TeamScore struct {
	Team        TeamID `json:"teamId"`
	Score       int    `json:"score"`
	Bags        int    `json:"bags"`
	RoundBid    int    `json:"roundBid"`
	RoundTricks int    `json:"roundTricks"`
}

type Scores struct {
	Team1 TeamScore `json:"team1"`
	Team2 TeamScore `json:"team2"`
}

func (s Scores) ByTeam(team TeamID) TeamScore {
	if team == Team1 {
		return s.Team1
	}
	return s.Team2
}

type GameConfig struct {
	WinningScore        int  `json:"winningScore"`
	AllowNil            bool `json:"allowNil"`
	AllowBlindNil       bool `json:"allowBlindNil"`
	BagPenaltyThreshold int  `json:"bagPenaltyThreshold"`
	BagPenalty          int  `json:"bagPenalty"`
}

func DefaultConfig() GameConfig {
	return GameConfig{
		WinningScore:        500,
		AllowNil:            true,
		AllowBlindNil:       true,
		BagPenaltyThreshold: 10,
		BagPenalty:          100,
	}
}

// GameState is the single source of truth for one table. Transitions never
// mutate a state in place: ProcessAction deep-copies before applying, so a
// previously returned snapshot stays valid for concurrent readers.
type GameState struct {
	ID              string      `json:"id"`
	Phase           Phase       `json:"phase"`
	Players         []Player    `json:"players"`
	Scores          Scores      `json:"scores"`
	Round           *RoundState `json:"currentRound"`
	DealerPosition  int         `json:"dealerPosition"`
	CurrentPosition int         `json:"currentPlayerPosition"`
	WinningScore    int         `json:"winningScore"`
	Seed            int64       `json:"seed"`
	CreatedAt       int64       `json:"createdAt"`
	LastActivity    int64       `json:"lastActivity"`
}

func NewGame(id string, seed int64, cfg GameConfig) GameState {
	now := time.Now().UnixMilli()
	return GameState{
		ID:    id,
		Phase: PhaseWaiting,
		Scores: Scores{
			Team1: TeamScore{Team: Team1},
			Team2: TeamScore{Team: Team2},
		},
		DealerPosition:  0,
		CurrentPosition: 1,
		WinningScore:    cfg.WinningScore,
		Seed:            seed,
		CreatedAt:       now,
		LastActivity:    now,
	}
}

// Clone returns a deep copy sharing no slices with the receiver.
func (g GameState) Clone() GameState {
	out := g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		out.Players[i] = p
		out.Players[i].Hand = append([]Card(nil), p.Hand...)
	}
	if g.Round != nil {
		round := *g.Round
		round.Bids = append([]PlayerBid(nil), g.Round.Bids...)
		round.Tricks = nil
		if g.Round.Tricks != nil {
			round.Tricks = make([]Trick, len(g.Round.Tricks))
			for i, t := range g.Round.Tricks {
				round.Tricks[i] = cloneTrick(t)
			}
		}
		round.CurrentTrick = cloneTrick(g.Round.CurrentTrick)
		out.Round = &round
	}
	return out
}

func cloneTrick(t Trick) Trick {
	out := t
	out.Plays = append([]TrickPlay(nil), t.Plays...)
	if t.LeadSuit != nil {
		lead := *t.LeadSuit
		out.LeadSuit = &lead
	}
	return out
}

func (g GameState) playerByID(id string) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (g GameState) playerIndexByID(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlayerByPosition returns the seated player at the given position.
func (g GameState) PlayerByPosition(position int) (Player, bool) {
	for _, p := range g.Players {
		if p.Position == position {
			return p, true
		}
	}
	return Player{}, false
}

// TeamPlayerIDs returns the ids of the two seats on a team, in seat order.
func (g GameState) TeamPlayerIDs(team TeamID) []string {
	ids := make([]string, 0, 2)
	for _, p := range g.Players {
		if p.Team == team {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
