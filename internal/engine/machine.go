package engine

import (
	"fmt"
	"math/rand"
	"time"
)

type ActionType int

const (
	ActionPlayerJoin ActionType = iota
	ActionPlayerLeave
	ActionPlayerReady
	ActionPlayerReconnect
	ActionPlayerDisconnect
	ActionStartGame
	ActionDealCards
	ActionMakeBid
	ActionPlayCard
	ActionCollectTrick
	ActionEndRound
	ActionStartNextRound
)

func (t ActionType) String() string {
	switch t {
	case ActionPlayerJoin:
		return "PLAYER_JOIN"
	case ActionPlayerLeave:
		return "PLAYER_LEAVE"
	case ActionPlayerReady:
		return "PLAYER_READY"
	case ActionPlayerReconnect:
		return "PLAYER_RECONNECT"
	case ActionPlayerDisconnect:
		return "PLAYER_DISCONNECT"
	case ActionStartGame:
		return "START_GAME"
	case ActionDealCards:
		return "DEAL_CARDS"
	case ActionMakeBid:
		return "MAKE_BID"
	case ActionPlayCard:
		return "PLAY_CARD"
	case ActionCollectTrick:
		return "COLLECT_TRICK"
	case ActionEndRound:
		return "END_ROUND"
	case ActionStartNextRound:
		return "START_NEXT_ROUND"
	default:
		return "UNKNOWN"
	}
}

// Action is one player- or caller-driven input to the machine. Fields beyond
// Type are populated per action kind.
type Action struct {
	Type       ActionType
	PlayerID   string
	Nickname   string
	Bid        int
	IsNil      bool
	IsBlindNil bool
	Card       *Card
}

type EffectType int

const (
	EffectDealHands EffectType = iota
	EffectTrickComplete
	EffectRoundComplete
	EffectGameComplete
)

// SideEffect describes work the transport layer must perform after a
// transition: private hand delivery, trick/round/game announcements. The
// machine never performs any of it itself.
type SideEffect struct {
	Type        EffectType
	Hands       map[string][]Card
	WinnerID    string
	TrickNumber int
	Summary     *RoundSummary
	Winner      TeamID
}

// ActionResult is the outcome of one transition. On an invalid action State
// is the untouched input state and Err carries the rule violation.
type ActionResult struct {
	State   GameState
	Valid   bool
	Err     error
	Effects []SideEffect
}

// ScoreContext is handed to rule variants revising a team's round score.
type ScoreContext struct {
	State   GameState
	Config  GameConfig
	Team    TeamID
	Bid     int
	Tricks  int
	NilBids []PlayerBid
	Calc    ScoreCalculation
}

// ScoreReviser lets registered rule variants rewrite a team's computed round
// score. The machine calls it without knowing who is behind it.
type ScoreReviser interface {
	ReviseScore(ScoreContext) ScoreCalculation
}

var validTransitions = map[Phase][]Phase{
	PhaseWaiting:  {PhaseReady},
	PhaseReady:    {PhaseDealing},
	PhaseDealing:  {PhaseBidding},
	PhaseBidding:  {PhasePlaying},
	PhasePlaying:  {PhaseTrickEnd, PhasePlaying},
	PhaseTrickEnd: {PhasePlaying, PhaseRoundEnd},
	PhaseRoundEnd: {PhaseDealing, PhaseGameEnd},
	PhaseGameEnd:  {},
}

// CanTransition reports whether the phase lifecycle permits from -> to.
func CanTransition(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// ProcessAction applies one action to a snapshot of game state and returns
// the resulting snapshot, validity, and side effects. The input state is
// never modified; deals are derived from the state's seed so that identical
// inputs always produce identical outputs.
func ProcessAction(state GameState, action Action, cfg GameConfig) ActionResult {
	return ProcessActionWith(state, action, cfg, nil)
}

// ProcessActionWith is ProcessAction with an optional score reviser consulted
// during END_ROUND. A nil reviser leaves the base scoring untouched.
func ProcessActionWith(state GameState, action Action, cfg GameConfig, scorer ScoreReviser) ActionResult {
	next := state.Clone()
	next.LastActivity = time.Now().UnixMilli()

	switch action.Type {
	case ActionPlayerJoin:
		return handlePlayerJoin(state, next, action.PlayerID, action.Nickname)
	case ActionPlayerLeave:
		return handlePlayerLeave(state, next, action.PlayerID)
	case ActionPlayerReady:
		return handlePlayerReady(state, next, action.PlayerID)
	case ActionPlayerReconnect:
		return handleConnectivity(state, next, action.PlayerID, true)
	case ActionPlayerDisconnect:
		return handleConnectivity(state, next, action.PlayerID, false)
	case ActionStartGame:
		return handleStartGame(state, next)
	case ActionDealCards:
		return handleDealCards(state, next)
	case ActionMakeBid:
		return handleMakeBid(state, next, action, cfg)
	case ActionPlayCard:
		return handlePlayCard(state, next, action)
	case ActionCollectTrick:
		return handleCollectTrick(state, next)
	case ActionEndRound:
		return handleEndRound(state, next, cfg, scorer)
	case ActionStartNextRound:
		return handleStartNextRound(state, next)
	default:
		return invalid(state, fmt.Errorf("unknown action type %d", action.Type))
	}
}

func invalid(state GameState, err error) ActionResult {
	return ActionResult{State: state, Valid: false, Err: err}
}

func handlePlayerJoin(prev, next GameState, playerID, nickname string) ActionResult {
	if next.Phase != PhaseWaiting {
		return invalid(prev, ErrPhaseMismatch)
	}
	if len(next.Players) >= 4 {
		return invalid(prev, ErrRoomFull)
	}
	if _, ok := next.playerByID(playerID); ok {
		return invalid(prev, ErrPlayerExists)
	}

	position := len(next.Players)
	next.Players = append(next.Players, Player{
		ID:        playerID,
		Nickname:  nickname,
		Position:  position,
		Team:      TeamForPosition(position),
		Hand:      []Card{},
		Connected: true,
	})
	return ActionResult{State: next, Valid: true}
}

func handlePlayerLeave(prev, next GameState, playerID string) ActionResult {
	if _, ok := next.playerByID(playerID); !ok {
		return invalid(prev, ErrPlayerNotFound)
	}

	// Mid-game a leave only drops connectivity; the seat stays occupied.
	if next.Phase != PhaseWaiting {
		return handleConnectivity(prev, next, playerID, false)
	}

	remaining := make([]Player, 0, len(next.Players))
	for _, p := range next.Players {
		if p.ID == playerID {
			continue
		}
		// Reseat contiguously from 0; teams follow the new parity.
		p.Position = len(remaining)
		p.Team = TeamForPosition(p.Position)
		remaining = append(remaining, p)
	}
	next.Players = remaining
	return ActionResult{State: next, Valid: true}
}

func handlePlayerReady(prev, next GameState, playerID string) ActionResult {
	if next.Phase != PhaseWaiting {
		return invalid(prev, ErrPhaseMismatch)
	}
	idx := next.playerIndexByID(playerID)
	if idx < 0 {
		return invalid(prev, ErrPlayerNotFound)
	}
	next.Players[idx].Ready = true

	allReady := len(next.Players) == 4
	for _, p := range next.Players {
		if !p.Ready {
			allReady = false
			break
		}
	}
	if allReady {
		next.Phase = PhaseReady
	}
	return ActionResult{State: next, Valid: true}
}

func handleConnectivity(prev, next GameState, playerID string, connected bool) ActionResult {
	idx := next.playerIndexByID(playerID)
	if idx < 0 {
		return invalid(prev, ErrPlayerNotFound)
	}
	next.Players[idx].Connected = connected
	return ActionResult{State: next, Valid: true}
}

func handleStartGame(prev, next GameState) ActionResult {
	if next.Phase != PhaseReady {
		return invalid(prev, ErrPhaseMismatch)
	}
	next.Phase = PhaseDealing
	return ActionResult{State: next, Valid: true}
}

func handleDealCards(prev, next GameState) ActionResult {
	if next.Phase != PhaseDealing {
		return invalid(prev, ErrPhaseMismatch)
	}

	roundNumber := 1
	if next.Round != nil {
		roundNumber = next.Round.Number + 1
	}

	rng := rand.New(rand.NewSource(next.Seed + int64(roundNumber)))
	hands := DealHands(NewDeck(), 4, rng)

	dealt := make(map[string][]Card, len(next.Players))
	for i := range next.Players {
		hand := hands[next.Players[i].Position]
		next.Players[i].Hand = hand
		dealt[next.Players[i].ID] = append([]Card(nil), hand...)
	}

	next.Phase = PhaseBidding
	next.Round = NewRound(roundNumber)
	next.CurrentPosition = (next.DealerPosition + 1) % 4

	return ActionResult{
		State:   next,
		Valid:   true,
		Effects: []SideEffect{{Type: EffectDealHands, Hands: dealt}},
	}
}

func handleMakeBid(prev, next GameState, action Action, cfg GameConfig) ActionResult {
	if err := ValidateBid(next, action.PlayerID, action.Bid, action.IsNil, action.IsBlindNil, cfg); err != nil {
		return invalid(prev, err)
	}

	next.Round.Bids = append(next.Round.Bids, NewBid(action.PlayerID, action.Bid, action.IsNil, action.IsBlindNil))

	if AllBidsComplete(next) {
		// The first trick is always led from the dealer's left, regardless
		// of who bid last.
		next.Phase = PhasePlaying
		next.CurrentPosition = (next.DealerPosition + 1) % 4
	} else {
		next.CurrentPosition = (next.CurrentPosition + 1) % 4
	}
	return ActionResult{State: next, Valid: true}
}

func handlePlayCard(prev, next GameState, action Action) ActionResult {
	if action.Card == nil {
		return invalid(prev, ErrCardNotInHand)
	}
	card := *action.Card

	idx := next.playerIndexByID(action.PlayerID)
	var hand []Card
	if idx >= 0 {
		hand = next.Players[idx].Hand
	}
	if err := ValidatePlay(next, action.PlayerID, card, hand); err != nil {
		return invalid(prev, err)
	}

	next.Players[idx].Hand = RemoveCard(hand, card)
	next.Round.CurrentTrick = AddPlay(next.Round.CurrentTrick, TrickPlay{PlayerID: action.PlayerID, Card: card})
	if card.Suit == SuitSpades {
		next.Round.SpadesBroken = true
	}

	var effects []SideEffect
	if IsTrickComplete(next.Round.CurrentTrick) {
		// Current-player pointer stays stale until COLLECT_TRICK resolves
		// the winner's seat.
		next.Phase = PhaseTrickEnd
		effects = append(effects, SideEffect{
			Type:        EffectTrickComplete,
			WinnerID:    next.Round.CurrentTrick.Winner,
			TrickNumber: len(next.Round.Tricks) + 1,
		})
	} else {
		next.CurrentPosition = (next.CurrentPosition + 1) % 4
	}
	return ActionResult{State: next, Valid: true, Effects: effects}
}

func handleCollectTrick(prev, next GameState) ActionResult {
	if next.Phase != PhaseTrickEnd {
		return invalid(prev, ErrPhaseMismatch)
	}
	if next.Round == nil {
		return invalid(prev, ErrNoActiveRound)
	}

	trick := next.Round.CurrentTrick
	if trick.Winner == "" {
		// Reaching trick-end without a resolved winner means the caller
		// broke the phase-gating contract, not that a player misplayed.
		panic("engine: collect trick with no winner")
	}
	winner, ok := next.playerByID(trick.Winner)
	if !ok {
		panic("engine: trick winner not seated")
	}

	next.Round.Tricks = append(next.Round.Tricks, trick)
	next.Round.CurrentTrick = NewTrick()
	next.CurrentPosition = winner.Position

	if len(next.Round.Tricks) == 13 {
		next.Phase = PhaseRoundEnd
	} else {
		next.Phase = PhasePlaying
	}
	return ActionResult{State: next, Valid: true}
}

func handleEndRound(prev, next GameState, cfg GameConfig, scorer ScoreReviser) ActionResult {
	if next.Phase != PhaseRoundEnd {
		return invalid(prev, ErrPhaseMismatch)
	}
	if next.Round == nil {
		return invalid(prev, ErrNoActiveRound)
	}

	playerTricks := make(map[string]int, len(next.Players))
	for _, p := range next.Players {
		playerTricks[p.ID] = 0
	}
	for _, t := range next.Round.Tricks {
		if t.Winner != "" {
			playerTricks[t.Winner]++
		}
	}

	summary := NewRoundSummary(next, playerTricks, cfg)

	for _, team := range []TeamID{Team1, Team2} {
		bid, tricks, nilBids := teamRoundInputs(next, team, playerTricks)
		calc := RoundScore(bid, tricks, nilBids, playerTricks)
		if scorer != nil {
			calc = scorer.ReviseScore(ScoreContext{
				State:   next,
				Config:  cfg,
				Team:    team,
				Bid:     bid,
				Tricks:  tricks,
				NilBids: nilBids,
				Calc:    calc,
			})
		}
		updated := ApplyRoundScore(next.Scores.ByTeam(team), calc, cfg)
		updated.RoundBid = bid
		updated.RoundTricks = tricks
		if team == Team1 {
			next.Scores.Team1 = updated
		} else {
			next.Scores.Team2 = updated
		}
	}

	next.DealerPosition = (next.DealerPosition + 1) % 4

	effects := []SideEffect{{Type: EffectRoundComplete, Summary: &summary}}
	if winner, ok := GameWinner(next.Scores, next.WinningScore); ok {
		next.Phase = PhaseGameEnd
		effects = append(effects, SideEffect{Type: EffectGameComplete, Winner: winner})
	}
	return ActionResult{State: next, Valid: true, Effects: effects}
}

func handleStartNextRound(prev, next GameState) ActionResult {
	if next.Phase != PhaseRoundEnd {
		return invalid(prev, ErrPhaseMismatch)
	}

	for i := range next.Players {
		next.Players[i].Hand = []Card{}
	}
	next.Scores.Team1.RoundBid, next.Scores.Team1.RoundTricks = 0, 0
	next.Scores.Team2.RoundBid, next.Scores.Team2.RoundTricks = 0, 0
	next.Phase = PhaseDealing
	return ActionResult{State: next, Valid: true}
}
