package server

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"spades/internal/bots"
	"spades/internal/engine"
	"spades/internal/mods"
)

// nextRoundDelay is how long the round summary stays on screen before the
// next deal goes out. Scheduling lives here, not in the engine.
const nextRoundDelay = 3 * time.Second

var errBidDisabled = errors.New("bid disabled by an active rule variant")

// Notifier delivers outbound messages. The websocket hub implements it;
// tests substitute their own.
type Notifier interface {
	Broadcast(roomID string, msg ServerMessage)
	SendTo(playerID string, msg ServerMessage)
}

// Room serializes every action against one game. All mutation of the game
// state goes through dispatch under the room mutex, so two concurrent plays
// can never race the same snapshot.
type Room struct {
	mu       sync.Mutex
	ID       string
	state    engine.GameState
	cfg      engine.GameConfig
	pipeline *mods.Pipeline
	hands    map[string][]engine.Card
	bots     map[string]bots.Bot
	notify   Notifier
	log      *zap.Logger

	nextRound *time.Timer
}

// NewRoom creates a room around a fresh game. The mod pipeline adjusts the
// config exactly once, here; it never changes mid-round.
func NewRoom(id string, seed int64, cfg engine.GameConfig, pipeline *mods.Pipeline, notify Notifier, log *zap.Logger) *Room {
	if pipeline == nil {
		pipeline = mods.NewPipeline()
	}
	cfg = pipeline.ModifyConfig(cfg)
	return &Room{
		ID:       id,
		state:    engine.NewGame(id, seed, cfg),
		cfg:      cfg,
		pipeline: pipeline,
		hands:    map[string][]engine.Card{},
		bots:     map[string]bots.Bot{},
		notify:   notify,
		log:      log,
	}
}

func (r *Room) Config() engine.GameConfig {
	return r.cfg
}

// State returns the current snapshot. Snapshots are immutable values, so the
// caller may read it without holding the room lock.
func (r *Room) State() engine.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Hand returns the server-side authoritative hand for a player.
func (r *Room) Hand(playerID string) []engine.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Card(nil), r.hands[playerID]...)
}

func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextRound != nil {
		r.nextRound.Stop()
		r.nextRound = nil
	}
}

// dispatch applies one action under the caller-held lock, caching dealt
// hands and pushing them privately to each player.
func (r *Room) dispatch(action engine.Action) engine.ActionResult {
	res := engine.ProcessActionWith(r.state, action, r.cfg, r.pipeline)
	if !res.Valid {
		return res
	}
	r.state = res.State

	for _, effect := range res.Effects {
		if effect.Type != engine.EffectDealHands {
			continue
		}
		for playerID, hand := range effect.Hands {
			r.hands[playerID] = hand
			if r.notify != nil {
				r.notify.SendTo(playerID, ServerMessage{
					Type: "cards_dealt",
					Hand: cardsToDTO(hand),
				})
			}
		}
	}
	return res
}

func (r *Room) Join(playerID, nickname string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerJoin, PlayerID: playerID, Nickname: nickname})
	if !res.Valid {
		return 0, res.Err
	}
	player, _ := r.state.PlayerByPosition(len(r.state.Players) - 1)
	r.broadcastLocked([]Event{{Type: "player_joined", Data: map[string]interface{}{
		"playerId": playerID,
		"nickname": nickname,
		"position": player.Position,
	}}})
	return player.Position, nil
}

func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerLeave, PlayerID: playerID})
	if !res.Valid {
		return res.Err
	}
	r.broadcastLocked([]Event{{Type: "player_left", Data: map[string]interface{}{"playerId": playerID}}})
	return nil
}

func (r *Room) Ready(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerReady, PlayerID: playerID})
	if !res.Valid {
		return res.Err
	}
	r.broadcastLocked([]Event{{Type: "player_ready", Data: map[string]interface{}{"playerId": playerID}}})
	return nil
}

func (r *Room) Reconnect(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerReconnect, PlayerID: playerID})
	if !res.Valid {
		return res.Err
	}
	r.broadcastLocked([]Event{{Type: "player_reconnected", Data: map[string]interface{}{"playerId": playerID}}})
	return nil
}

func (r *Room) Disconnect(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerDisconnect, PlayerID: playerID})
	if !res.Valid {
		return res.Err
	}
	r.broadcastLocked([]Event{{Type: "player_disconnected", Data: map[string]interface{}{"playerId": playerID}}})
	return nil
}

// StartGame advances ready -> dealing and immediately deals the first round.
func (r *Room) StartGame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionStartGame})
	if !res.Valid {
		return res.Err
	}
	deal := r.dispatch(engine.Action{Type: engine.ActionDealCards})
	if !deal.Valid {
		return deal.Err
	}
	r.broadcastLocked([]Event{{Type: "game_started"}})
	r.botTurnsLocked()
	return nil
}

// AddBot fills an open seat with a bot that bids and plays automatically.
// Bots join ready, so a table can go from one human to a full game.
func (r *Room) AddBot(playerID, nickname string, bot bots.Bot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionPlayerJoin, PlayerID: playerID, Nickname: nickname})
	if !res.Valid {
		return 0, res.Err
	}
	r.bots[playerID] = bot
	player, _ := r.state.PlayerByPosition(len(r.state.Players) - 1)

	ready := r.dispatch(engine.Action{Type: engine.ActionPlayerReady, PlayerID: playerID})
	if !ready.Valid {
		return 0, ready.Err
	}
	r.broadcastLocked([]Event{{Type: "player_joined", Data: map[string]interface{}{
		"playerId": playerID,
		"nickname": nickname,
		"position": player.Position,
		"isBot":    true,
	}}})
	return player.Position, nil
}

// botTurnsLocked lets seated bots act until a human is on turn or the phase
// leaves bidding/playing. The step bound guards against a misbehaving bot
// stalling the loop with invalid actions.
func (r *Room) botTurnsLocked() {
	for step := 0; step < 64; step++ {
		if r.state.Phase != engine.PhaseBidding && r.state.Phase != engine.PhasePlaying {
			return
		}
		current, ok := r.state.PlayerByPosition(r.state.CurrentPosition)
		if !ok {
			return
		}
		bot, isBot := r.bots[current.ID]
		if !isBot {
			return
		}

		action := bot.ChooseAction(r.state, current.ID)
		var err error
		switch action.Type {
		case engine.ActionMakeBid:
			err = r.makeBidLocked(current.ID, action.Bid, action.IsNil, action.IsBlindNil)
		case engine.ActionPlayCard:
			if action.Card == nil {
				err = engine.ErrCardNotInHand
			} else {
				err = r.playCardLocked(current.ID, *action.Card)
			}
		default:
			return
		}
		if err != nil && action.Type == engine.ActionMakeBid {
			// A rule variant may reject the bot's preferred bid; fall back
			// to the lowest value the table accepts.
			for v := 0; v <= 13 && err != nil; v++ {
				err = r.makeBidLocked(current.ID, v, false, false)
			}
		}
		if err != nil {
			r.log.Warn("bot action rejected",
				zap.String("room", r.ID),
				zap.String("player", current.ID),
				zap.Error(err))
			return
		}
	}
}

func (r *Room) MakeBid(playerID string, bid int, isNil, isBlindNil bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.makeBidLocked(playerID, bid, isNil, isBlindNil); err != nil {
		return err
	}
	r.botTurnsLocked()
	return nil
}

func (r *Room) makeBidLocked(playerID string, bid int, isNil, isBlindNil bool) error {
	if err := engine.ValidateBid(r.state, playerID, bid, isNil, isBlindNil, r.cfg); err != nil {
		return err
	}

	ctx := &mods.BidContext{
		State:      r.state,
		Config:     r.cfg,
		PlayerID:   playerID,
		Bid:        bid,
		IsNil:      isNil,
		IsBlindNil: isBlindNil,
	}
	r.pipeline.ValidateBid(ctx)
	if ctx.Err != nil {
		return ctx.Err
	}
	if !isNil && !isBlindNil {
		for _, disabled := range r.pipeline.DisabledBids(r.state, r.cfg, playerID) {
			if bid == disabled {
				return errBidDisabled
			}
		}
	}

	res := r.dispatch(engine.Action{
		Type:       engine.ActionMakeBid,
		PlayerID:   playerID,
		Bid:        bid,
		IsNil:      isNil,
		IsBlindNil: isBlindNil,
	})
	if !res.Valid {
		return res.Err
	}

	r.broadcastLocked([]Event{{Type: "bid_made", Data: map[string]interface{}{
		"playerId":   playerID,
		"bid":        bid,
		"isNil":      isNil,
		"isBlindNil": isBlindNil,
	}}})
	return nil
}

// PlayCard validates and applies one play, then performs the mandatory
// auto-chain: COLLECT_TRICK when the play completed a trick, END_ROUND when
// that archived the thirteenth. Side effects from the chain surface to
// clients as one ordered batch.
func (r *Room) PlayCard(playerID string, card engine.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.playCardLocked(playerID, card); err != nil {
		return err
	}
	r.botTurnsLocked()
	return nil
}

func (r *Room) playCardLocked(playerID string, card engine.Card) error {
	// Defense in depth: check the cached hand before the engine re-checks
	// the authoritative one. The two must agree.
	if !engine.HasCard(r.hands[playerID], card) {
		return engine.ErrCardNotInHand
	}

	ctx := &mods.PlayContext{
		State:    r.state,
		Config:   r.cfg,
		PlayerID: playerID,
		Card:     card,
		Hand:     r.hands[playerID],
	}
	r.pipeline.ValidatePlay(ctx)
	if ctx.Err != nil {
		return ctx.Err
	}

	res := r.dispatch(engine.Action{Type: engine.ActionPlayCard, PlayerID: playerID, Card: &card})
	if !res.Valid {
		return res.Err
	}
	r.hands[playerID] = engine.RemoveCard(r.hands[playerID], card)
	r.pipeline.CardPlayed(r.state, playerID, card)

	effects := res.Effects
	events := []Event{{Type: "card_played", Data: map[string]interface{}{
		"playerId": playerID,
		"card":     cardToDTO(card),
	}}}

	if r.state.Phase == engine.PhaseTrickEnd {
		completed := r.state.Round.CurrentTrick
		collect := r.dispatch(engine.Action{Type: engine.ActionCollectTrick})
		if !collect.Valid {
			return collect.Err
		}
		effects = append(effects, collect.Effects...)
		r.pipeline.TrickComplete(r.state, completed, completed.Winner)

		if r.state.Phase == engine.PhaseRoundEnd {
			end := r.dispatch(engine.Action{Type: engine.ActionEndRound})
			if !end.Valid {
				return end.Err
			}
			effects = append(effects, end.Effects...)
		}
	}

	events = append(events, effectsToEvents(r.state, effects)...)
	r.broadcastLocked(events)
	r.afterEffectsLocked(effects)
	return nil
}

// afterEffectsLocked reacts to round and game completion: notifies round
// observers and schedules the next deal when the game continues.
func (r *Room) afterEffectsLocked(effects []engine.SideEffect) {
	for _, effect := range effects {
		if effect.Type != engine.EffectRoundComplete {
			continue
		}
		r.pipeline.RoundEnd(r.state, *effect.Summary)
		if r.state.Phase == engine.PhaseGameEnd {
			continue
		}
		if r.nextRound != nil {
			r.nextRound.Stop()
		}
		r.nextRound = time.AfterFunc(nextRoundDelay, r.startNextRound)
	}
}

func (r *Room) startNextRound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.dispatch(engine.Action{Type: engine.ActionStartNextRound})
	if !res.Valid {
		r.log.Warn("start next round failed", zap.String("room", r.ID), zap.Error(res.Err))
		return
	}
	deal := r.dispatch(engine.Action{Type: engine.ActionDealCards})
	if !deal.Valid {
		r.log.Warn("deal failed", zap.String("room", r.ID), zap.Error(deal.Err))
		return
	}
	r.broadcastLocked(nil)
	r.botTurnsLocked()
}

// viewLocked builds the shared client projection, with the advisory
// disabled-bid list attached while someone is on turn to bid.
func (r *Room) viewLocked() *GameView {
	var disabled []int
	if r.state.Phase == engine.PhaseBidding {
		if current, ok := r.state.PlayerByPosition(r.state.CurrentPosition); ok {
			disabled = r.pipeline.DisabledBids(r.state, r.cfg, current.ID)
		}
	}
	return BuildGameView(r.state, disabled)
}

// View returns the current client projection.
func (r *Room) View() *GameView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Room) broadcastLocked(events []Event) {
	if r.notify == nil {
		return
	}
	r.notify.Broadcast(r.ID, ServerMessage{
		Type:   "state",
		State:  r.viewLocked(),
		Events: events,
	})
}
