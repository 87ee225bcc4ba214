package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"spades/internal/bots"
	"spades/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn wraps a websocket connection with a write lock; gorilla connections
// allow only one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub routes outbound messages to live connections. It implements Notifier.
type Hub struct {
	mu      sync.Mutex
	conns   map[string]*wsConn         // playerID -> connection
	members map[string]map[string]bool // roomID -> playerIDs
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns:   map[string]*wsConn{},
		members: map[string]map[string]bool{},
		log:     log,
	}
}

func (h *Hub) Register(playerID, roomID string, conn *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[playerID] = conn
	if h.members[roomID] == nil {
		h.members[roomID] = map[string]bool{}
	}
	h.members[roomID][playerID] = true
}

func (h *Hub) Unregister(playerID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, playerID)
	if set := h.members[roomID]; set != nil {
		delete(set, playerID)
		if len(set) == 0 {
			delete(h.members, roomID)
		}
	}
}

func (h *Hub) Broadcast(roomID string, msg ServerMessage) {
	h.mu.Lock()
	var targets []*wsConn
	for playerID := range h.members[roomID] {
		if conn, ok := h.conns[playerID]; ok {
			targets = append(targets, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range targets {
		if err := conn.send(msg); err != nil {
			h.log.Debug("broadcast write failed", zap.Error(err))
		}
	}
}

func (h *Hub) SendTo(playerID string, msg ServerMessage) {
	h.mu.Lock()
	conn, ok := h.conns[playerID]
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.send(msg); err != nil {
		h.log.Debug("direct write failed", zap.String("player", playerID), zap.Error(err))
	}
}

// WSHandler upgrades HTTP requests and runs the per-connection message loop.
type WSHandler struct {
	manager *Manager
	hub     *Hub
	log     *zap.Logger
}

func NewWSHandler(manager *Manager, hub *Hub, log *zap.Logger) *WSHandler {
	return &WSHandler{manager: manager, hub: hub, log: log}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	c := &wsConn{conn: conn}
	defer conn.Close()

	var session *Session
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(c, "bad_request", "invalid json")
			continue
		}
		session = h.handleMessage(c, session, msg)
	}

	if session != nil {
		h.hub.Unregister(session.PlayerID, session.RoomID)
		if room, ok := h.manager.Room(session.RoomID); ok {
			if err := room.Disconnect(session.PlayerID); err != nil {
				h.log.Debug("disconnect ignored", zap.Error(err))
			}
		}
	}
}

// handleMessage processes one frame and returns the connection's session,
// which changes when a player joins, reconnects, or leaves.
func (h *WSHandler) handleMessage(c *wsConn, session *Session, msg ClientMessage) *Session {
	if session != nil {
		h.manager.Touch(session.Token)
	}

	switch msg.Type {
	case "room_create":
		if session != nil {
			h.sendError(c, "already_seated", "leave the current room first")
			return session
		}
		room := h.manager.CreateRoom(msg.Mods)
		return h.seat(c, room, msg.Nickname, "room_created")

	case "room_join":
		if session != nil {
			h.sendError(c, "already_seated", "leave the current room first")
			return session
		}
		room, ok := h.manager.Room(msg.RoomID)
		if !ok {
			h.sendError(c, "room_not_found", "no such room")
			return nil
		}
		return h.seat(c, room, msg.Nickname, "room_joined")

	case "room_leave":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		if err := room.Leave(session.PlayerID); err != nil {
			h.sendActionError(c, err)
			return session
		}
		h.hub.Unregister(session.PlayerID, session.RoomID)
		h.manager.DropSession(session.Token)
		return nil

	case "room_ready":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		if err := room.Ready(session.PlayerID); err != nil {
			h.sendActionError(c, err)
			return session
		}
		// The last ready starts the game; there is no separate host action.
		if room.State().Phase == engine.PhaseReady {
			if err := room.StartGame(); err != nil {
				h.log.Warn("start game failed", zap.String("room", room.ID), zap.Error(err))
			}
		}
		return session

	case "add_bot":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		nickname := msg.Nickname
		if nickname == "" {
			nickname = "bot"
		}
		var bot bots.Bot
		seed := time.Now().UnixNano()
		if msg.BotLevel == "easy" {
			bot = bots.NewEasy(seed)
		} else {
			bot = bots.NewNormal(seed)
		}
		if _, err := room.AddBot("bot-"+uuid.NewString()[:8], nickname, bot); err != nil {
			h.sendActionError(c, err)
			return session
		}
		if room.State().Phase == engine.PhaseReady {
			if err := room.StartGame(); err != nil {
				h.log.Warn("start game failed", zap.String("room", room.ID), zap.Error(err))
			}
		}
		return session

	case "bid":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		if err := room.MakeBid(session.PlayerID, msg.Bid, msg.IsNil, msg.IsBlindNil); err != nil {
			h.sendActionError(c, err)
		}
		return session

	case "play_card":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		if msg.Card == nil {
			h.sendError(c, "bad_request", "missing card")
			return session
		}
		card, err := msg.Card.toEngine()
		if err != nil {
			h.sendError(c, "bad_request", err.Error())
			return session
		}
		if err := room.PlayCard(session.PlayerID, card); err != nil {
			h.sendActionError(c, err)
		}
		return session

	case "reconnect":
		restored, ok := h.manager.SessionByToken(msg.SessionToken)
		if !ok {
			h.sendError(c, "session_expired", "session token is no longer valid")
			return session
		}
		room, ok := h.manager.Room(restored.RoomID)
		if !ok {
			h.sendError(c, "room_not_found", "the room has been closed")
			return session
		}
		h.hub.Register(restored.PlayerID, restored.RoomID, c)
		if err := room.Reconnect(restored.PlayerID); err != nil {
			h.sendActionError(c, err)
		}
		h.sendSeated(c, room, restored, "reconnect_success")
		return restored

	case "request_state":
		room, ok := h.roomFor(c, session)
		if !ok {
			return session
		}
		h.sendSeated(c, room, session, "state")
		return session

	default:
		h.sendError(c, "bad_request", "unknown message type: "+msg.Type)
		return session
	}
}

// seat joins a player into a room, mints a session, and replies with the
// room id, token, and seat position.
func (h *WSHandler) seat(c *wsConn, room *Room, nickname, replyType string) *Session {
	if nickname == "" {
		nickname = "player"
	}
	playerID := uuid.NewString()
	position, err := room.Join(playerID, nickname)
	if err != nil {
		h.sendActionError(c, err)
		return nil
	}
	session := h.manager.NewSession(playerID, room.ID)
	h.hub.Register(playerID, room.ID, c)

	reply := ServerMessage{
		Type:         replyType,
		RoomID:       room.ID,
		SessionToken: session.Token,
		Position:     &position,
		State:        room.View(),
	}
	if err := c.send(reply); err != nil {
		h.log.Debug("seat reply failed", zap.Error(err))
	}
	return session
}

func (h *WSHandler) sendSeated(c *wsConn, room *Room, session *Session, replyType string) {
	msg := ServerMessage{
		Type:         replyType,
		RoomID:       room.ID,
		SessionToken: session.Token,
		State:        room.View(),
		Hand:         cardsToDTO(room.Hand(session.PlayerID)),
	}
	if err := c.send(msg); err != nil {
		h.log.Debug("state reply failed", zap.Error(err))
	}
}

func (h *WSHandler) roomFor(c *wsConn, session *Session) (*Room, bool) {
	if session == nil {
		h.sendError(c, "not_seated", "join a room first")
		return nil, false
	}
	room, ok := h.manager.Room(session.RoomID)
	if !ok {
		h.sendError(c, "room_not_found", "the room has been closed")
		return nil, false
	}
	return room, true
}

func (h *WSHandler) sendError(c *wsConn, code, message string) {
	msg := ServerMessage{Type: "error", Error: &ErrorView{Code: code, Message: message}}
	if err := c.send(msg); err != nil {
		h.log.Debug("error reply failed", zap.Error(err))
	}
}

func (h *WSHandler) sendActionError(c *wsConn, err error) {
	h.sendError(c, errorCode(err), err.Error())
}

// errorCode maps engine errors onto stable wire codes for clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrPhaseMismatch):
		return "phase_mismatch"
	case errors.Is(err, engine.ErrRoomFull):
		return "room_full"
	case errors.Is(err, engine.ErrPlayerExists):
		return "player_exists"
	case errors.Is(err, engine.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, engine.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, engine.ErrAlreadyBid):
		return "already_bid"
	case errors.Is(err, engine.ErrNilNotAllowed):
		return "nil_not_allowed"
	case errors.Is(err, engine.ErrBlindNilNotAllowed):
		return "blind_nil_not_allowed"
	case errors.Is(err, engine.ErrInvalidBidValue):
		return "invalid_bid"
	case errors.Is(err, engine.ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, engine.ErrSpadesNotBroken):
		return "spades_not_broken"
	case errors.Is(err, engine.ErrMustFollowSuit):
		return "must_follow_suit"
	case errors.Is(err, engine.ErrNoActiveRound):
		return "no_active_round"
	case errors.Is(err, errBidDisabled):
		return "bid_disabled"
	default:
		return "invalid_action"
	}
}
