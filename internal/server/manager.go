package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spades/internal/engine"
	"spades/internal/mods"
)

const sessionTTL = 30 * time.Minute

// Session ties an opaque resumption token to a seat in a room.
type Session struct {
	Token    string
	PlayerID string
	RoomID   string
	LastSeen time.Time
}

// Manager owns every live room and session token. Rooms serialize their own
// actions; the manager only guards its registries.
type Manager struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	sessions map[string]*Session
	registry *mods.Registry
	notify   Notifier
	cfg      engine.GameConfig
	log      *zap.Logger
}

func NewManager(registry *mods.Registry, notify Notifier, cfg engine.GameConfig, log *zap.Logger) *Manager {
	return &Manager{
		rooms:    map[string]*Room{},
		sessions: map[string]*Session{},
		registry: registry,
		notify:   notify,
		cfg:      cfg,
		log:      log,
	}
}

// CreateRoom builds a room with the requested rule mods active.
func (m *Manager) CreateRoom(modIDs []string) *Room {
	id := uuid.NewString()[:8]
	room := NewRoom(id, time.Now().UnixNano(), m.cfg, m.registry.Pipeline(modIDs...), m.notify, m.log)

	m.mu.Lock()
	m.rooms[id] = room
	m.mu.Unlock()

	m.log.Info("room created", zap.String("room", id), zap.Strings("mods", modIDs))
	return room
}

func (m *Manager) Room(id string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	return room, ok
}

func (m *Manager) RemoveRoom(id string) {
	m.mu.Lock()
	room, ok := m.rooms[id]
	delete(m.rooms, id)
	m.mu.Unlock()

	if ok {
		room.Close()
		m.log.Info("room removed", zap.String("room", id))
	}
}

// NewSession mints a resumption token for a seated player.
func (m *Manager) NewSession(playerID, roomID string) *Session {
	session := &Session{
		Token:    uuid.NewString(),
		PlayerID: playerID,
		RoomID:   roomID,
		LastSeen: time.Now(),
	}
	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()
	return session
}

func (m *Manager) SessionByToken(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok || time.Since(session.LastSeen) > sessionTTL {
		return nil, false
	}
	return session, true
}

func (m *Manager) Touch(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[token]; ok {
		session.LastSeen = time.Now()
	}
}

func (m *Manager) DropSession(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// CleanupIdle tears down rooms with no activity past maxIdle and expires
// stale session tokens. Returns how many rooms were removed.
func (m *Manager) CleanupIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	var stale []*Room
	for id, room := range m.rooms {
		last := time.UnixMilli(room.State().LastActivity)
		if time.Since(last) > maxIdle {
			stale = append(stale, room)
			delete(m.rooms, id)
		}
	}
	for token, session := range m.sessions {
		if time.Since(session.LastSeen) > sessionTTL {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, room := range stale {
		room.Close()
		m.log.Info("idle room expired", zap.String("room", room.ID))
	}
	return len(stale)
}

// Sweep runs CleanupIdle on a ticker until stop is closed.
func (m *Manager) Sweep(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CleanupIdle(maxIdle)
		case <-stop:
			return
		}
	}
}
