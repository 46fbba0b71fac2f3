package app

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"mafioso/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 4

	// StaleGameTimeout is how long a finished game is kept around
	StaleGameTimeout = 2 * time.Hour

	maxCodeAttempts = 1000
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubOptions configures a GameHub
type HubOptions struct {
	Settings         domain.GameSettings
	RoomCodeLength   int
	StaleGameTimeout time.Duration
	CleanupInterval  time.Duration
}

// GameHub manages all active game sessions
type GameHub struct {
	sessions  map[string]*GameSession
	mu        sync.RWMutex
	opts      HubOptions
	scenarios ScenarioSource
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameHub creates a new game hub
func NewGameHub(opts HubOptions, scenarios ScenarioSource, logger *slog.Logger) *GameHub {
	if opts.RoomCodeLength <= 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	if opts.StaleGameTimeout <= 0 {
		opts.StaleGameTimeout = StaleGameTimeout
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 10 * time.Minute
	}

	hub := &GameHub{
		sessions:  make(map[string]*GameSession),
		opts:      opts,
		scenarios: scenarios,
		logger:    logger,
		done:      make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateRoom allocates a fresh room code and opens a lobby with the caller as host
func (h *GameHub) CreateRoom(hostID, name, avatar string, client ClientConnection) (*GameSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomCode, err := h.allocateRoomCode()
	if err != nil {
		return nil, err
	}

	room := domain.NewRoom(roomCode, h.opts.Settings)
	session := NewGameSession(room, h.scenarios, h.logger)

	session.mu.Lock()
	_, err = session.joinLocked(hostID, name, avatar, client, domain.EventRoomCreated)
	session.mu.Unlock()
	if err != nil {
		session.Close()
		return nil, err
	}

	h.sessions[roomCode] = session

	h.logger.Info("room created", "roomCode", roomCode, "hostID", hostID)

	return session, nil
}

// JoinRoom adds a player to an existing lobby
func (h *GameHub) JoinRoom(roomCode, playerID, name, avatar string, client ClientConnection) (*GameSession, error) {
	session, err := h.GetSession(roomCode)
	if err != nil {
		return nil, err
	}

	if _, err := session.Join(playerID, name, avatar, client); err != nil {
		return nil, err
	}

	return session, nil
}

// RemovePlayer removes a player and deletes the room once it is empty
func (h *GameHub) RemovePlayer(roomCode, playerID string) error {
	session, err := h.GetSession(roomCode)
	if err != nil {
		return err
	}

	empty, err := session.Leave(playerID)
	if empty {
		h.deleteSession(session)
	}
	if err != nil && !errors.Is(err, domain.ErrRoomNotFound) {
		return err
	}

	return nil
}

// Get returns a snapshot of a room
func (h *GameHub) Get(roomCode string) (domain.RoomView, error) {
	session, err := h.GetSession(roomCode)
	if err != nil {
		return domain.RoomView{}, err
	}
	return session.Snapshot(), nil
}

// GetSession returns a game session by room code
func (h *GameHub) GetSession(roomCode string) (*GameSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[NormalizeRoomCode(roomCode)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession removes a game session
func (h *GameHub) DeleteSession(roomCode string) {
	session, err := h.GetSession(roomCode)
	if err != nil {
		return
	}
	h.deleteSession(session)
}

// deleteSession removes exactly this session, leaving any newer room under the same code alone
func (h *GameHub) deleteSession(session *GameSession) {
	roomCode := session.GetRoomCode()

	h.mu.Lock()
	current, ok := h.sessions[roomCode]
	if ok && current == session {
		delete(h.sessions, roomCode)
	}
	h.mu.Unlock()

	session.Close()
	if ok && current == session {
		h.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// Settings returns the game settings new rooms are created with
func (h *GameHub) Settings() domain.GameSettings {
	return h.opts.Settings
}

// GetSessionCount returns the number of active sessions
func (h *GameHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalPlayerCount returns the total number of players across all sessions
func (h *GameHub) GetTotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetPlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *GameHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*GameSession)
	h.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// NormalizeRoomCode upper-cases and trims a user-entered room code
func NormalizeRoomCode(roomCode string) string {
	return strings.ToUpper(strings.TrimSpace(roomCode))
}

// allocateRoomCode picks an unused room code (caller must hold lock)
func (h *GameHub) allocateRoomCode() (string, error) {
	if capacity := codeSpace(h.opts.RoomCodeLength); capacity > 0 && len(h.sessions) >= capacity {
		return "", domain.ErrAllocationExhausted
	}

	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		roomCode := h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			return roomCode, nil
		}
	}

	return "", domain.ErrAllocationExhausted
}

// codeSpace returns how many distinct codes exist, or 0 if it does not fit an int
func codeSpace(length int) int {
	total := 1
	for range length {
		if total > (1<<31)/len(RoomCodeChars) {
			return 0
		}
		total *= len(RoomCodeChars)
	}
	return total
}

// generateRoomCode generates a random room code
func (h *GameHub) generateRoomCode() string {
	code := make([]byte, h.opts.RoomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			h.logger.Error("crypto/rand failed", "error", err)
			n = big.NewInt(int64(time.Now().UnixNano() % int64(len(RoomCodeChars))))
		}
		code[i] = RoomCodeChars[n.Int64()]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale games
func (h *GameHub) cleanupLoop() {
	ticker := time.NewTicker(h.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleGames(time.Now())
		}
	}
}

// cleanupStaleGames closes rooms whose game ended long ago
func (h *GameHub) cleanupStaleGames(now time.Time) {
	h.mu.RLock()
	stale := make([]*GameSession, 0)
	for _, session := range h.sessions {
		if session.IsStale(now, h.opts.StaleGameTimeout) {
			stale = append(stale, session)
		}
	}
	h.mu.RUnlock()

	for _, session := range stale {
		h.deleteSession(session)
		h.logger.Info("stale game cleaned up", "roomCode", session.GetRoomCode())
	}
}
