package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mafioso/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// ScenarioSource supplies game content
type ScenarioSource interface {
	PickRandom() *domain.Scenario
	RandomHint() string
}

const eventQueueSize = 256

// GameSession wraps a room with concurrency control, the round timer and client fan-out.
// Every mutation of the room happens under mu.
type GameSession struct {
	room      *domain.Room
	mu        sync.RWMutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	scenarios ScenarioSource
	logger    *slog.Logger

	// Timers
	timer     *RoundTimer
	nextRound *time.Timer
	closed    bool

	// Event channel for broadcasting
	events    chan *domain.GameEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameSession creates a new game session
func NewGameSession(room *domain.Room, scenarios ScenarioSource, logger *slog.Logger) *GameSession {
	session := &GameSession{
		room:      room,
		clients:   make(map[string]ClientConnection),
		scenarios: scenarios,
		logger:    logger.With("roomCode", room.Code),
		events:    make(chan *domain.GameEvent, eventQueueSize),
		done:      make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	return session
}

// GetRoomCode returns the room code
func (s *GameSession) GetRoomCode() string {
	return s.room.Code
}

// GetPlayerCount returns the number of players
func (s *GameSession) GetPlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.room.Players)
}

// GetPhase returns the current room phase
func (s *GameSession) GetPhase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Phase
}

// Snapshot returns a read-only copy of the room state
func (s *GameSession) Snapshot() domain.RoomView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Snapshot()
}

// IsStale reports whether the game ended longer than idle ago
func (s *GameSession) IsStale(now time.Time, idle time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Phase == domain.PhaseEnded && now.Sub(s.room.EndedAt) > idle
}

// RegisterClient registers a client connection for a player
func (s *GameSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *GameSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join adds a player to the lobby and registers their connection
func (s *GameSession) Join(playerID, name, avatar string, client ClientConnection) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinLocked(playerID, name, avatar, client, domain.EventJoinSuccess)
}

func (s *GameSession) joinLocked(playerID, name, avatar string, client ClientConnection, confirm domain.EventType) (*domain.Player, error) {
	if s.closed {
		return nil, domain.ErrRoomNotFound
	}

	player, err := s.room.AddPlayer(playerID, name, avatar)
	if err != nil {
		return nil, err
	}

	if client != nil {
		s.RegisterClient(playerID, client)
	}

	s.queueEvent(domain.NewPlayerEvent(confirm, s.room.Code, playerID, &domain.RoomJoinedPayload{
		RoomCode: s.room.Code,
		PlayerID: playerID,
		Players:  s.room.GetPlayerInfoList(),
	}))
	s.broadcastRoster()

	s.logger.Info("player joined", "playerID", playerID, "players", len(s.room.Players))

	return player, nil
}

// Leave removes a player. It reports whether the room is now empty, in which case
// the session has shut its timers down and must be dropped by the hub.
func (s *GameSession) Leave(playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true, domain.ErrRoomNotFound
	}

	player, err := s.room.RemovePlayer(playerID)
	if err != nil {
		return false, err
	}
	s.UnregisterClient(playerID)

	s.logger.Info("player left", "playerID", playerID, "name", player.Name, "players", len(s.room.Players))

	if s.room.IsEmpty() {
		s.closed = true
		s.stopTimer()
		s.cancelNextRound()
		return true, nil
	}

	s.broadcastRoster()

	if !s.room.Phase.InGame() {
		return false, nil
	}

	if winner := s.room.CheckWinner(); winner != domain.SideNone {
		s.endGame(winner, "The game ended because players left.")
		return false, nil
	}

	// The departed player's vote may have been the last one outstanding
	if s.room.VotingComplete() {
		s.closeVoting()
	}

	return false, nil
}

// StartGame assigns roles and characters and opens round one (host only)
func (s *GameSession) StartGame(playerID string, mafiaCount, roundSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomNotFound
	}

	scenario := s.scenarios.PickRandom()
	if err := s.room.Start(playerID, mafiaCount, roundSeconds, scenario); err != nil {
		return err
	}

	// Send role assignments to each player
	for pid, player := range s.room.Players {
		info := player.Assignment.Role.Info()
		s.queueEvent(domain.NewPlayerEvent(domain.EventGameStarted, s.room.Code, pid, &domain.GameStartedPayload{
			Role:          player.Assignment.Role,
			RoleName:      info.Name,
			RoleDesc:      info.Description,
			Character:     player.Assignment.Character.Name,
			CharacterBio:  player.Assignment.Character.Bio,
			ScenarioTitle: scenario.Title,
		}))
	}
	s.broadcastRoster()

	s.logger.Info("game started",
		"scenario", scenario.Title,
		"players", len(s.room.Players),
		"mafiaCount", mafiaCount,
		"roundSeconds", roundSeconds,
	)

	s.startRound()

	return nil
}

// startRound reveals the next clue and restarts the timer (caller must hold lock)
func (s *GameSession) startRound() {
	clue, err := s.room.BeginRound(s.scenarios.RandomHint)
	if err != nil {
		s.logger.Error("failed to start round", "error", err)
		return
	}

	seconds := s.room.Config.RoundSeconds

	s.queueEvent(domain.NewEvent(domain.EventRoundStart, s.room.Code, &domain.RoundStartPayload{
		Round:   s.room.Round,
		Title:   s.room.Scenario.Title,
		Clue:    clue,
		History: append([]string(nil), s.room.EvidenceHistory...),
		Timer:   seconds,
	}))

	s.startTimer(seconds)

	s.logger.Info("round started", "round", s.room.Round, "seconds", seconds)
}

// startTimer replaces any running timer (caller must hold lock)
func (s *GameSession) startTimer(seconds int) {
	s.stopTimer()

	var t *RoundTimer
	t = NewRoundTimer(seconds, s.room.Settings.TickInterval,
		func(remaining int) { s.onTimerTick(t, remaining) },
		func() { s.onTimerExpiry(t) },
	)
	s.timer = t
	t.Start()
}

// stopTimer cancels the active timer (caller must hold lock)
func (s *GameSession) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *GameSession) cancelNextRound() {
	if s.nextRound != nil {
		s.nextRound.Stop()
		s.nextRound = nil
	}
}

// onTimerTick broadcasts the countdown if t is still the room's active timer
func (s *GameSession) onTimerTick(t *RoundTimer, remaining int) {
	defer s.recoverPanic("timer tick")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.timer != t || t.Cancelled() {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventTimerUpdate, s.room.Code, &domain.TimerPayload{
		RemainingSeconds: remaining,
	}))
}

// onTimerExpiry forces the end of voting if t is still the room's active timer
func (s *GameSession) onTimerExpiry(t *RoundTimer) {
	defer s.recoverPanic("timer expiry")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.timer != t || t.Cancelled() {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventTimerEnd, s.room.Code, &domain.TimerPayload{}))
	s.logger.Debug("round timer expired", "round", s.room.Round)

	s.closeVoting()
}

// CastVote records a vote and tallies as soon as every living player has voted
func (s *GameSession) CastVote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomNotFound
	}

	breakdown, err := s.room.CastVote(voterID, targetID)
	if err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventVoteUpdate, s.room.Code, &breakdown))

	target := s.room.Players[targetID]
	s.queueEvent(domain.NewPlayerEvent(domain.EventVoteConfirmed, s.room.Code, voterID, &domain.VoteConfirmedPayload{
		TargetID:   targetID,
		TargetName: target.Name,
	}))

	if breakdown.Complete() {
		s.logger.Debug("all players voted", "round", s.room.Round)
		s.closeVoting()
	}

	return nil
}

// Tally closes voting for the current round. Calling it again before the next
// round starts does nothing.
func (s *GameSession) Tally() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closeVoting()
}

// closeVoting tallies, reveals the result and decides what comes next (caller must hold lock)
func (s *GameSession) closeVoting() {
	s.stopTimer()

	result, err := s.room.CloseVoting()
	if err != nil {
		return
	}

	if result.NoVotes() {
		s.logger.Info("no votes cast, skipping elimination", "round", s.room.Round)
	} else {
		kicked := result.Eliminated

		// Roster first so clients never see the eliminated player as a live target
		s.broadcastRoster()

		s.queueEvent(domain.NewEvent(domain.EventPlayerKicked, s.room.Code, &domain.PlayerKickedPayload{
			PlayerID:  kicked.ID,
			Name:      kicked.Name,
			Character: kicked.Assignment.Character.Name,
			Role:      kicked.Assignment.Role,
			RoleName:  kicked.Assignment.Role.Info().Name,
			Votes:     result.VoteCount,
		}))

		s.logger.Info("player eliminated",
			"round", s.room.Round,
			"playerID", kicked.ID,
			"name", kicked.Name,
			"votes", result.VoteCount,
		)
	}

	if winner := s.room.CheckWinner(); winner != domain.SideNone {
		s.endGame(winner, winMessage(winner, s.room.Players))
		return
	}

	delay := s.room.Settings.EliminationDelay
	if result.NoVotes() {
		delay = s.room.Settings.NoVotesDelay
	}
	s.scheduleNextRound(delay)
}

// scheduleNextRound starts the next round after delay without blocking the room
func (s *GameSession) scheduleNextRound(delay time.Duration) {
	s.cancelNextRound()

	round := s.room.Round
	s.nextRound = time.AfterFunc(delay, func() {
		s.advance(round)
	})
}

// advance starts the round after the given one, unless the room moved on meanwhile
func (s *GameSession) advance(after int) {
	defer s.recoverPanic("next round")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.room.Phase != domain.PhaseVoteClosed || s.room.Round != after {
		return
	}

	s.nextRound = nil
	s.startRound()
}

// endGame announces the winner and stops all timers (caller must hold lock)
func (s *GameSession) endGame(winner domain.Side, message string) {
	if s.room.Phase == domain.PhaseEnded {
		return
	}

	s.stopTimer()
	s.cancelNextRound()
	s.room.End(winner)

	s.queueEvent(domain.NewEvent(domain.EventGameOver, s.room.Code, &domain.GameOverPayload{
		Winner:  winner,
		Message: message,
		Players: s.room.GetPlayerInfoList(),
	}))

	s.logger.Info("game over", "winner", winner, "round", s.room.Round)
}

// winMessage describes the outcome of a game decided by a vote
func winMessage(winner domain.Side, players map[string]*domain.Player) string {
	if winner == domain.SideTown {
		return "Justice prevails! Every mafioso has been caught."
	}
	mafia, town := domain.AliveCounts(players)
	return fmt.Sprintf("The mafia has taken over the city! (mafia: %d - town: %d)", mafia, town)
}

// GetGameState returns the current room state, plus the requester's own
// assignment when they belong to the room
func (s *GameSession) GetGameState(playerID string) *domain.GameStatePayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := &domain.GameStatePayload{
		RoomView: s.room.Snapshot(),
	}

	if player, err := s.room.GetPlayer(playerID); err == nil && player.Assignment != nil {
		assignment := *player.Assignment
		state.You = &assignment
	}

	return state
}

// broadcastRoster queues a player_update (caller must hold lock)
func (s *GameSession) broadcastRoster() {
	s.queueEvent(domain.NewEvent(domain.EventPlayerUpdate, s.room.Code, &domain.PlayerUpdatePayload{
		Players: s.room.GetPlayerInfoList(),
		HostID:  s.room.HostID,
	}))
}

// queueEvent adds an event to the broadcast queue
func (s *GameSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to appropriate clients
func (s *GameSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	// If player-specific, send only to that player
	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	// Broadcast to all clients
	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

func (s *GameSession) recoverPanic(where string) {
	if r := recover(); r != nil {
		s.logger.Error("recovered from panic", "where", where, "panic", r)
	}
}

// Close shuts down the session
func (s *GameSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimer()
	s.cancelNextRound()
	s.mu.Unlock()

	s.closeOnce.Do(func() {
		close(s.done)

		// Close all client connections
		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
