package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventRoomCreated   EventType = "room_created"
	EventJoinSuccess   EventType = "join_success"
	EventPlayerUpdate  EventType = "player_update"
	EventGameStarted   EventType = "game_started"
	EventRoundStart    EventType = "round_start"
	EventTimerUpdate   EventType = "timer_update"
	EventTimerEnd      EventType = "timer_end"
	EventVoteUpdate    EventType = "vote_update"
	EventVoteConfirmed EventType = "vote_confirmed"
	EventPlayerKicked  EventType = "player_kicked"
	EventGameOver      EventType = "game_over"
	EventGameState     EventType = "game_state"
	EventError         EventType = "error"
)

// GameEvent represents an event that occurred in the game
type GameEvent struct {
	Type      EventType   `json:"type"`
	GameID    string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new room-wide game event
func NewEvent(eventType EventType, gameID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new player-specific game event
func NewPlayerEvent(eventType EventType, gameID, playerID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RoomJoinedPayload is sent privately to a player who created or joined a room
type RoomJoinedPayload struct {
	RoomCode string       `json:"roomCode"`
	PlayerID string       `json:"playerId"`
	Players  []PlayerInfo `json:"players"`
}

// PlayerUpdatePayload carries the current roster
type PlayerUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
	HostID  string       `json:"hostId"`
}

// GameStartedPayload is sent to each player with their own role and character
type GameStartedPayload struct {
	Role          Role   `json:"role"`
	RoleName      string `json:"roleName"`
	RoleDesc      string `json:"roleDesc"`
	Character     string `json:"character"`
	CharacterBio  string `json:"characterBio"`
	ScenarioTitle string `json:"title"`
}

// RoundStartPayload is sent when a round begins
type RoundStartPayload struct {
	Round   int      `json:"roundNum"`
	Title   string   `json:"title"`
	Clue    string   `json:"evidence"`
	History []string `json:"history"`
	Timer   int      `json:"timer"`
}

// TimerPayload is sent every tick of the round timer
type TimerPayload struct {
	RemainingSeconds int `json:"time"`
}

// VoteConfirmedPayload is sent privately to the voter
type VoteConfirmedPayload struct {
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName"`
}

// PlayerKickedPayload reveals the eliminated player
type PlayerKickedPayload struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Role      Role   `json:"role"`
	RoleName  string `json:"roleName"`
	Votes     int    `json:"votes"`
}

// GameOverPayload is sent when a side wins
type GameOverPayload struct {
	Winner  Side         `json:"winner"`
	Message string       `json:"message"`
	Players []PlayerInfo `json:"players"`
}

// GameStatePayload resynchronizes a client with the room
type GameStatePayload struct {
	RoomView
	You *Assignment `json:"you,omitempty"`
}

// ErrorPayload is sent when an error occurs
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
