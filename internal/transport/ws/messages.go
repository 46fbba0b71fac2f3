package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom   MessageType = "create_room"
	MsgJoinRoom     MessageType = "join_room"
	MsgLeaveRoom    MessageType = "leave_room"
	MsgStartGame    MessageType = "start_game"
	MsgCastVote     MessageType = "cast_vote"
	MsgRequestState MessageType = "request_game_state"
	MsgPing         MessageType = "ping"
)

// Server → Client message types. Game events use domain.EventType names.
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgLeft      MessageType = "left_room"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a direct reply from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// CreateRoomPayload is the payload for create_room message
type CreateRoomPayload struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// JoinRoomPayload is the payload for join_room message
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// StartGamePayload is the payload for start_game message. Missing values use server defaults.
type StartGamePayload struct {
	MafiaCount *int `json:"mafiaCount"`
	RoundTime  *int `json:"roundTime"`
}

// CastVotePayload is the payload for cast_vote message
type CastVotePayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

// RequestStatePayload is the payload for request_game_state message
type RequestStatePayload struct {
	RoomCode string `json:"roomCode"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage    = "INVALID_MESSAGE"
	ErrCodeRoomNotFound      = "ROOM_NOT_FOUND"
	ErrCodeGameFull          = "GAME_FULL"
	ErrCodeAlreadyStarted    = "GAME_ALREADY_STARTED"
	ErrCodeAlreadyInRoom     = "ALREADY_IN_ROOM"
	ErrCodeNotInRoom         = "NOT_IN_ROOM"
	ErrCodeNotHost           = "NOT_HOST"
	ErrCodeTooFewPlayers     = "TOO_FEW_PLAYERS"
	ErrCodeTooManyMafia      = "TOO_MANY_MAFIA"
	ErrCodeInvalidMafiaCount = "INVALID_MAFIA_COUNT"
	ErrCodeInvalidRoundTime  = "INVALID_ROUND_TIME"
	ErrCodeInvalidAction     = "INVALID_ACTION"
	ErrCodeVoterDead         = "VOTER_DEAD"
	ErrCodeTargetNotFound    = "TARGET_NOT_FOUND"
	ErrCodeTargetDead        = "TARGET_DEAD"
	ErrCodeInvalidName       = "INVALID_NAME"
	ErrCodeServerFull        = "SERVER_FULL"
	ErrCodeNoScenario        = "NO_SCENARIO"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)
