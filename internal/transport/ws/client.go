package ws

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mafioso/internal/app"
	"mafioso/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. Its identity is minted per
// connection; roomCode is only touched by the read goroutine.
type Client struct {
	conn     *websocket.Conn
	hub      *app.GameHub
	playerID string
	roomCode string
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.GameHub, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With("playerID", playerID),
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.leaveRoom()
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("recovered from panic in message handler", "panic", r)
			c.sendError(ErrCodeInternalError, "Internal error")
		}
	}()

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgStartGame:
		c.handleStartGame(msg.Payload)
	case MsgCastVote:
		c.handleCastVote(msg.Payload)
	case MsgRequestState:
		c.handleRequestState(msg.Payload)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// decodePayload unmarshals a message payload, replying with an error on failure
func (c *Client) decodePayload(raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		c.sendError(ErrCodeInvalidMessage, "Payload is required")
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// handleCreateRoom handles a create_room message
func (c *Client) handleCreateRoom(raw json.RawMessage) {
	var payload CreateRoomPayload
	if !c.decodePayload(raw, &payload) {
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" {
		c.sendError(ErrCodeInvalidMessage, "Username is required")
		return
	}

	if c.roomCode != "" {
		c.sendError(ErrCodeAlreadyInRoom, "Leave your current room first")
		return
	}

	session, err := c.hub.CreateRoom(c.playerID, payload.Username, payload.Avatar, c)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.roomCode = session.GetRoomCode()
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(raw json.RawMessage) {
	var payload JoinRoomPayload
	if !c.decodePayload(raw, &payload) {
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	payload.RoomCode = strings.TrimSpace(payload.RoomCode)
	if payload.Username == "" || payload.RoomCode == "" {
		c.sendError(ErrCodeInvalidMessage, "Room code and username are required")
		return
	}

	if c.roomCode != "" {
		c.sendError(ErrCodeAlreadyInRoom, "Leave your current room first")
		return
	}

	session, err := c.hub.JoinRoom(payload.RoomCode, c.playerID, payload.Username, payload.Avatar, c)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.roomCode = session.GetRoomCode()
}

// handleLeaveRoom handles a leave_room message
func (c *Client) handleLeaveRoom() {
	if c.roomCode == "" {
		c.sendError(ErrCodeNotInRoom, "You are not in a room")
		return
	}

	c.leaveRoom()
	c.Send(NewServerMessage(MsgLeft, nil))
}

// handleStartGame handles a start_game message
func (c *Client) handleStartGame(raw json.RawMessage) {
	var payload StartGamePayload
	if len(raw) > 0 && !c.decodePayload(raw, &payload) {
		return
	}

	session, ok := c.currentSession()
	if !ok {
		return
	}

	settings := c.hub.Settings()
	mafiaCount := settings.MafiaCount
	if payload.MafiaCount != nil {
		mafiaCount = *payload.MafiaCount
	}
	roundSeconds := settings.RoundSeconds
	if payload.RoundTime != nil {
		roundSeconds = *payload.RoundTime
	}

	if err := session.StartGame(c.playerID, mafiaCount, roundSeconds); err != nil {
		c.sendDomainError(err)
	}
}

// handleCastVote handles a cast_vote message
func (c *Client) handleCastVote(raw json.RawMessage) {
	var payload CastVotePayload
	if !c.decodePayload(raw, &payload) {
		return
	}

	if payload.TargetPlayerID == "" {
		c.sendError(ErrCodeInvalidMessage, "Target player ID is required")
		return
	}

	session, ok := c.currentSession()
	if !ok {
		return
	}

	if err := session.CastVote(c.playerID, payload.TargetPlayerID); err != nil {
		c.sendDomainError(err)
	}
}

// handleRequestState handles a request_game_state message
func (c *Client) handleRequestState(raw json.RawMessage) {
	var payload RequestStatePayload
	if len(raw) > 0 && !c.decodePayload(raw, &payload) {
		return
	}

	roomCode := payload.RoomCode
	if roomCode == "" {
		roomCode = c.roomCode
	}

	session, err := c.hub.GetSession(roomCode)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.Send(NewServerMessage(MessageType(domain.EventGameState), session.GetGameState(c.playerID)))
}

// currentSession returns the session of the room this client is in
func (c *Client) currentSession() (*app.GameSession, bool) {
	if c.roomCode == "" {
		c.sendError(ErrCodeNotInRoom, "You are not in a room")
		return nil, false
	}

	session, err := c.hub.GetSession(c.roomCode)
	if err != nil {
		c.roomCode = ""
		c.sendDomainError(err)
		return nil, false
	}

	return session, true
}

// leaveRoom removes this client's player from its room, if any
func (c *Client) leaveRoom() {
	if c.roomCode == "" {
		return
	}

	if err := c.hub.RemovePlayer(c.roomCode, c.playerID); err != nil {
		c.logger.Debug("leave room", "roomCode", c.roomCode, "error", err)
	}
	c.roomCode = ""
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	c.Send(NewServerMessage(MsgConnected, &ConnectedPayload{
		PlayerID: c.playerID,
	}))
}

// sendDomainError reports a rejected action to this client only
func (c *Client) sendDomainError(err error) {
	code, message := errorInfo(err)
	if code == ErrCodeInternalError {
		c.logger.Error("unexpected error", "error", err)
	}
	c.sendError(code, message)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	msg := NewServerMessage(MsgError, payload)
	c.Send(msg)
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}
