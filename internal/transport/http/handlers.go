package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"mafioso/internal/app"
	"mafioso/internal/domain"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveGames  int `json:"activeGames"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleGetRoom handles GET /api/rooms/{roomCode}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "roomCode")

	view, err := s.hub.Get(roomCode)
	if err != nil {
		s.sendRoomError(w, err)
		return
	}

	s.sendSuccess(w, &view)
}

// handleRoomExists handles GET /api/rooms/{roomCode}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	_, err := s.hub.GetSession(chi.URLParam(r, "roomCode"))

	s.sendSuccess(w, &RoomExistsResponse{
		Exists: err == nil,
	})
}

// handleRoomQR handles GET /api/rooms/{roomCode}/qr and returns a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.GetSession(chi.URLParam(r, "roomCode"))
	if err != nil {
		s.sendRoomError(w, err)
		return
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			s.sendError(w, http.StatusBadRequest, "INVALID_SIZE", "size must be between 128 and 1024")
			return
		}
		size = n
	}

	png, err := qrcode.Encode(s.inviteLink(r, session.GetRoomCode()), qrcode.Medium, size)
	if err != nil {
		s.logger.Error("failed to encode qr code", "roomCode", session.GetRoomCode(), "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveGames:  s.hub.GetSessionCount(),
		TotalPlayers: s.hub.GetTotalPlayerCount(),
	})
}

// inviteLink builds the link players scan or share. Without a configured
// JOIN_URL it points at this server's room endpoint.
func (s *Server) inviteLink(r *http.Request, roomCode string) string {
	code := app.NormalizeRoomCode(roomCode)
	if base := s.config.Server.JoinURL; base != "" {
		return base + "/" + code
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api/rooms/" + code
}

// sendRoomError maps a room lookup failure onto an HTTP error
func (s *Server) sendRoomError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrRoomNotFound) {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}
	s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
