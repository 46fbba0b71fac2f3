package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mafioso/internal/app"
	"mafioso/internal/config"
	"mafioso/internal/domain"
	"mafioso/internal/scenario"
)

func newTestServer(t *testing.T, origins ...string) (*Server, *app.GameHub) {
	t.Helper()
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	catalog, err := scenario.Load()
	if err != nil {
		t.Fatalf("scenario.Load: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := app.NewGameHub(app.HubOptions{Settings: domain.DefaultGameSettings()}, catalog, logger)
	t.Cleanup(hub.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			Host:           "127.0.0.1",
			Env:            "test",
			AllowedOrigins: origins,
		},
	}
	return NewServer(cfg, hub, logger), hub
}

func do(t *testing.T, s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) Response {
	t.Helper()
	resp := Response{Data: data}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var health HealthResponse
	if resp := decode(t, rec, &health); !resp.Success || health.Status != "ok" {
		t.Errorf("response = %+v, health = %+v", resp, health)
	}
}

func TestStats(t *testing.T) {
	s, hub := newTestServer(t)
	session, _ := hub.CreateRoom("p1", "A", "", nil)
	hub.JoinRoom(session.GetRoomCode(), "p2", "B", "", nil)

	var stats StatsResponse
	decode(t, do(t, s, http.MethodGet, "/api/stats", nil), &stats)
	if stats.ActiveGames != 1 || stats.TotalPlayers != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetRoom(t *testing.T) {
	s, hub := newTestServer(t)
	session, _ := hub.CreateRoom("p1", "Alice", "", nil)
	code := session.GetRoomCode()

	rec := do(t, s, http.MethodGet, "/api/rooms/"+strings.ToLower(code), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var view domain.RoomView
	decode(t, rec, &view)
	if view.Code != code || view.Phase != domain.PhaseLobby || view.HostID != "p1" || !view.CanJoin {
		t.Errorf("view = %+v", view)
	}
	if len(view.Players) != 1 || view.Players[0].Name != "Alice" {
		t.Errorf("players = %+v", view.Players)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/rooms/NOPE", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decode(t, rec, nil); resp.Success || resp.Error == nil || resp.Error.Code != "ROOM_NOT_FOUND" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRoomExists(t *testing.T) {
	s, hub := newTestServer(t)
	session, _ := hub.CreateRoom("p1", "A", "", nil)

	tests := []struct {
		code string
		want bool
	}{
		{session.GetRoomCode(), true},
		{"NOPE", false},
	}

	for _, tt := range tests {
		var exists RoomExistsResponse
		decode(t, do(t, s, http.MethodGet, "/api/rooms/"+tt.code+"/exists", nil), &exists)
		if exists.Exists != tt.want {
			t.Errorf("exists(%s) = %v, want %v", tt.code, exists.Exists, tt.want)
		}
	}
}

func TestRoomQR(t *testing.T) {
	s, hub := newTestServer(t)
	session, _ := hub.CreateRoom("p1", "A", "", nil)
	code := session.GetRoomCode()

	rec := do(t, s, http.MethodGet, "/api/rooms/"+code+"/qr", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	if rec := do(t, s, http.MethodGet, "/api/rooms/"+code+"/qr?size=50", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("small size: status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/rooms/NOPE/qr", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown room: status = %d, want 404", rec.Code)
	}
}

func TestInviteLink(t *testing.T) {
	s, hub := newTestServer(t)
	session, _ := hub.CreateRoom("p1", "A", "", nil)
	code := session.GetRoomCode()

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+code+"/qr", nil)
	req.Host = "game.example"

	link := s.inviteLink(req, strings.ToLower(code))
	if link != "http://game.example/api/rooms/"+code {
		t.Errorf("inviteLink = %q", link)
	}

	// The default link must resolve on this server
	path := strings.TrimPrefix(link, "http://game.example")
	if rec := do(t, s, http.MethodGet, path, nil); rec.Code != http.StatusOK {
		t.Errorf("GET %s: status = %d, want 200", path, rec.Code)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	if got := s.inviteLink(req, code); got != "https://game.example/api/rooms/"+code {
		t.Errorf("inviteLink behind proxy = %q", got)
	}

	s.config.Server.JoinURL = "https://play.example/join"
	if got := s.inviteLink(req, "abcd"); got != "https://play.example/join/ABCD" {
		t.Errorf("inviteLink with JOIN_URL = %q", got)
	}
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, "https://game.example")

	allowed := do(t, s, http.MethodGet, "/api/health", http.Header{"Origin": {"https://game.example"}})
	if got := allowed.Header().Get("Access-Control-Allow-Origin"); got != "https://game.example" {
		t.Errorf("allowed origin header = %q", got)
	}

	denied := do(t, s, http.MethodGet, "/api/health", http.Header{"Origin": {"https://evil.example"}})
	if got := denied.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin got header %q", got)
	}
}

func TestCheckOrigin(t *testing.T) {
	s, _ := newTestServer(t, "https://game.example")

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://game.example", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := s.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	open, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://anything.example")
	if !open.checkOrigin(req) {
		t.Error("wildcard config rejected an origin")
	}
}
