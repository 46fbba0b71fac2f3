package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"mafioso/internal/domain"
)

func newTestHub(t *testing.T, opts HubOptions) *GameHub {
	t.Helper()
	if opts.Settings.MaxPlayers == 0 {
		opts.Settings = fastSettings()
	}
	hub := NewGameHub(opts, staticScenarios{}, testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestCreateRoom(t *testing.T) {
	hub := newTestHub(t, HubOptions{})
	host := newRecordingClient("host")

	session, err := hub.CreateRoom("host", "Alice", "", host)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	code := session.GetRoomCode()
	if len(code) != DefaultRoomCodeLength {
		t.Errorf("code %q has length %d, want %d", code, len(code), DefaultRoomCodeLength)
	}
	for _, ch := range code {
		if !strings.ContainsRune(RoomCodeChars, ch) {
			t.Errorf("code %q contains %q", code, ch)
		}
	}

	created := waitFor(t, host, domain.EventRoomCreated, 1)
	payload := created.Payload.(*domain.RoomJoinedPayload)
	if payload.RoomCode != code || payload.PlayerID != "host" || len(payload.Players) != 1 {
		t.Errorf("room_created = %+v", payload)
	}

	view, err := hub.Get(code)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.HostID != "host" || view.Phase != domain.PhaseLobby || !view.CanJoin {
		t.Errorf("view = %+v", view)
	}
}

func TestJoinRoom(t *testing.T) {
	hub := newTestHub(t, HubOptions{})
	host := newRecordingClient("host")
	guest := newRecordingClient("guest")

	session, _ := hub.CreateRoom("host", "Alice", "", host)

	// Codes are accepted in any case and with surrounding spaces
	joined, err := hub.JoinRoom(" "+strings.ToLower(session.GetRoomCode())+" ", "guest", "Bob", "🐱", guest)
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if joined != session {
		t.Error("JoinRoom returned a different session")
	}

	waitFor(t, guest, domain.EventJoinSuccess, 1)
	update := waitFor(t, host, domain.EventPlayerUpdate, 2).Payload.(*domain.PlayerUpdatePayload)
	if len(update.Players) != 2 || update.HostID != "host" {
		t.Errorf("player_update = %+v", update)
	}

	if _, err := hub.JoinRoom("ZZZZZ", "x", "X", "", nil); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("unknown room: err = %v, want %v", err, domain.ErrRoomNotFound)
	}

	if hub.GetTotalPlayerCount() != 2 || hub.GetSessionCount() != 1 {
		t.Errorf("stats = %d players in %d rooms", hub.GetTotalPlayerCount(), hub.GetSessionCount())
	}
}

func TestJoinStartedRoom(t *testing.T) {
	hub := newTestHub(t, HubOptions{})
	session, _ := hub.CreateRoom("p1", "A", "", nil)
	code := session.GetRoomCode()
	hub.JoinRoom(code, "p2", "B", "", nil)
	hub.JoinRoom(code, "p3", "C", "", nil)

	if err := session.StartGame("p1", 1, 60); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	if _, err := hub.JoinRoom(code, "p4", "D", "", nil); !errors.Is(err, domain.ErrGameAlreadyStarted) {
		t.Errorf("err = %v, want %v", err, domain.ErrGameAlreadyStarted)
	}
}

func TestRemovePlayerDeletesEmptyRoom(t *testing.T) {
	hub := newTestHub(t, HubOptions{})
	session, _ := hub.CreateRoom("p1", "A", "", nil)
	code := session.GetRoomCode()
	hub.JoinRoom(code, "p2", "B", "", nil)

	if err := hub.RemovePlayer(code, "p1"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	view, err := hub.Get(code)
	if err != nil {
		t.Fatalf("room gone while a player remains: %v", err)
	}
	if view.HostID != "p2" {
		t.Errorf("host = %q, want p2", view.HostID)
	}

	if err := hub.RemovePlayer(code, "p2"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if _, err := hub.Get(code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("empty room still listed: err = %v", err)
	}
	if hub.GetSessionCount() != 0 {
		t.Errorf("sessions = %d, want 0", hub.GetSessionCount())
	}
}

func TestAllocationExhausted(t *testing.T) {
	hub := newTestHub(t, HubOptions{RoomCodeLength: 1})

	codes := make(map[string]bool)
	for i := 0; i < len(RoomCodeChars); i++ {
		session, err := hub.CreateRoom(fmt.Sprintf("host%d", i), "Host", "", nil)
		if err != nil {
			t.Fatalf("CreateRoom #%d: %v", i, err)
		}
		codes[session.GetRoomCode()] = true
	}
	if len(codes) != len(RoomCodeChars) {
		t.Fatalf("allocated %d distinct codes, want %d", len(codes), len(RoomCodeChars))
	}

	if _, err := hub.CreateRoom("one-too-many", "Host", "", nil); !errors.Is(err, domain.ErrAllocationExhausted) {
		t.Errorf("err = %v, want %v", err, domain.ErrAllocationExhausted)
	}
}

func TestCleanupStaleGames(t *testing.T) {
	hub := newTestHub(t, HubOptions{StaleGameTimeout: time.Minute})

	ended, _ := hub.CreateRoom("a", "A", "", nil)
	lobby, _ := hub.CreateRoom("b", "B", "", nil)

	ended.mu.Lock()
	ended.room.End(domain.SideTown)
	ended.mu.Unlock()

	hub.cleanupStaleGames(time.Now())
	if hub.GetSessionCount() != 2 {
		t.Fatalf("freshly ended room removed too early")
	}

	hub.cleanupStaleGames(time.Now().Add(2 * time.Minute))
	if _, err := hub.GetSession(ended.GetRoomCode()); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("stale room still listed")
	}
	if _, err := hub.GetSession(lobby.GetRoomCode()); err != nil {
		t.Errorf("lobby removed by cleanup: %v", err)
	}
}

func TestDeleteSessionClosesClients(t *testing.T) {
	hub := newTestHub(t, HubOptions{})
	host := newRecordingClient("host")
	session, _ := hub.CreateRoom("host", "A", "", host)

	hub.DeleteSession(strings.ToLower(session.GetRoomCode()))

	host.mu.Lock()
	closed := host.closed
	host.mu.Unlock()
	if !closed {
		t.Error("client not closed with its room")
	}
	if hub.GetSessionCount() != 0 {
		t.Errorf("sessions = %d, want 0", hub.GetSessionCount())
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	tests := map[string]string{
		"abcd":   "ABCD",
		" AbCd ": "ABCD",
		"ABCD":   "ABCD",
		"":       "",
	}
	for in, want := range tests {
		if got := NormalizeRoomCode(in); got != want {
			t.Errorf("NormalizeRoomCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCodeSpace(t *testing.T) {
	if got := codeSpace(1); got != len(RoomCodeChars) {
		t.Errorf("codeSpace(1) = %d", got)
	}
	if got := codeSpace(2); got != len(RoomCodeChars)*len(RoomCodeChars) {
		t.Errorf("codeSpace(2) = %d", got)
	}
	if got := codeSpace(20); got != 0 {
		t.Errorf("codeSpace(20) = %d, want 0 for an unbounded space", got)
	}
}
