package config

import (
	"testing"
	"time"

	"mafioso/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.GetAddr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.GetAddr())
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Errorf("env = %q, want development", cfg.Server.Env)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}

	want := domain.DefaultGameSettings()
	if got := cfg.GameSettings(); got != want {
		t.Errorf("GameSettings() = %+v, want %+v", got, want)
	}
	if cfg.Game.RoomCodeLength != 4 || cfg.Game.StaleRoomTimeout != 2*time.Hour {
		t.Errorf("game = %+v", cfg.Game)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MIN_PLAYERS", "4")
	t.Setenv("MAX_PLAYERS", "8")
	t.Setenv("ROUND_SECONDS", "90")
	t.Setenv("MAFIA_COUNT", "2")
	t.Setenv("NO_VOTES_DELAY_SECONDS", "1")
	t.Setenv("ELIMINATION_DELAY_SECONDS", "not-a-number")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("JOIN_URL", "https://play.example/join/")

	cfg := Load()

	if cfg.GetAddr() != "0.0.0.0:9000" || !cfg.IsProduction() {
		t.Errorf("server = %+v", cfg.Server)
	}
	origins := cfg.Server.AllowedOrigins
	if len(origins) != 2 || origins[0] != "https://a.example" || origins[1] != "https://b.example" {
		t.Errorf("origins = %v", origins)
	}
	if cfg.Server.JoinURL != "https://play.example/join" {
		t.Errorf("join url = %q, want trailing slash trimmed", cfg.Server.JoinURL)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format = %q", cfg.Logging.Format)
	}

	s := cfg.GameSettings()
	if s.MinPlayers != 4 || s.MaxPlayers != 8 || s.RoundSeconds != 90 || s.MafiaCount != 2 {
		t.Errorf("settings = %+v", s)
	}
	if s.NoVotesDelay != time.Second {
		t.Errorf("no-votes delay = %v", s.NoVotesDelay)
	}
	if s.EliminationDelay != 5*time.Second {
		t.Errorf("elimination delay = %v, want default for an unparsable value", s.EliminationDelay)
	}
}

func TestGameSettingsRejectsNonsense(t *testing.T) {
	t.Setenv("MIN_PLAYERS", "1")
	t.Setenv("ROUND_SECONDS", "9999")
	t.Setenv("MAFIA_COUNT", "0")

	s := Load().GameSettings()
	if s.MinPlayers != 3 {
		t.Errorf("min players = %d, want 3", s.MinPlayers)
	}
	if s.RoundSeconds != 60 {
		t.Errorf("round seconds = %d, want 60", s.RoundSeconds)
	}
	if s.MafiaCount != 1 {
		t.Errorf("mafia count = %d, want 1", s.MafiaCount)
	}
}
