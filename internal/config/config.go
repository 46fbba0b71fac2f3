package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mafioso/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Host           string
	Env            string // "development" or "production"
	AllowedOrigins []string
	JoinURL        string // base of invite links, e.g. https://play.example/join
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers       int
	MaxPlayers       int
	RoundSeconds     int
	MaxRoundSeconds  int
	MafiaCount       int
	RoomCodeLength   int
	NoVotesDelay     time.Duration
	EliminationDelay time.Duration
	StaleRoomTimeout time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present;
// variables already set in the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "0.0.0.0"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
			JoinURL:        strings.TrimRight(getEnv("JOIN_URL", ""), "/"),
		},
		Game: GameConfig{
			MinPlayers:       getEnvInt("MIN_PLAYERS", 3),
			MaxPlayers:       getEnvInt("MAX_PLAYERS", 16),
			RoundSeconds:     getEnvInt("ROUND_SECONDS", 60),
			MaxRoundSeconds:  getEnvInt("MAX_ROUND_SECONDS", 600),
			MafiaCount:       getEnvInt("MAFIA_COUNT", 1),
			RoomCodeLength:   getEnvInt("ROOM_CODE_LENGTH", 4),
			NoVotesDelay:     time.Duration(getEnvInt("NO_VOTES_DELAY_SECONDS", 3)) * time.Second,
			EliminationDelay: time.Duration(getEnvInt("ELIMINATION_DELAY_SECONDS", 5)) * time.Second,
			StaleRoomTimeout: time.Duration(getEnvInt("STALE_ROOM_MINUTES", 120)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// GameSettings converts the game configuration into room settings.
// Values that make no sense fall back to the defaults.
func (c *Config) GameSettings() domain.GameSettings {
	s := domain.DefaultGameSettings()
	g := c.Game

	if g.MinPlayers >= 3 {
		s.MinPlayers = g.MinPlayers
	}
	if g.MaxPlayers >= s.MinPlayers {
		s.MaxPlayers = g.MaxPlayers
	}
	if g.MaxRoundSeconds > 0 {
		s.MaxRoundSeconds = g.MaxRoundSeconds
	}
	if g.RoundSeconds > 0 && g.RoundSeconds <= s.MaxRoundSeconds {
		s.RoundSeconds = g.RoundSeconds
	}
	if g.MafiaCount > 0 {
		s.MafiaCount = g.MafiaCount
	}
	if g.NoVotesDelay >= 0 {
		s.NoVotesDelay = g.NoVotesDelay
	}
	if g.EliminationDelay >= 0 {
		s.EliminationDelay = g.EliminationDelay
	}
	return s
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable as a list or a default value
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
