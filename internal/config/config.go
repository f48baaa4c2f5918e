package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort            = 8000
	defaultMigrationDir    = "file://db/migration"
	defaultCleanupInterval = time.Minute * 20
	defaultWaitingGameTTL  = time.Hour
	defaultSessionIdleTTL  = time.Hour
)

type Config struct {
	Stage string
	Port  int

	// Empty means waiting games are kept in memory
	DatabaseUrl  string
	MigrationDir string

	CleanupInterval time.Duration
	WaitingGameTTL  time.Duration
	SessionIdleTTL  time.Duration
}

// Load reads the config from the environment. Outside of prod the
// values are first loaded from envFile.
func Load(envFile string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{
		Stage:        os.Getenv("STAGE"),
		DatabaseUrl:  os.Getenv("DATABASE_URL"),
		MigrationDir: os.Getenv("MIGRATION_DIR"),
	}
	if cfg.Stage == "" {
		cfg.Stage = StageDev
	}
	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either dev or prod, got: %s", cfg.Stage)
	}
	if cfg.MigrationDir == "" {
		cfg.MigrationDir = defaultMigrationDir
	}

	var err error
	if cfg.Port, err = intEnv("PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.CleanupInterval, err = durationEnv("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return Config{}, err
	}
	if cfg.WaitingGameTTL, err = durationEnv("WAITING_GAME_TTL", defaultWaitingGameTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTTL, err = durationEnv("SESSION_IDLE_TTL", defaultSessionIdleTTL); err != nil {
		return Config{}, err
	}

	// a creator waiting alone is silent until someone joins
	if cfg.SessionIdleTTL < cfg.WaitingGameTTL {
		return Config{}, fmt.Errorf("SESSION_IDLE_TTL (%s) must not be shorter than WAITING_GAME_TTL (%s)", cfg.SessionIdleTTL, cfg.WaitingGameTTL)
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}
