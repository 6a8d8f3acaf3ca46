package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/AriAlanPR/image-gallery-saver/shared/db/sqlite"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP listen address, e.g. ":8080"
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	Platform PlatformConfig
	SQLite   sqlite.SQLiteConfig
}

// PlatformConfig describes the device the saver runs against
type PlatformConfig struct {
	APILevel int `env:"PLATFORM_API_LEVEL" envDefault:"29"`
	// StorageRoot holds the shared collections managed by the media index
	StorageRoot string `env:"STORAGE_ROOT" envDefault:"./storage"`
	// Public directories written on legacy platforms; default to the
	// collection directories under StorageRoot
	PicturesDir  string `env:"PICTURES_DIR"`
	DownloadsDir string `env:"DOWNLOADS_DIR"`
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Platform.PicturesDir == "" {
		cfg.Platform.PicturesDir = filepath.Join(cfg.Platform.StorageRoot, "Pictures")
	}
	if cfg.Platform.DownloadsDir == "" {
		cfg.Platform.DownloadsDir = filepath.Join(cfg.Platform.StorageRoot, "Download")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Address == "" {
		return errors.New("config: ADDRESS cannot be empty")
	}
	if c.Platform.APILevel < 1 {
		return fmt.Errorf("config: PLATFORM_API_LEVEL must be >= 1, got %d", c.Platform.APILevel)
	}
	if c.Platform.StorageRoot == "" {
		return errors.New("config: STORAGE_ROOT cannot be empty")
	}
	if c.SQLite.Path == "" {
		return errors.New("config: SQLITE_DB_PATH cannot be empty")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}
