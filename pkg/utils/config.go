package utils

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Library LibraryConfig
	Server  ServerConfig
}

type LibraryConfig struct {
	DataFile string `env:"LIBRARY_DATA_FILE" env-default:"library_books.txt"`
	LoanDays int    `env:"LIBRARY_LOAN_DAYS" env-default:"14"`
}

type ServerConfig struct {
	HTTPAddr      string        `env:"LIBRARY_HTTP_ADDR" env-default:":8080"`
	SyncAddr      string        `env:"LIBRARY_SYNC_ADDR" env-default:":7070"`
	WatchInterval time.Duration `env:"LIBRARY_WATCH_INTERVAL" env-default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Library.DataFile == "" {
		return Config{}, fmt.Errorf("LIBRARY_DATA_FILE must not be empty")
	}
	if cfg.Library.LoanDays <= 0 {
		return Config{}, fmt.Errorf("LIBRARY_LOAN_DAYS must be > 0, got %d", cfg.Library.LoanDays)
	}
	if cfg.Server.WatchInterval <= 0 {
		return Config{}, fmt.Errorf("LIBRARY_WATCH_INTERVAL must be > 0")
	}
	return cfg, nil
}
