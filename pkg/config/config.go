package config

import (
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/shukubooks/shuku/pkg/errcodes"
)

// Config holds everything the binaries read from the environment. Only
// DATABASE_URL and LIBRARY_ROOT_DIR are required; the rest have defaults.
type Config struct {
	DatabaseURL               string
	DatabaseDebug             bool
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	LibraryRootDir            string
	ServerHost                string
	ServerPort                int
}

// CalibreDatabaseFilename is the catalog database inside a Calibre library.
const CalibreDatabaseFilename = "metadata.db"

func New() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseURL:               k.String("DATABASE_URL"),
		DatabaseDebug:             k.Bool("DATABASE_DEBUG"),
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		LibraryRootDir:            k.String("LIBRARY_ROOT_DIR"),
		ServerHost:                k.String("SERVER_HOST"),
		ServerPort:                3080,
	}

	if k.Exists("SERVER_PORT") {
		cfg.ServerPort = k.Int("SERVER_PORT")
	}

	if cfg.DatabaseURL == "" {
		return nil, errcodes.ConfigError("DATABASE_URL is required")
	}
	if cfg.LibraryRootDir == "" {
		return nil, errcodes.ConfigError("LIBRARY_ROOT_DIR is required")
	}

	return cfg, nil
}
