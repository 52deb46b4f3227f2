// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment selects runtime behavior such as log format.
type Environment string

const (
	Dev  Environment = "dev"
	Prod Environment = "prod"
)

// Config is the immutable server configuration, loaded once at startup.
type Config struct {
	Host              string
	Port              string
	InactivityTimeout time.Duration
	WordsFile         string
	ResultsDB         string
	AllowCORS         bool
	Environment       Environment
}

// Load reads configuration from environment variables, consulting a .env
// file first if one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		Host:      getenv("HOST", "0.0.0.0"),
		Port:      getenv("PORT", "8080"),
		WordsFile: getenv("WORDS_FILE", "words.txt"),
		ResultsDB: getenv("RESULTS_DB", "results.sqlite3"),
		AllowCORS: getenv("ALLOW_CORS", "false") == "true",
	}

	seconds, err := strconv.Atoi(getenv("INACTIVITY_TIMEOUT_SECONDS", "300"))
	if err != nil || seconds < 1 {
		return Config{}, fmt.Errorf("invalid INACTIVITY_TIMEOUT_SECONDS: %q", os.Getenv("INACTIVITY_TIMEOUT_SECONDS"))
	}
	c.InactivityTimeout = time.Duration(seconds) * time.Second

	switch env := Environment(getenv("ENVIRONMENT", string(Dev))); env {
	case Dev, Prod:
		c.Environment = env
	default:
		return Config{}, fmt.Errorf("invalid ENVIRONMENT %q: must be dev or prod", env)
	}

	return c, nil
}

// Addr returns the host:port address to bind.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
