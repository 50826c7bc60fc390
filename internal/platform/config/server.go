package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Server is the configuration of cmd/server.
type Server struct {
	HTTPAddr string `env:"VICTORY_HTTP_ADDR" envDefault:":8080"`
	DBDSN    string `env:"VICTORY_DB_DSN"`
	// CORSOrigin is the browser origin allowed to call the API; empty allows any.
	CORSOrigin string `env:"VICTORY_CORS_ORIGIN"`
	// Migrations overrides the embedded schema with a directory of *.sql
	// files. Migrations run at startup when DBDSN is set.
	Migrations string `env:"VICTORY_MIGRATIONS_DIR"`
	WorldFile  string `env:"VICTORY_WORLD_FILE,required,notEmpty"`
	GoalsFile  string `env:"VICTORY_GOALS_FILE,required,notEmpty"`
	LogLevel   string `env:"VICTORY_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"VICTORY_LOG_FORMAT" envDefault:"json"`
}

func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// NewLogger builds the process logger from a level name ("debug", "info",
// "warn", "error") and a format ("json" or "text").
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want json or text", format)
}
