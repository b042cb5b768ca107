// Package logging configures the process-wide zerolog logger.
//
// The chat UI owns the terminal, so log output goes to a file under
// the convo data directory instead of stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seralo/convo/internal/config"
)

// Setup initializes the global logger. It returns a closer for the log
// file; callers should close it on shutdown.
func Setup() (io.Closer, error) {
	level, err := zerolog.ParseLevel(envLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "convo.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	writer := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return f, nil
}

func envLevel() string {
	if v := os.Getenv("CONVO_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
