package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger: human readable in dev mode, JSON otherwise.
// An unknown level falls back to info.
func New(level, mode string) zerolog.Logger {
	return newWithWriter(os.Stdout, level, mode)
}

func newWithWriter(w io.Writer, level, mode string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if mode == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
