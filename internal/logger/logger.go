package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. format "console" gives human readable
// output, anything else emits one JSON object per line.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Printf adapts a zerolog.Logger to Printf-style sinks such as gorm's logger.
type Printf struct {
	L     zerolog.Logger
	Level zerolog.Level
}

func (p Printf) Printf(format string, v ...interface{}) {
	p.L.WithLevel(p.Level).Msgf(format, v...)
}
