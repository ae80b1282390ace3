package formkit

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/agiangrant/formkit/retained"
)

// ParseLogLevel accepts debug, info, warn and error. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
	}
	return level, nil
}

// SetupLogging points the default logger at w and applies level to it and to
// the engine logger.
func SetupLogging(w io.Writer, level slog.Level) *slog.Logger {
	retained.SetLogLevel(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
