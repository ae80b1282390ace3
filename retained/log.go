package retained

import (
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})).
	With("pkg", "retained")

// SetLogLevel changes the level of the engine logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// Logger returns the engine logger.
func Logger() *slog.Logger {
	return logger
}

func debugEnabled() bool {
	return logLevel.Level() <= slog.LevelDebug
}
