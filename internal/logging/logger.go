package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}

func StdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// AttachDB fans ERROR+ records out to the system_logs table in addition to
// stdout. h must be stopped on shutdown.
func AttachDB(h *DBHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(StdoutHandler(), h)))
}
