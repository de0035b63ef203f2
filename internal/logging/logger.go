package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
// Development builds also log DEBUG.
func Setup(appEnv string) *slog.JSONHandler {
	handler := NewJSONHandler(os.Stdout, appEnv)
	slog.SetDefault(slog.New(handler))
	return handler
}

func NewJSONHandler(w io.Writer, appEnv string) *slog.JSONHandler {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// AttachDatabase makes ERROR records also go to pg, keeping base as the
// primary output.
func AttachDatabase(base slog.Handler, pg *PGHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(base, pg)))
}
