package logger

import (
	"io"
	"log/slog"
	"os"
)

// SetupGlobal installs a text handler on stdout as the default slog logger.
func SetupGlobal(debug bool, showSource bool) {
	SetupGlobalTo(os.Stdout, debug, showSource)
}

// SetupGlobalTo is SetupGlobal with an explicit destination.
func SetupGlobalTo(w io.Writer, debug bool, showSource bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: showSource,
	}

	handler := slog.NewTextHandler(w, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}
