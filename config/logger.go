package config

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewLogger builds the process logger from c, writing to w.
func NewLogger(c LogConfig, w io.Writer) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{Level: c.Level}

	if c.Format == LogFormatText {
		return slog.New(slog.NewTextHandler(w, handlerOptions))
	}

	return slog.New(slog.NewJSONHandler(w, handlerOptions))
}

// NewRunID returns a time-ordered UUIDv7 that tags every log record of one process run.
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
