package logging

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// New returns a structured logger writing to w through a charm log handler.
// Unknown levels fall back to info.
func New(w io.Writer, level string, json bool) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
	})
	if json {
		handler.SetFormatter(charmlog.JSONFormatter)
	} else {
		handler.SetFormatter(charmlog.TextFormatter)
	}
	return slog.New(handler)
}
