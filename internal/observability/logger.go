package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/couchcryptid/quake-impact/internal/config"
)

// NewLogger builds the same logger as the shared observability package but
// writes to w instead of stdout, for commands whose stdout is interactive.
// Unknown levels fall back to info; any format other than "text" is JSON.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
