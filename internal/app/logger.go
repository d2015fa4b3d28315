package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. Production always emits
// JSON regardless of LOG_FORMAT so log shipping stays machine-readable.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg != nil && (cfg.LogFormat == "json" || cfg.IsProduction()) {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
