package app

import (
	"io"
	"log/slog"
)

// logLevels maps the accepted --log-level values, in increasing severity.
var logLevels = []struct {
	name  string
	level slog.Level
}{
	{"debug", slog.LevelDebug},
	{"info", slog.LevelInfo},
	{"warn", slog.LevelWarn},
	{"error", slog.LevelError},
}

var logFormats = []string{"text", "json"}

// levelNames lists the accepted level names for error messages.
func levelNames() []string {
	names := make([]string, 0, len(logLevels))
	for _, l := range logLevels {
		names = append(names, l.name)
	}
	return names
}

// parseLevel returns the slog level named by name.
func parseLevel(name string) (slog.Level, bool) {
	for _, l := range logLevels {
		if l.name == name {
			return l.level, true
		}
	}
	return 0, false
}

// newLogger builds the build log writing to outW. cfg must already be
// validated by NewConfig. The global logger is left alone so that tests can
// run several apps side by side.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, _ := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
