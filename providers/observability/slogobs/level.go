package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel parses TRACE, DEBUG, INFO, WARN (or WARNING) and ERROR, ignoring
// case and surrounding space.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromEnv reads AIRECOVER_LOG_LEVEL, then LOG_LEVEL. Unset gives INFO;
// unknown values give INFO with a warning on stderr.
func LevelFromEnv() slog.Level {
	value := lookupEnv("AIRECOVER_LOG_LEVEL", "LOG_LEVEL")
	if value == "" {
		return slog.LevelInfo
	}
	level, err := ParseLevel(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using INFO\n", err)
	}
	return level
}

// LevelString names level the way the handler prints it.
func LevelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
