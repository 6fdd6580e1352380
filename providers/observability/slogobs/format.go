package slogobs

import (
	"fmt"
	"os"
	"strings"
)

// Format is the rendering of a log record.
type Format string

const (
	// FormatCompact renders one line per record with attributes as JSON:
	//
	//	2026-10-18 10:40:35 DEBUG Span started → {"span":"generate.analysis"}
	FormatCompact Format = "compact"

	// FormatJSON renders one JSON object per record:
	//
	//	{"level":"DEBUG","msg":"Span started","span":"generate.analysis","time":"2026-10-18T10:40:35Z"}
	FormatJSON Format = "json"
)

// ParseFormat parses a format name, ignoring case and surrounding space.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCompact, FormatJSON:
		return f, nil
	}
	return FormatCompact, fmt.Errorf("unknown log format %q (want compact or json)", s)
}

// FormatFromEnv reads AIRECOVER_LOG_FORMAT, then LOG_FORMAT. Unset or unknown
// values give FormatCompact.
func FormatFromEnv() Format {
	value := lookupEnv("AIRECOVER_LOG_FORMAT", "LOG_FORMAT")
	if value == "" {
		return FormatCompact
	}
	f, err := ParseFormat(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using compact\n", err)
	}
	return f
}

func (f Format) String() string {
	return string(f)
}

// lookupEnv returns the first non-empty variable among keys.
func lookupEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
