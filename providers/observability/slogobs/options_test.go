package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("AIRECOVER_LOG_FORMAT", "json")
	t.Setenv("AIRECOVER_LOG_LEVEL", "debug")

	cfg := defaultConfig()
	if cfg.format != FormatJSON {
		t.Errorf("format = %v, want %v", cfg.format, FormatJSON)
	}
	if cfg.level != slog.LevelDebug {
		t.Errorf("level = %v, want %v", cfg.level, slog.LevelDebug)
	}
	if cfg.output != os.Stderr {
		t.Error("default output should be stderr")
	}
}

func TestOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	cfg := applyOptions(
		WithFormat(FormatJSON),
		WithLevel(slog.LevelError),
		WithOutput(buf),
		WithColors(true),
		WithLogger(logger),
	)

	if cfg.format != FormatJSON {
		t.Errorf("WithFormat: format = %v", cfg.format)
	}
	if cfg.level != slog.LevelError {
		t.Errorf("WithLevel: level = %v", cfg.level)
	}
	if cfg.output != buf {
		t.Error("WithOutput did not set the writer")
	}
	if !cfg.colors {
		t.Error("WithColors(true) did not enable colors")
	}
	if cfg.logger != logger {
		t.Error("WithLogger did not set the logger")
	}
}

func TestNew_WithLoggerBypassesHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	observer := New(WithLogger(logger), WithFormat(FormatJSON))
	if observer.Logger() != logger {
		t.Fatal("New(WithLogger) should use the given logger")
	}
	observer.Info(t.Context(), "hello")
	if buf.Len() == 0 {
		t.Error("expected output through the supplied logger")
	}
}
