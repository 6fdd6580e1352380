package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Handler is a slog.Handler writing compact or JSON lines.
type Handler struct {
	format Format
	level  slog.Leveler
	colors bool

	// mu is shared by every handler derived through WithAttrs or WithGroup
	// so their lines never interleave.
	mu     *sync.Mutex
	output io.Writer

	attrs  []slog.Attr
	prefix string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Format Format
	Level  slog.Leveler
	Output io.Writer
	Colors bool
}

// NewHandler returns a Handler. A nil opts, an empty format or a nil output
// fall back to compact lines on stderr at INFO.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	h := &Handler{
		format: opts.Format,
		level:  opts.Level,
		colors: opts.Colors,
		mu:     &sync.Mutex{},
		output: opts.Output,
	}
	if h.output == nil {
		h.output = os.Stderr
	}
	if h.format == "" {
		h.format = FormatCompact
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if !h.colors && h.format == FormatCompact {
		if f, ok := h.output.(*os.File); ok {
			h.colors = isTerminal(f)
		}
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := h.collect(r)

	var line []byte
	var err error
	if h.format == FormatJSON {
		line, err = h.formatJSON(r, fields)
	} else {
		line, err = h.formatCompact(r, fields)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.output.Write(line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// formatCompact renders "2006-01-02 15:04:05 LEVEL msg → {attrs}".
func (h *Handler) formatCompact(r slog.Record, fields map[string]any) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, r.Time.Format(time.DateTime)...)
	buf = append(buf, ' ')

	level := fmt.Sprintf("%-5s", LevelString(r.Level))
	if h.colors {
		buf = append(buf, colorForLevel(r.Level)...)
		buf = append(buf, level...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, level...)
	}
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	if len(fields) > 0 {
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode log attributes: %w", err)
		}
		buf = append(buf, " → "...)
		buf = append(buf, data...)
	}
	return append(buf, '\n'), nil
}

// formatJSON renders one object with time, level and msg next to the
// attributes. Attributes never overwrite those three keys.
func (h *Handler) formatJSON(r slog.Record, fields map[string]any) ([]byte, error) {
	record := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		record[k] = v
	}
	record["time"] = r.Time.UTC().Format(time.RFC3339)
	record["level"] = LevelString(r.Level)
	record["msg"] = r.Message

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log record: %w", err)
	}
	return append(data, '\n'), nil
}

// collect merges handler attributes and record attributes into one map,
// later keys winning.
func (h *Handler) collect(r slog.Record) map[string]any {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addField(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(fields, h.prefix, a)
		return true
	})
	return fields
}

func addField(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, member := range v.Group() {
			addField(fields, prefix+a.Key+".", member)
		}
		return
	}
	if a.Key == "" {
		return
	}
	fields[prefix+a.Key] = fieldValue(v)
}

// fieldValue converts v into something encoding/json prints readably.
func fieldValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case time.Duration:
			return x.String()
		case fmt.Stringer:
			return x.String()
		}
	}
	return v.Any()
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return colorGray
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

