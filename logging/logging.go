package logging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Output formats accepted by New
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatText   = "text"
)

var ErrUnknownFormat = errors.New("unknown log format")

// PrettyJSONHandler is a custom handler that pretty prints JSON in development
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
	attrs  []slog.Attr
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs)+3)
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = prettyValue(a.Value)
		return true
	})

	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyJSONHandler{
		JSONHandler: h.JSONHandler,
		writer:      h.writer,
		attrs:       append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

// durations print as "1.2ms" rather than nanoseconds
func prettyValue(v slog.Value) any {
	if v.Kind() == slog.KindDuration {
		return v.Duration().String()
	}
	return v.Any()
}

// NewPrettyJSONHandler creates a pretty JSON handler writing to w.
func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(w, opts),
		writer:      w,
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// New builds a logger writing format to w at level.
func New(w io.Writer, format, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatPretty:
		return slog.New(NewPrettyJSONHandler(w, opts)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
