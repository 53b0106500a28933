package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// HandlerOptions configures the pretty slog handler.
type HandlerOptions struct {
	Level slog.Leveler
	Out   io.Writer
}

// Handler is a human-readable slog handler: timestamp, level, message, then
// attributes as a JSON object. Structured enough to grep, readable enough for
// a terminal.
type Handler struct {
	opts  HandlerOptions
	attrs []slog.Attr
	mu    *sync.Mutex
	out   io.Writer
}

// NewHandler creates a new handler. A nil opts uses Info level on stdout.
func NewHandler(opts *HandlerOptions) *Handler {
	h := &Handler{
		mu:  &sync.Mutex{},
		out: os.Stdout,
	}
	if opts != nil {
		h.opts = *opts
		if opts.Out != nil {
			h.out = opts.Out
		}
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}

	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()

		return true
	})

	line := fmt.Sprintf("%s [%s] %s", r.Time.Format("15:04:05.000"), r.Level.String(), r.Message)
	if len(fields) > 0 {
		payload, err := json.Marshal(fields)
		if err != nil {
			payload = []byte(fmt.Sprintf("%+v", fields))
		}
		line += " " + string(payload)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)

	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), slog.String("group", name))

	return &clone
}
