package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"

	indent = "  " // aligns log lines with the CLI's styled output
)

// longValueKeys marks attributes whose values run long in this system
// (engine answers, question previews, server-provided error detail). They
// render as an indented block under the log line instead of inline.
var longValueKeys = map[string]bool{
	"answer":  true,
	"preview": true,
	"detail":  true,
}

// Options configures a Handler.
type Options struct {
	Level slog.Level
	Color bool
}

// Handler renders records as compact single lines with key=value attrs
// and long values blocked underneath. With Color set it targets a
// terminal (short timestamps, ANSI level tags); without, a log file.
type Handler struct {
	mu    *sync.Mutex
	w     io.Writer
	opts  Options
	attrs []slog.Attr
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	return &Handler{mu: &sync.Mutex{}, w: w, opts: *opts}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var inline strings.Builder
	var blocks []string

	collect := func(a slog.Attr) {
		if longValueKeys[a.Key] {
			blocks = append(blocks, a.Value.String())
			return
		}
		if h.opts.Color {
			fmt.Fprintf(&inline, " %s%s%s=%s", ansiGray, a.Key, ansiReset, a.Value.String())
		} else {
			fmt.Fprintf(&inline, " %s=%s", a.Key, a.Value.String())
		}
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	var sb strings.Builder
	sb.WriteString(indent)
	if h.opts.Color {
		sb.WriteString(r.Time.Format("15:04:05"))
		sb.WriteString(" " + levelColor(r.Level) + levelLabel(r.Level) + ansiReset)
	} else {
		sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
		sb.WriteString(" " + levelLabel(r.Level))
	}
	sb.WriteString(" " + r.Message)
	sb.WriteString(inline.String())
	sb.WriteString("\n")

	for _, text := range blocks {
		for _, line := range strings.Split(text, "\n") {
			if h.opts.Color {
				sb.WriteString(indent + indent + ansiGray + "│" + ansiReset + " " + line + "\n")
			} else {
				sb.WriteString(indent + indent + "| " + line + "\n")
			}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(string) slog.Handler { return h }

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERR"
	case level >= slog.LevelWarn:
		return "WRN"
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return "DBG"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiCyan
	default:
		return ansiGray
	}
}
