// Package logging configures log/slog for the service.
//
// Lines written while handling an upload carry chi's request ID, and an
// import job adds its own fields to the context with With, so lines
// logged deep inside the job after the response has gone out can still
// be traced back to the request and the job.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs a logger writing to stdout as the slog default.
func Setup(level, format string) *slog.Logger {
	logger := New(os.Stdout, level, format)
	slog.SetDefault(logger)
	return logger
}

// New builds a text or JSON logger writing to w. Records logged through
// the *Context methods pick up the fields stored in their context.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(contextHandler{h})
}

// ParseLevel maps debug, warn and error to their slog levels. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type fieldsKey struct{}

// With returns a copy of ctx carrying args as log fields, appended to
// any fields ctx already has.
func With(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]any)
	fields := make([]any, 0, len(prev)+len(args))
	fields = append(fields, prev...)
	fields = append(fields, args...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// fields returns the request ID and With fields stored in ctx.
func fields(ctx context.Context) []any {
	var out []any
	if id := middleware.GetReqID(ctx); id != "" {
		out = append(out, "request_id", id)
	}
	if extra, ok := ctx.Value(fieldsKey{}).([]any); ok {
		out = append(out, extra...)
	}
	return out
}

// FromContext returns the default logger bound to the fields in ctx.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if f := fields(ctx); len(f) > 0 {
		logger = logger.With(f...)
	}
	return logger
}

// WithFields is FromContext plus args.
//
//	log := logging.WithFields(r.Context(), "session_id", id)
//	log.Info("progress stream opened")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// contextHandler adds context fields to records logged with a context,
// such as slog.InfoContext(ctx, ...).
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if f := fields(ctx); len(f) > 0 {
			r.Add(f...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
