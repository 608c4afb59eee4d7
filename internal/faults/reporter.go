package faults

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/bugtracker/pkg/ctxutil"
)

// Intent describes what the caller was trying to do when a failure
// happened.
type Intent struct {
	Operation string
	TargetID  string
	Fields    map[string]any
}

// Reporter records failures. Reporting never fails from the caller's
// point of view: logging errors and panics go to the fallback writer.
type Reporter struct {
	log      *slog.Logger
	fallback io.Writer
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithFallback sets the writer used when the primary log handler fails.
func WithFallback(w io.Writer) ReporterOption {
	return func(r *Reporter) { r.fallback = w }
}

func NewReporter(log *slog.Logger, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		log:      log.With("component", "faults"),
		fallback: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report logs env once. Expected kinds are logged at INFO, faults at ERROR.
func (r *Reporter) Report(ctx context.Context, env *Envelope, intent Intent) {
	if env == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.writeFallback(env, fmt.Errorf("log handler panic: %v", rec))
		}
	}()

	level := slog.LevelError
	if env.Kind.Expected() {
		level = slog.LevelInfo
	}

	h := r.log.Handler()
	if !h.Enabled(ctx, level) {
		return
	}

	rec := slog.NewRecord(time.Now(), level, "request failed", 0)
	rec.AddAttrs(
		slog.String("kind", env.Kind.String()),
		slog.String("message", env.Message),
		slog.Bool("retryable", env.Retryable),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
		slog.String("operation", intent.Operation),
	)
	if intent.TargetID != "" {
		rec.AddAttrs(slog.String("target_id", intent.TargetID))
	}
	if len(intent.Fields) > 0 {
		rec.AddAttrs(slog.Any("fields", intent.Fields))
	}
	if len(env.Context) > 0 {
		rec.AddAttrs(slog.Any("context", env.Context))
	}
	if d := env.Detail(); d != "" {
		rec.AddAttrs(slog.String("cause", d))
	}
	if env.stack != "" {
		rec.AddAttrs(slog.String("stack", env.stack))
	}

	if err := h.Handle(ctx, rec); err != nil {
		r.writeFallback(env, err)
	}
}

func (r *Reporter) writeFallback(env *Envelope, err error) {
	if r.fallback == nil {
		return
	}
	defer func() { _ = recover() }()
	_, _ = fmt.Fprintf(r.fallback, "%s fault reporter: %v; kind=%s message=%q cause=%q\n",
		time.Now().UTC().Format(time.RFC3339), err, env.Kind, env.Message, env.Detail())
}
