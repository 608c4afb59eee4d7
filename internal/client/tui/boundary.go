package tui

import (
	"context"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heartmarshall/bugtracker/internal/faults"
)

// OpRender is the operation name of render failure reports.
const OpRender = "tui.render"

type faultReporter interface {
	Report(ctx context.Context, env *faults.Envelope, intent faults.Intent)
}

// Boundary isolates render failures of one screen region. When the
// region's renderer panics, the failure is reported once and a fallback is
// shown in place of the region until Retry is called. A panic in the
// fallback itself reaches the enclosing boundary.
type Boundary struct {
	region     string
	reporter   faultReporter
	diagnostic bool

	message  string
	fallback func(env *faults.Envelope) string
	reset    func()

	failure *faults.Envelope
}

// BoundaryOption configures a Boundary.
type BoundaryOption func(*Boundary)

// WithMessage replaces the default fallback message.
func WithMessage(msg string) BoundaryOption {
	return func(b *Boundary) { b.message = msg }
}

// WithFallback replaces the default fallback rendering.
func WithFallback(fn func(env *faults.Envelope) string) BoundaryOption {
	return func(b *Boundary) { b.fallback = fn }
}

// WithReset sets a callback run by Retry before the region is drawn again.
func WithReset(fn func()) BoundaryOption {
	return func(b *Boundary) { b.reset = fn }
}

// NewBoundary creates a boundary for region. Detail text of a failure is
// shown only when diagnostic is set.
func NewBoundary(region string, reporter faultReporter, diagnostic bool, opts ...BoundaryOption) *Boundary {
	b := &Boundary{
		region:     region,
		reporter:   reporter,
		diagnostic: diagnostic,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Render draws the region with render, or the fallback when the region
// has failed.
func (b *Boundary) Render(render func() string) string {
	if b.failure != nil {
		return b.renderFallback()
	}
	out, env := b.protect(render)
	if env != nil {
		b.failure = env
		b.reporter.Report(context.Background(), env, faults.Intent{
			Operation: OpRender,
			Fields:    map[string]any{"region": b.region},
		})
		return b.renderFallback()
	}
	return out
}

// Failed reports whether the region is showing its fallback.
func (b *Boundary) Failed() bool { return b.failure != nil }

// Failure returns the recorded failure, or nil.
func (b *Boundary) Failure() *faults.Envelope { return b.failure }

// Retry clears the failure so the next Render draws the region again.
func (b *Boundary) Retry() {
	b.failure = nil
	if b.reset != nil {
		b.reset()
	}
}

func (b *Boundary) protect(render func() string) (out string, env *faults.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			out, env = "", faults.Render(rec, debug.Stack())
		}
	}()
	return render(), nil
}

var (
	fallbackStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	fallbackTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	fallbackDetailStyle = lipgloss.NewStyle().Faint(true)
)

func (b *Boundary) renderFallback() string {
	if b.fallback != nil {
		return b.fallback(b.failure)
	}

	msg := b.failure.Message
	if b.message != "" {
		msg = b.message
	}

	lines := []string{
		fallbackTitleStyle.Render(msg),
		"r retry · R reload",
	}
	if b.diagnostic {
		lines = append(lines, fallbackDetailStyle.Render(b.region+": "+b.failure.Detail()))
	}
	return fallbackStyle.Render(strings.Join(lines, "\n"))
}
