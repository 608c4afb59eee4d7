package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/heartmarshall/bugtracker/internal/client/collection"
)

// Run shows the bug list screen until the user quits or ctx is done.
func Run(ctx context.Context, bugs *collection.Collection, reporter faultReporter, diagnostic bool) error {
	p := tea.NewProgram(
		NewModel(ctx, bugs, reporter, diagnostic),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	return run(ctx, p, bugs)
}

func run(ctx context.Context, p *tea.Program, bugs *collection.Collection) error {
	stop := forwardChanges(p, bugs)
	defer stop()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// forwardChanges relays collection change notifications to p as
// changedMsg. The listener never blocks: the collection also notifies
// from inside Update, while the event loop cannot receive. Bursts
// collapse into one pending message.
func forwardChanges(p *tea.Program, bugs *collection.Collection) (stop func()) {
	changed := make(chan struct{}, 1)
	done := make(chan struct{})

	bugs.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-changed:
				p.Send(changedMsg{})
			}
		}
	}()

	return func() {
		bugs.OnChange(nil)
		close(done)
	}
}
