// Package collection holds the client-local view of the bug list: the
// records, the active filter, load state and at most one outstanding error.
package collection

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

type remote interface {
	List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error)
	Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error)
	Update(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error)
	Delete(ctx context.Context, id string) error
}

type faultReporter interface {
	Report(ctx context.Context, env *faults.Envelope, intent faults.Intent)
}

// State is the load state of a collection.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateErrored State = "errored"
)

// Operation names used in failure reports.
const (
	OpReload = "collection.reload"
	OpCreate = "collection.create"
	OpUpdate = "collection.update"
	OpDelete = "collection.delete"
)

// Snapshot is a copy of the collection state at one moment.
type Snapshot struct {
	Bugs     []domain.Bug
	Filter   domain.BugFilter
	State    State
	Loading  bool
	Mutating bool
	Err      *faults.Envelope
}

// Collection is safe for concurrent use. At most one mutating call runs at
// a time; reloads may overlap it.
type Collection struct {
	api      remote
	reporter faultReporter
	log      *slog.Logger

	mu        sync.Mutex
	bugs      []domain.Bug
	filter    domain.BugFilter
	state     State
	err       *faults.Envelope
	errOp     string
	mutating  bool
	reloading bool
	pending   bool
	onChange  func()
}

// New creates an empty, idle collection.
func New(log *slog.Logger, api remote, reporter faultReporter) *Collection {
	return &Collection{
		api:      api,
		reporter: reporter,
		log:      log.With("component", "collection"),
		state:    StateIdle,
		filter:   domain.BugFilter{Sort: domain.BugSortNewest},
	}
}

// OnChange registers fn to be called after every state change. fn runs
// without the collection lock held and must not block.
func (c *Collection) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Collection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Bugs:     slices.Clone(c.bugs),
		Filter:   c.filter,
		State:    c.state,
		Loading:  c.reloading,
		Mutating: c.mutating,
		Err:      c.err,
	}
}

// DismissError clears the outstanding error.
func (c *Collection) DismissError() {
	c.mu.Lock()
	c.err = nil
	c.errOp = ""
	if c.state == StateErrored {
		c.state = StateIdle
	}
	c.mu.Unlock()
	c.notify()
}

// SetFilters replaces the filter selection and reloads once. While a
// reload is running the new selection is picked up by a single follow-up
// reload instead.
func (c *Collection) SetFilters(ctx context.Context, f domain.BugFilter) error {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	return c.Reload(ctx)
}

// Reload fetches the list for the current filter. A call made while a
// reload is running returns at once and schedules exactly one follow-up;
// results of a superseded round are discarded.
func (c *Collection) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.reloading {
		c.pending = true
		c.mu.Unlock()
		return nil
	}
	c.reloading = true

	for {
		c.pending = false
		f := c.filter
		c.state = StateLoading
		c.mu.Unlock()
		c.notify()

		bugs, err := c.api.List(ctx, f)

		c.mu.Lock()
		if c.pending {
			c.log.DebugContext(ctx, "reload superseded")
			continue
		}
		c.reloading = false

		if err != nil {
			env := c.failLocked(ctx, err, faults.Intent{Operation: OpReload, Fields: filterFields(f)})
			c.mu.Unlock()
			c.notify()
			return env
		}

		c.bugs = bugs
		c.clearLocked(true)
		c.mu.Unlock()
		c.notify()
		return nil
	}
}

// Create submits a new bug. On success the record is put at the front
// unless a record with its id is already present.
func (c *Collection) Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error) {
	if !c.beginMutation() {
		return nil, domain.ErrRequestInProgress
	}

	b, err := c.api.Create(ctx, d)

	c.mu.Lock()
	c.mutating = false
	if err != nil {
		env := c.failLocked(ctx, err, faults.Intent{Operation: OpCreate, Fields: d.Fields()})
		c.mu.Unlock()
		c.notify()
		return nil, env
	}
	if c.indexLocked(b.ID) < 0 {
		c.bugs = slices.Insert(c.bugs, 0, *b)
	}
	c.clearLocked(false)
	c.mu.Unlock()
	c.notify()
	return b, nil
}

// Update submits d for bug id and replaces the local record. A record
// that is not held locally is left alone.
func (c *Collection) Update(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error) {
	if !c.beginMutation() {
		return nil, domain.ErrRequestInProgress
	}

	b, err := c.api.Update(ctx, id, d)

	c.mu.Lock()
	c.mutating = false
	if err != nil {
		env := c.failLocked(ctx, err, faults.Intent{Operation: OpUpdate, TargetID: id, Fields: d.Fields()})
		c.mu.Unlock()
		c.notify()
		return nil, env
	}
	if i := c.indexLocked(b.ID); i >= 0 {
		c.bugs[i] = *b
	}
	c.clearLocked(false)
	c.mu.Unlock()
	c.notify()
	return b, nil
}

// Delete removes bug id remotely and locally. A record that is not held
// locally is left alone.
func (c *Collection) Delete(ctx context.Context, id string) error {
	if !c.beginMutation() {
		return domain.ErrRequestInProgress
	}

	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	c.mutating = false
	if err != nil {
		env := c.failLocked(ctx, err, faults.Intent{Operation: OpDelete, TargetID: id})
		c.mu.Unlock()
		c.notify()
		return env
	}
	if parsed, perr := uuid.Parse(id); perr == nil {
		if i := c.indexLocked(parsed); i >= 0 {
			c.bugs = slices.Delete(c.bugs, i, i+1)
		}
	}
	c.clearLocked(false)
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Collection) beginMutation() bool {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return false
	}
	c.mutating = true
	c.mu.Unlock()
	c.notify()
	return true
}

// failLocked records err as the outstanding error and reports it once.
func (c *Collection) failLocked(ctx context.Context, err error, intent faults.Intent) *faults.Envelope {
	env := faults.New(err)
	c.err = env
	c.errOp = intent.Operation
	c.state = StateErrored
	c.reporter.Report(ctx, env, intent)
	return env
}

// clearLocked settles the state after a successful reload or mutation.
// A success clears only an error left by the same kind of operation, and
// an overlapping reload keeps the loading state.
func (c *Collection) clearLocked(reload bool) {
	if c.err != nil && (c.errOp == OpReload) == reload {
		c.err = nil
		c.errOp = ""
	}
	switch {
	case c.reloading:
		c.state = StateLoading
	case c.err != nil:
		c.state = StateErrored
	default:
		c.state = StateIdle
	}
}

func (c *Collection) indexLocked(id uuid.UUID) int {
	return slices.IndexFunc(c.bugs, func(b domain.Bug) bool { return b.ID == id })
}

func (c *Collection) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func filterFields(f domain.BugFilter) map[string]any {
	out := map[string]any{"sort": f.Sort.String()}
	if f.Status != nil {
		out["status"] = *f.Status
	}
	if f.Priority != nil {
		out["priority"] = *f.Priority
	}
	return out
}
