// Package bug implements the bug record store on BadgerDB. Each bug is a
// JSON document under the key "bug/<id>".
package bug

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	badgerdb "github.com/heartmarshall/bugtracker/internal/adapter/badger"
	"github.com/heartmarshall/bugtracker/internal/adapter/schema"
	"github.com/heartmarshall/bugtracker/internal/domain"
)

const keyPrefix = "bug/"

// Repo provides bug persistence backed by BadgerDB.
type Repo struct {
	tx  *badgerdb.TxManager
	now func() time.Time
}

// Option configures a Repo.
type Option func(*Repo)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// New creates a bug repository. Calls made inside tx.RunInTx share its
// transaction.
func New(tx *badgerdb.TxManager, opts ...Option) *Repo {
	r := &Repo{tx: tx, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type document struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reporter    string    `json:"reporter"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d document) toDomain() domain.Bug {
	return domain.Bug{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Reporter:    d.Reporter,
		Status:      domain.BugStatus(d.Status),
		Priority:    domain.BugPriority(d.Priority),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func key(id uuid.UUID) []byte {
	return []byte(keyPrefix + id.String())
}

// timestamp returns the current time at the precision the store keeps.
func (r *Repo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create stores a new bug with a fresh id and created_at = updated_at.
func (r *Repo) Create(ctx context.Context, b domain.Bug) (*domain.Bug, error) {
	doc := schema.FromBug(b)
	if err := schema.Check(doc); err != nil {
		return nil, fmt.Errorf("bug create: %w", err)
	}

	now := r.timestamp()
	stored := document{
		ID:          uuid.New(),
		Title:       doc.Title,
		Description: doc.Description,
		Reporter:    doc.Reporter,
		Status:      doc.Status,
		Priority:    doc.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.tx.Update(ctx, func(txn *badger.Txn) error {
		return put(txn, stored)
	})
	if err != nil {
		return nil, fmt.Errorf("bug %s: %w", stored.ID, err)
	}
	out := stored.toDomain()
	return &out, nil
}

// Update replaces the mutable fields of a bug. updated_at always moves
// forward, by at least one microsecond.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, p domain.BugUpdateParams) (*domain.Bug, error) {
	doc := schema.FromParams(p)
	if err := schema.Check(doc); err != nil {
		return nil, fmt.Errorf("bug %s: %w", id, err)
	}

	var stored document
	err := r.tx.Update(ctx, func(txn *badger.Txn) error {
		existing, err := get(txn, id)
		if err != nil {
			return err
		}

		next := r.timestamp()
		if floor := existing.UpdatedAt.Add(time.Microsecond); next.Before(floor) {
			next = floor
		}

		stored = existing
		stored.Title = doc.Title
		stored.Description = doc.Description
		stored.Reporter = doc.Reporter
		stored.Status = doc.Status
		stored.Priority = doc.Priority
		stored.UpdatedAt = next
		return put(txn, stored)
	})
	if err != nil {
		return nil, mapError(err, id)
	}
	out := stored.toDomain()
	return &out, nil
}

// Delete removes a bug. A missing key is domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.tx.Update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err != nil {
			return err
		}
		return txn.Delete(key(id))
	})
	return mapError(err, id)
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetByID returns a bug by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bug, error) {
	var stored document
	err := r.tx.View(ctx, func(txn *badger.Txn) error {
		var err error
		stored, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, mapError(err, id)
	}
	out := stored.toDomain()
	return &out, nil
}

// List scans every bug document, filters by q and sorts in memory.
func (r *Repo) List(ctx context.Context, q domain.BugQuery) ([]domain.Bug, error) {
	out := make([]domain.Bug, 0)
	err := r.tx.View(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var doc document
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			b := doc.toDomain()
			if matches(b, q) {
				out = append(out, b)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bug list: %w", err)
	}

	slices.SortStableFunc(out, comparator(q.Sort))
	return out, nil
}

func matches(b domain.Bug, q domain.BugQuery) bool {
	if q.Status != nil && b.Status != *q.Status {
		return false
	}
	if q.Priority != nil && b.Priority != *q.Priority {
		return false
	}
	return true
}

func newestFirst(a, b domain.Bug) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func comparator(s domain.BugSort) func(a, b domain.Bug) int {
	switch s {
	case domain.BugSortOldest:
		return func(a, b domain.Bug) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case domain.BugSortPriority:
		return func(a, b domain.Bug) int {
			if c := cmp.Compare(domain.PriorityWeight(b.Priority), domain.PriorityWeight(a.Priority)); c != 0 {
				return c
			}
			return newestFirst(a, b)
		}
	default:
		return newestFirst
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func get(txn *badger.Txn, id uuid.UUID) (document, error) {
	var doc document
	item, err := txn.Get(key(id))
	if err != nil {
		return doc, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return doc, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

func put(txn *badger.Txn, doc document) error {
	val, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return txn.Set(key(doc.ID), val)
}

func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("bug %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("bug %s: %w", id, err)
}
