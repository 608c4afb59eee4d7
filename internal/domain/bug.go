package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bug is the single persisted entity of the tracker.
type Bug struct {
	ID          uuid.UUID
	Title       string
	Description string
	Reporter    string
	Status      BugStatus
	Priority    BugPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BugUpdateParams holds the full replacement field set for an update.
// ID and CreatedAt are never part of it.
type BugUpdateParams struct {
	Title       string
	Description string
	Reporter    string
	Status      BugStatus
	Priority    BugPriority
}

// ParseBugID parses a caller-supplied identifier.
// A malformed identifier wraps ErrInvalidID.
func ParseBugID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bug %q: %w", raw, ErrInvalidID)
	}
	return id, nil
}

// Field is one caller-supplied value of a draft.
// WrongType marks a value that was present but not a string.
type Field struct {
	Value     string
	Present   bool
	WrongType bool
}

// Str returns a present string field.
func Str(v string) Field { return Field{Value: v, Present: true} }

// Absent returns a field that was not supplied.
func Absent() Field { return Field{} }

// BugDraft is an unvalidated field set proposed by a caller.
type BugDraft struct {
	Title       Field
	Description Field
	Reporter    Field
	Status      Field
	Priority    Field
}

// Merge overlays the present fields of d on the existing record and
// returns the merged draft. Every field of the result is present.
func (d BugDraft) Merge(existing Bug) BugDraft {
	pick := func(f Field, current string) Field {
		if f.Present {
			return f
		}
		return Str(current)
	}
	return BugDraft{
		Title:       pick(d.Title, existing.Title),
		Description: pick(d.Description, existing.Description),
		Reporter:    pick(d.Reporter, existing.Reporter),
		Status:      pick(d.Status, existing.Status.String()),
		Priority:    pick(d.Priority, existing.Priority.String()),
	}
}

// Fields returns the caller-supplied shape of the draft, for diagnostics.
func (d BugDraft) Fields() map[string]any {
	out := make(map[string]any)
	add := func(name string, f Field) {
		switch {
		case !f.Present:
		case f.WrongType:
			out[name] = "<non-string>"
		default:
			out[name] = f.Value
		}
	}
	add("title", d.Title)
	add("description", d.Description)
	add("reporter", d.Reporter)
	add("status", d.Status)
	add("priority", d.Priority)
	return out
}

// BugFilter is the caller's listing request. Status and Priority are raw
// values; an unrecognized value matches nothing.
type BugFilter struct {
	Status   *string
	Priority *string
	Sort     BugSort
}

// BugQuery is a validated listing request as passed to a store.
type BugQuery struct {
	Status   *BugStatus
	Priority *BugPriority
	Sort     BugSort
}

// Query converts the filter into a store query. ok is false when a filter
// value is outside its enumeration, in which case nothing can match.
func (f BugFilter) Query() (q BugQuery, ok bool) {
	q.Sort = f.Sort
	if !q.Sort.IsValid() {
		q.Sort = BugSortNewest
	}
	if f.Status != nil && *f.Status != "" {
		s := BugStatus(*f.Status)
		if !s.IsValid() {
			return q, false
		}
		q.Status = &s
	}
	if f.Priority != nil && *f.Priority != "" {
		p := BugPriority(*f.Priority)
		if !p.IsValid() {
			return q, false
		}
		q.Priority = &p
	}
	return q, true
}
