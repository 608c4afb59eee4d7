package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the upper bound on a trimmed title, in characters.
const MaxTitleLength = 200

// ValidateBug checks every field of a draft and collects all violations,
// at most one per field, in the order title, description, reporter,
// status, priority. Returns nil when the draft is valid.
// Absent status and priority are valid: defaults apply downstream.
func ValidateBug(d BugDraft) *ValidationError {
	var errs []FieldError

	if msg := checkText(d.Title, "Title"); msg != "" {
		errs = append(errs, FieldError{Field: "title", Message: msg})
	} else if utf8.RuneCountInString(strings.TrimSpace(d.Title.Value)) > MaxTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "Title cannot exceed 200 characters"})
	}

	if msg := checkText(d.Description, "Description"); msg != "" {
		errs = append(errs, FieldError{Field: "description", Message: msg})
	}

	if msg := checkText(d.Reporter, "Reporter"); msg != "" {
		errs = append(errs, FieldError{Field: "reporter", Message: msg})
	}

	if d.Status.Present && (d.Status.WrongType || !BugStatus(d.Status.Value).IsValid()) {
		errs = append(errs, FieldError{Field: "status", Message: "Status must be one of: open, in-progress, resolved"})
	}

	if d.Priority.Present && (d.Priority.WrongType || !BugPriority(d.Priority.Value).IsValid()) {
		errs = append(errs, FieldError{Field: "priority", Message: "Priority must be one of: low, medium, high, critical"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// checkText returns the first violated rule for a required text field,
// or "" when the field is acceptable.
func checkText(f Field, label string) string {
	switch {
	case !f.Present:
		return label + " is required"
	case f.WrongType:
		return label + " must be a string"
	case strings.TrimSpace(f.Value) == "":
		return label + " is required"
	}
	return ""
}

// IsValidTransition reports whether a bug may move from current to proposed.
// Every pair of distinct statuses is connected in both directions; a
// self-transition is never legal so that "nothing changed" stays
// distinguishable from "change applied".
func IsValidTransition(current, proposed BugStatus) bool {
	if !current.IsValid() || !proposed.IsValid() {
		return false
	}
	return current != proposed
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current BugStatus) []BugStatus {
	var out []BugStatus
	for _, s := range BugStatuses() {
		if IsValidTransition(current, s) {
			out = append(out, s)
		}
	}
	return out
}

// PriorityWeight orders priorities: low=1 through critical=4, 0 for
// anything outside the enumeration. Never persisted.
func PriorityWeight(p BugPriority) int {
	switch p {
	case BugPriorityLow:
		return 1
	case BugPriorityMedium:
		return 2
	case BugPriorityHigh:
		return 3
	case BugPriorityCritical:
		return 4
	}
	return 0
}

// NewBug builds a record from a validated draft, applying the status and
// priority defaults. Identity and timestamps are left to the store.
func NewBug(d BugDraft) Bug {
	b := Bug{
		Title:       strings.TrimSpace(d.Title.Value),
		Description: strings.TrimSpace(d.Description.Value),
		Reporter:    strings.TrimSpace(d.Reporter.Value),
		Status:      DefaultStatus,
		Priority:    DefaultPriority,
	}
	if d.Status.Present {
		b.Status = BugStatus(d.Status.Value)
	}
	if d.Priority.Present {
		b.Priority = BugPriority(d.Priority.Value)
	}
	return b
}

// UpdateParams converts a merged, validated draft into store params.
func (d BugDraft) UpdateParams() BugUpdateParams {
	return BugUpdateParams{
		Title:       strings.TrimSpace(d.Title.Value),
		Description: strings.TrimSpace(d.Description.Value),
		Reporter:    strings.TrimSpace(d.Reporter.Value),
		Status:      BugStatus(d.Status.Value),
		Priority:    BugPriority(d.Priority.Value),
	}
}
