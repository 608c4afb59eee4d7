// Package schema holds the storage-side constraints shared by every bug
// store. Stores check them before each write, independent of the rules
// applied upstream.
package schema

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

// Document is the persisted shape of a bug, checked before every write.
type Document struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"required"`
	Reporter    string `validate:"required"`
	Status      string `validate:"required,oneof=open in-progress resolved"`
	Priority    string `validate:"required,oneof=low medium high critical"`
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FromBug builds the document for b with text fields trimmed.
func FromBug(b domain.Bug) Document {
	return Document{
		Title:       strings.TrimSpace(b.Title),
		Description: strings.TrimSpace(b.Description),
		Reporter:    strings.TrimSpace(b.Reporter),
		Status:      b.Status.String(),
		Priority:    b.Priority.String(),
	}
}

// FromParams builds the document for an update.
func FromParams(p domain.BugUpdateParams) Document {
	return FromBug(domain.Bug{
		Title:       p.Title,
		Description: p.Description,
		Reporter:    p.Reporter,
		Status:      p.Status,
		Priority:    p.Priority,
	})
}

// Check returns validator.ValidationErrors when d violates a constraint.
func Check(d Document) error {
	return instance().Struct(d)
}
