package bug

import (
	"context"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// Create validates a draft, applies the status and priority defaults and
// stores the new bug.
func (s *Service) Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error) {
	intent := faults.Intent{Operation: OpCreate, Fields: d.Fields()}

	if verr := domain.ValidateBug(d); verr != nil {
		return nil, s.fail(ctx, verr, intent)
	}

	created, err := s.bugs.Create(ctx, domain.NewBug(d))
	if err != nil {
		return nil, s.fail(ctx, err, intent)
	}
	return created, nil
}
