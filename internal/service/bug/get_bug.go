package bug

import (
	"context"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// Get returns a bug by its raw identifier. A malformed identifier is
// reported the same way as a missing bug.
func (s *Service) Get(ctx context.Context, rawID string) (*domain.Bug, error) {
	intent := faults.Intent{Operation: OpGet, TargetID: rawID}

	id, err := domain.ParseBugID(rawID)
	if err != nil {
		return nil, s.fail(ctx, err, intent)
	}

	b, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, err, intent)
	}
	return b, nil
}
