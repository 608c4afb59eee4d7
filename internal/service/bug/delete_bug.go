package bug

import (
	"context"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// Delete removes a bug by its raw identifier.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	intent := faults.Intent{Operation: OpDelete, TargetID: rawID}

	id, err := domain.ParseBugID(rawID)
	if err != nil {
		return s.fail(ctx, err, intent)
	}

	if err := s.bugs.Delete(ctx, id); err != nil {
		return s.fail(ctx, err, intent)
	}
	return nil
}
