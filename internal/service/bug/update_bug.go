package bug

import (
	"context"
	"fmt"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// Update merges the present fields of d into the stored bug, validates the
// merged record and checks the status transition, all in one transaction.
// Proposing the current status is not a status change.
func (s *Service) Update(ctx context.Context, rawID string, d domain.BugDraft) (*domain.Bug, error) {
	intent := faults.Intent{Operation: OpUpdate, TargetID: rawID, Fields: d.Fields()}

	id, err := domain.ParseBugID(rawID)
	if err != nil {
		return nil, s.fail(ctx, err, intent)
	}

	var updated *domain.Bug
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, getErr := s.bugs.GetByID(txCtx, id)
		if getErr != nil {
			return getErr
		}

		merged := d.Merge(*existing)
		if verr := domain.ValidateBug(merged); verr != nil {
			return verr
		}

		// Proposing the current status is not a status change. A stored
		// status outside the enumeration admits no transition.
		if proposed := domain.BugStatus(d.Status.Value); d.Status.Present && proposed != existing.Status {
			if !domain.IsValidTransition(existing.Status, proposed) {
				return domain.NewValidationError("status",
					fmt.Sprintf("Cannot change status from %s to %s", existing.Status, proposed))
			}
		}

		var updateErr error
		updated, updateErr = s.bugs.Update(txCtx, id, merged.UpdateParams())
		return updateErr
	})
	if err != nil {
		return nil, s.fail(ctx, err, intent)
	}
	return updated, nil
}
