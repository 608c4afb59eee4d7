package bug

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// List returns the bugs matching f. A status or priority outside its
// enumeration matches nothing and the store is not queried.
func (s *Service) List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	q, ok := f.Query()
	if !ok {
		s.log.DebugContext(ctx, "filter matches nothing", slog.Any("filter", filterFields(f)))
		return []domain.Bug{}, nil
	}

	bugs, err := s.bugs.List(ctx, q)
	if err != nil {
		return nil, s.fail(ctx, err, faults.Intent{Operation: OpList, Fields: filterFields(f)})
	}
	return bugs, nil
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
