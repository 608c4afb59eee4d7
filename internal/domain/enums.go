package domain

// BugStatus is the lifecycle state of a bug.
type BugStatus string

const (
	BugStatusOpen       BugStatus = "open"
	BugStatusInProgress BugStatus = "in-progress"
	BugStatusResolved   BugStatus = "resolved"
)

// DefaultStatus is assigned on creation when the caller supplies none.
const DefaultStatus = BugStatusOpen

func (s BugStatus) String() string { return string(s) }

func (s BugStatus) IsValid() bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved:
		return true
	}
	return false
}

// BugStatuses lists every status in declaration order.
func BugStatuses() []BugStatus {
	return []BugStatus{BugStatusOpen, BugStatusInProgress, BugStatusResolved}
}

// BugPriority is the urgency of a bug.
type BugPriority string

const (
	BugPriorityLow      BugPriority = "low"
	BugPriorityMedium   BugPriority = "medium"
	BugPriorityHigh     BugPriority = "high"
	BugPriorityCritical BugPriority = "critical"
)

// DefaultPriority is assigned on creation when the caller supplies none.
const DefaultPriority = BugPriorityMedium

func (p BugPriority) String() string { return string(p) }

func (p BugPriority) IsValid() bool {
	switch p {
	case BugPriorityLow, BugPriorityMedium, BugPriorityHigh, BugPriorityCritical:
		return true
	}
	return false
}

// BugPriorities lists every priority from lowest to highest.
func BugPriorities() []BugPriority {
	return []BugPriority{BugPriorityLow, BugPriorityMedium, BugPriorityHigh, BugPriorityCritical}
}

// BugSort selects the ordering of a bug listing.
type BugSort string

const (
	BugSortNewest   BugSort = "newest"
	BugSortOldest   BugSort = "oldest"
	BugSortPriority BugSort = "priority"
)

func (s BugSort) String() string { return string(s) }

func (s BugSort) IsValid() bool {
	switch s {
	case BugSortNewest, BugSortOldest, BugSortPriority:
		return true
	}
	return false
}

// ParseBugSort maps a wire directive to a BugSort. Unknown or empty
// directives fall back to BugSortNewest.
func ParseBugSort(raw string) BugSort {
	switch raw {
	case "oldest", "createdAt", "oldest-first":
		return BugSortOldest
	case "priority", "-priority", "by-priority":
		return BugSortPriority
	default:
		return BugSortNewest
	}
}
