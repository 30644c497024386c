package domain

// RollupCounts are the derived subtask counters cached on a parent task.
type RollupCounts struct {
	Count          int
	CompletedCount int
}

// Rollup aggregates a parent's children into its cached counters. It never
// touches the parent's own status: subtasks inform progress, they do not
// complete the parent. Order-independent and side-effect free; callers
// persist the result on any child mutation.
func Rollup(children []Task) RollupCounts {
	counts := RollupCounts{Count: len(children)}
	for _, child := range children {
		if child.Status == TaskStatusCompleted {
			counts.CompletedCount++
		}
	}
	return counts
}
