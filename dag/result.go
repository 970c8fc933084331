package dag

import (
	"sort"
	"time"
)

// Status is the terminal state of a dispatched task.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// TaskResult holds the outcome of a single unit of work.
type TaskResult struct {
	Name     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Result holds the outcome of a graph run. Tasks never dispatched (for
// example after cancellation) have no entry.
type Result struct {
	TaskResults map[string]TaskResult
	Duration    time.Duration
}

// Failed returns the sorted names of tasks that failed.
func (r *Result) Failed() []string {
	return r.byStatus(StatusFailed)
}

// Skipped returns the sorted names of tasks skipped by failure policy.
func (r *Result) Skipped() []string {
	return r.byStatus(StatusSkipped)
}

func (r *Result) byStatus(s Status) []string {
	var names []string
	for name, tr := range r.TaskResults {
		if tr.Status == s {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
