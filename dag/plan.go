package dag

import "context"

// PlanOptions selects how the dispatch order for a batch is computed.
// It mirrors the scheduler's configuration surface.
type PlanOptions struct {
	// Transitive restricts the plan to the prerequisite closure of Target
	// instead of the full batch.
	Transitive bool
	// Target is the task the transitive plan is rooted at.
	Target string
	// Skip drops a prefix of the computed order before dispatch.
	Skip int
}

// Plan computes the ordered task list for a batch without executing it,
// for inspection and dry runs.
func Plan(g *Graph, opts PlanOptions) ([]string, error) {
	var (
		order []string
		err   error
	)
	if opts.Transitive {
		order, err = Slice(g, opts.Target)
	} else {
		order, err = Sort(g)
	}
	if err != nil {
		return nil, err
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(order) {
			return []string{}, nil
		}
		order = order[opts.Skip:]
	}
	return order, nil
}

// RunPlan executes the planned subset of g. Dependencies among the planned
// tasks are preserved; tasks dropped by Skip or excluded by the transitive
// slice are treated as already satisfied.
func (r *Runner) RunPlan(ctx context.Context, g *Graph, opts PlanOptions, fn RunFunc) (*Result, error) {
	order, err := Plan(g, opts)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(order))
	for _, name := range order {
		keep[name] = struct{}{}
	}
	return r.Run(ctx, induced(g, keep), fn)
}
