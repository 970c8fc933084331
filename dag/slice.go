package dag

// Slice extracts the minimal prerequisite closure needed to produce target,
// topologically ordered. The result is a sub-order of the full Sort output
// and always ends with target itself.
//
// Slice fails with a *NotFoundError if target is not a member of the batch.
func Slice(g *Graph, target string) ([]string, error) {
	if _, ok := g.Tasks[target]; !ok {
		return nil, &NotFoundError{Name: target}
	}

	// Invert ForwardEdges: task -> its direct prerequisites.
	reverse := make(map[string][]string, len(g.Tasks))
	for from, tos := range g.ForwardEdges {
		for _, to := range tos {
			reverse[to] = append(reverse[to], from)
		}
	}

	closure := map[string]struct{}{target: {}}
	stack := []string{target}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, pre := range reverse[name] {
			if _, seen := closure[pre]; seen {
				continue
			}
			closure[pre] = struct{}{}
			stack = append(stack, pre)
		}
	}

	return Sort(induced(g, closure))
}
