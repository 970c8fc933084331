package dag

// Graph holds the adjacency and in-degree structures for one batch.
//
// A Graph is built fresh per batch and belongs to the call that built it.
// InDegree is never mutated by Sort, Slice or Runner; each copies it before
// consuming, so the same Graph can back repeated calls.
type Graph struct {
	// Tasks holds every task in the batch, keyed by name.
	Tasks map[string]Task
	// ForwardEdges maps a task name to the names that depend on it. Every
	// task name is present, even with an empty neighbor list.
	ForwardEdges map[string][]string
	// InDegree counts unresolved prerequisites per task name.
	InDegree map[string]int
}

type buildOptions struct {
	onUnknownDep func(task, dep string)
	onDuplicate  func(name string)
}

// BuildOption customizes graph construction diagnostics.
type BuildOption func(*buildOptions)

// WithUnknownDependencyHook observes dependency references to names absent
// from the batch. Such references are always dropped; the hook makes the
// drop visible so callers can warn about likely typos.
func WithUnknownDependencyHook(fn func(task, dep string)) BuildOption {
	return func(o *buildOptions) { o.onUnknownDep = fn }
}

// WithDuplicateHook observes duplicate task names within a batch. The last
// occurrence wins; the hook makes the collision visible.
func WithDuplicateHook(fn func(name string)) BuildOption {
	return func(o *buildOptions) { o.onDuplicate = fn }
}

// Build shapes a flat batch into a Graph. It is pure data shaping and
// cannot fail: dependency references to names outside the batch are dropped
// rather than rejected, so partial batches schedule cleanly.
func Build(tasks []Task, opts ...BuildOption) *Graph {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	g := &Graph{
		Tasks:        make(map[string]Task, len(tasks)),
		ForwardEdges: make(map[string][]string, len(tasks)),
		InDegree:     make(map[string]int, len(tasks)),
	}

	for _, t := range tasks {
		if _, exists := g.Tasks[t.Name]; exists && o.onDuplicate != nil {
			o.onDuplicate(t.Name)
		}
		g.Tasks[t.Name] = t
	}

	for name := range g.Tasks {
		g.ForwardEdges[name] = []string{}
		g.InDegree[name] = 0
	}

	for name, t := range g.Tasks {
		for _, dep := range t.DependsOn {
			if _, ok := g.Tasks[dep]; !ok {
				if o.onUnknownDep != nil {
					o.onUnknownDep(name, dep)
				}
				continue
			}
			g.ForwardEdges[dep] = append(g.ForwardEdges[dep], name)
			g.InDegree[name]++
		}
	}

	return g
}

// Len returns the number of tasks in the batch.
func (g *Graph) Len() int { return len(g.Tasks) }

// copyInDegree returns a private copy of the in-degree map so callers can
// consume it without mutating the graph.
func copyInDegree(g *Graph) map[string]int {
	indeg := make(map[string]int, len(g.InDegree))
	for name, d := range g.InDegree {
		indeg[name] = d
	}
	return indeg
}

// induced returns the subgraph of g restricted to the given node set.
// Edges with either endpoint outside the set are dropped.
func induced(g *Graph, keep map[string]struct{}) *Graph {
	sub := &Graph{
		Tasks:        make(map[string]Task, len(keep)),
		ForwardEdges: make(map[string][]string, len(keep)),
		InDegree:     make(map[string]int, len(keep)),
	}
	for name := range keep {
		sub.Tasks[name] = g.Tasks[name]
		sub.ForwardEdges[name] = []string{}
		sub.InDegree[name] = 0
	}
	for from := range keep {
		for _, to := range g.ForwardEdges[from] {
			if _, ok := keep[to]; !ok {
				continue
			}
			sub.ForwardEdges[from] = append(sub.ForwardEdges[from], to)
			sub.InDegree[to]++
		}
	}
	return sub
}
