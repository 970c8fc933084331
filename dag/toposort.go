package dag

import (
	"container/heap"
	"sort"
)

// nameHeap is a lexicographic min-heap of task names.
type nameHeap []string

func (h nameHeap) Len() int           { return len(h) }
func (h nameHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h nameHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nameHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *nameHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Sort produces one deterministic linear order consistent with the graph
// using Kahn's algorithm. Whenever multiple nodes are simultaneously ready,
// the lexicographically smallest name is emitted first, so repeated calls on
// the same graph yield byte-identical output.
//
// If not every node can be placed, Sort fails with a *CycleError carrying
// the sorted list of leftover names. The graph is not mutated.
func Sort(g *Graph) ([]string, error) {
	indeg := copyInDegree(g)

	h := &nameHeap{}
	for name, d := range indeg {
		if d == 0 {
			*h = append(*h, name)
		}
	}
	heap.Init(h)

	order := make([]string, 0, len(indeg))
	for h.Len() > 0 {
		name := heap.Pop(h).(string)
		order = append(order, name)
		for _, next := range g.ForwardEdges[name] {
			indeg[next]--
			if indeg[next] == 0 {
				heap.Push(h, next)
			}
		}
	}

	if len(order) != len(indeg) {
		placed := make(map[string]struct{}, len(order))
		for _, name := range order {
			placed[name] = struct{}{}
		}
		var remaining []string
		for name := range indeg {
			if _, ok := placed[name]; !ok {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}
