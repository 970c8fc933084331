package dag

import (
	"context"
	"fmt"
	"time"

	"github.com/genweave/genweave/logger"
)

// RunFunc executes one task. It may perform blocking I/O; cancellation is
// observed through ctx. The scheduler never retries a failed unit.
type RunFunc func(ctx context.Context, task Task) error

// Runner executes a graph through a caller-supplied unit of work with
// bounded concurrency. The dependency graph, not the pool, supplies ordering
// constraints: a task is dispatched only once every task it depends on has
// reached a terminal state. Among tasks with no mutual dependency relation
// no dispatch order is guaranteed.
type Runner struct {
	// Workers bounds the number of concurrently in-flight units. Zero or
	// negative means strictly sequential execution.
	Workers int
	// BlockOnFailure marks every not-yet-ready dependent of a failed task
	// as skipped instead of dispatching it against a missing or partial
	// upstream artifact. Off by default: failures are logged and still
	// unblock dependents.
	BlockOnFailure bool
	// Log receives per-task failure reports. Nil disables logging.
	Log *logger.Logger
}

// completion is the fan-in event a worker sends when its unit finishes.
type completion struct {
	name string
	err  error
	took time.Duration
}

// Run dispatches every task in g. Structural problems (a cycle) surface
// before any unit executes. Per-task failures are isolated: they are
// recorded in the Result and never abort the run.
//
// When ctx is cancelled, no further units are dispatched; outstanding units
// are drained best-effort and ctx.Err() is returned alongside the partial
// Result, so the interrupt always propagates to the caller.
func (r *Runner) Run(ctx context.Context, g *Graph, fn RunFunc) (*Result, error) {
	if fn == nil {
		return nil, fmt.Errorf("dag: nil run func")
	}
	if _, err := Sort(g); err != nil {
		return nil, err
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}

	start := time.Now()
	total := g.Len()
	indeg := copyInDegree(g)
	results := make(map[string]TaskResult, total)
	upstreamFailed := make(map[string]bool)

	var ready []string
	for name, d := range indeg {
		if d == 0 {
			ready = append(ready, name)
		}
	}

	settled := 0

	// settle records a terminal state and unblocks dependents. Skip
	// propagation recurses so an entire blocked subtree resolves at once.
	var settle func(res TaskResult)
	settle = func(res TaskResult) {
		results[res.Name] = res
		settled++
		bad := res.Status != StatusCompleted
		for _, next := range g.ForwardEdges[res.Name] {
			if bad {
				upstreamFailed[next] = true
			}
			indeg[next]--
			if indeg[next] != 0 {
				continue
			}
			if r.BlockOnFailure && upstreamFailed[next] {
				settle(TaskResult{Name: next, Status: StatusSkipped})
			} else {
				ready = append(ready, next)
			}
		}
	}

	done := make(chan completion)
	inFlight := 0

	dispatch := func(name string) {
		task := g.Tasks[name]
		inFlight++
		go func() {
			t0 := time.Now()
			err := fn(ctx, task)
			done <- completion{name: name, err: err, took: time.Since(t0)}
		}()
	}

	var runErr error

loop:
	for settled < total {
		if err := ctx.Err(); err != nil {
			runErr = err
			break loop
		}

		for inFlight < workers && len(ready) > 0 {
			name := ready[len(ready)-1]
			ready = ready[:len(ready)-1]
			dispatch(name)
		}

		if inFlight == 0 {
			// Cycle detection above guarantees progress, so an empty pool
			// with unsettled nodes means coordinator state is corrupt.
			runErr = fmt.Errorf("dag: no dispatchable tasks but %d of %d unsettled", total-settled, total)
			break loop
		}

		select {
		case c := <-done:
			inFlight--
			status := StatusCompleted
			if c.err != nil {
				status = StatusFailed
				log.Error("task failed", logger.Fields(
					"task", c.name,
					"error", c.err.Error(),
				))
			}
			settle(TaskResult{Name: c.name, Status: status, Duration: c.took, Err: c.err})
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		}
	}

	// Best-effort teardown: no new dispatch, collect what is in flight.
	for inFlight > 0 {
		c := <-done
		inFlight--
		status := StatusCompleted
		if c.err != nil {
			status = StatusFailed
		}
		settle(TaskResult{Name: c.name, Status: status, Duration: c.took, Err: c.err})
	}

	result := &Result{TaskResults: results, Duration: time.Since(start)}
	if runErr != nil {
		return result, runErr
	}
	return result, nil
}
