package dag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// trackingFunc records completed task names under a mutex so tests can
// assert ordering constraints after the run.
type trackingFunc struct {
	mu   sync.Mutex
	seen []string
}

func (tr *trackingFunc) run(_ context.Context, task Task) error {
	tr.mu.Lock()
	tr.seen = append(tr.seen, task.Name)
	tr.mu.Unlock()
	return nil
}

func (tr *trackingFunc) position(name string) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for i, n := range tr.seen {
		if n == name {
			return i
		}
	}
	return -1
}

func TestRunner_NilFunc(t *testing.T) {
	r := &Runner{}
	if _, err := r.Run(context.Background(), Build(nil), nil); err == nil {
		t.Fatal("expected error for nil run func")
	}
}

func TestRunner_CycleAbortsBeforeDispatch(t *testing.T) {
	g := Build(batch(
		Task{Name: "x", DependsOn: []string{"y"}},
		Task{Name: "y", DependsOn: []string{"x"}},
	))

	var calls int32
	r := &Runner{Workers: 2}
	_, err := r.Run(context.Background(), g, func(context.Context, Task) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected zero dispatches on cycle, got %d", n)
	}
}

func TestRunner_RespectsPrecedence(t *testing.T) {
	g := Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
		Task{Name: "c", DependsOn: []string{"a"}},
		Task{Name: "d", DependsOn: []string{"b", "c"}},
	))

	tr := &trackingFunc{}
	r := &Runner{Workers: 4}
	res, err := r.Run(context.Background(), g, tr.run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TaskResults) != 4 {
		t.Fatalf("expected 4 results, got %d", len(res.TaskResults))
	}

	for _, edge := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if tr.position(edge[0]) >= tr.position(edge[1]) {
			t.Fatalf("edge %s -> %s violated: %v", edge[0], edge[1], tr.seen)
		}
	}
}

func TestRunner_ExactlyOnce(t *testing.T) {
	var tasks []Task
	for i := 0; i < 20; i++ {
		tasks = append(tasks, Task{Name: fmt.Sprintf("t%02d", i)})
	}
	g := Build(tasks)

	counts := make(map[string]*int32, len(tasks))
	for _, task := range tasks {
		counts[task.Name] = new(int32)
	}

	r := &Runner{Workers: 5}
	res, err := r.Run(context.Background(), g, func(_ context.Context, task Task) error {
		atomic.AddInt32(counts[task.Name], 1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TaskResults) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(res.TaskResults))
	}
	for name, n := range counts {
		if got := atomic.LoadInt32(n); got != 1 {
			t.Fatalf("task %s ran %d times", name, got)
		}
	}
}

func TestRunner_BoundedConcurrency(t *testing.T) {
	var tasks []Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, Task{Name: fmt.Sprintf("t%d", i)})
	}
	g := Build(tasks)

	var inFlight, peak int32
	r := &Runner{Workers: 3}
	_, err := r.Run(context.Background(), g, func(context.Context, Task) error {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := atomic.LoadInt32(&peak); p > 3 {
		t.Fatalf("concurrency exceeded worker bound: peak %d", p)
	}
}

func TestRunner_SequentialWhenWorkersZero(t *testing.T) {
	var tasks []Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, Task{Name: fmt.Sprintf("t%d", i)})
	}
	g := Build(tasks)

	var inFlight, peak int32
	r := &Runner{Workers: 0}
	_, err := r.Run(context.Background(), g, func(context.Context, Task) error {
		cur := atomic.AddInt32(&inFlight, 1)
		if cur > atomic.LoadInt32(&peak) {
			atomic.StoreInt32(&peak, cur)
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := atomic.LoadInt32(&peak); p != 1 {
		t.Fatalf("expected strictly sequential execution, peak %d", p)
	}
}

func TestRunner_FailureUnblocksDependents(t *testing.T) {
	g := Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
	))

	boom := errors.New("boom")
	r := &Runner{Workers: 2}
	res, err := r.Run(context.Background(), g, func(_ context.Context, task Task) error {
		if task.Name == "a" {
			return boom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("per-task failure must not abort the run: %v", err)
	}

	ra := res.TaskResults["a"]
	if ra.Status != StatusFailed || !errors.Is(ra.Err, boom) {
		t.Fatalf("unexpected result for a: %+v", ra)
	}
	rb := res.TaskResults["b"]
	if rb.Status != StatusCompleted {
		t.Fatalf("dependent of failed task should still run, got %+v", rb)
	}
	if got := res.Failed(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected failed set: %v", got)
	}
}

func TestRunner_BlockOnFailureCascades(t *testing.T) {
	g := Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
		Task{Name: "c", DependsOn: []string{"b"}},
		Task{Name: "free"},
	))

	r := &Runner{Workers: 2, BlockOnFailure: true}
	res, err := r.Run(context.Background(), g, func(_ context.Context, task Task) error {
		if task.Name == "a" {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TaskResults["b"].Status != StatusSkipped {
		t.Fatalf("expected b skipped, got %v", res.TaskResults["b"].Status)
	}
	if res.TaskResults["c"].Status != StatusSkipped {
		t.Fatalf("expected skip to cascade to c, got %v", res.TaskResults["c"].Status)
	}
	if res.TaskResults["free"].Status != StatusCompleted {
		t.Fatalf("unrelated task must run, got %v", res.TaskResults["free"].Status)
	}
	if got := res.Skipped(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected skipped set: %v", got)
	}
}

func TestRunner_CancellationStopsDispatch(t *testing.T) {
	g := Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
	))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &Runner{Workers: 1}
	res, err := r.Run(ctx, g, func(_ context.Context, task Task) error {
		if task.Name == "a" {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, ran := res.TaskResults["b"]; ran {
		t.Fatal("task b dispatched after cancellation")
	}
	if res.TaskResults["a"].Status != StatusCompleted {
		t.Fatalf("in-flight task should be collected, got %+v", res.TaskResults["a"])
	}
}

func TestRunner_PreCancelledContext(t *testing.T) {
	g := Build(batch(Task{Name: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	r := &Runner{Workers: 1}
	res, err := r.Run(ctx, g, func(context.Context, Task) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected no dispatch under cancelled context, got %d", n)
	}
	if len(res.TaskResults) != 0 {
		t.Fatalf("expected empty result, got %v", res.TaskResults)
	}
}

func TestRunner_RepeatedRunsIndependent(t *testing.T) {
	g := Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
	))

	r := &Runner{Workers: 2}
	for i := 0; i < 3; i++ {
		res, err := r.Run(context.Background(), g, func(context.Context, Task) error { return nil })
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if len(res.TaskResults) != 2 {
			t.Fatalf("run %d: expected 2 results, got %d", i, len(res.TaskResults))
		}
	}
	if g.InDegree["b"] != 1 {
		t.Fatalf("Run mutated the graph: %v", g.InDegree)
	}
}

func TestRunner_EmptyGraph(t *testing.T) {
	r := &Runner{Workers: 3}
	res, err := r.Run(context.Background(), Build(nil), func(context.Context, Task) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TaskResults) != 0 {
		t.Fatalf("expected no results, got %v", res.TaskResults)
	}
}
