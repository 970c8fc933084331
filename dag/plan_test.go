package dag

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func planGraph() *Graph {
	return Build(batch(
		Task{Name: "a"},
		Task{Name: "b", DependsOn: []string{"a"}},
		Task{Name: "c", DependsOn: []string{"b"}},
		Task{Name: "d"},
	))
}

func TestPlan_FullOrder(t *testing.T) {
	order, err := Plan(planGraph(), PlanOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestPlan_SkipPrefix(t *testing.T) {
	order, err := Plan(planGraph(), PlanOptions{Skip: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c", "d"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestPlan_SkipBeyondLength(t *testing.T) {
	order, err := Plan(planGraph(), PlanOptions{Skip: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("expected empty plan, got %v", order)
	}
}

func TestPlan_TransitiveWithSkip(t *testing.T) {
	order, err := Plan(planGraph(), PlanOptions{Transitive: true, Target: "c", Skip: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestPlan_TransitiveUnknownTarget(t *testing.T) {
	_, err := Plan(planGraph(), PlanOptions{Transitive: true, Target: "nope"})
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRunPlan_ExecutesSubsetOnly(t *testing.T) {
	tr := &trackingFunc{}
	r := &Runner{Workers: 2}
	res, err := r.RunPlan(context.Background(), planGraph(), PlanOptions{Transitive: true, Target: "c"}, tr.run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TaskResults) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.TaskResults))
	}
	if _, ran := res.TaskResults["d"]; ran {
		t.Fatal("task outside the slice was executed")
	}
	if tr.position("a") >= tr.position("b") || tr.position("b") >= tr.position("c") {
		t.Fatalf("precedence violated in plan run: %v", tr.seen)
	}
}

func TestRunPlan_SkipStillHonoursOrder(t *testing.T) {
	tr := &trackingFunc{}
	r := &Runner{Workers: 1}
	res, err := r.RunPlan(context.Background(), planGraph(), PlanOptions{Skip: 1}, tr.run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ran := res.TaskResults["a"]; ran {
		t.Fatal("skipped task was executed")
	}
	if len(res.TaskResults) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res.TaskResults))
	}
}
