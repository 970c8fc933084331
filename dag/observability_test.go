package dag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/observability"
)

func TestWithLogging_ErrorPath(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf, "test")

	boom := errors.New("boom")
	fn := WithLogging(func(context.Context, Task) error { return boom }, log)

	if err := fn(context.Background(), Task{Name: "pages"}); !errors.Is(err, boom) {
		t.Fatalf("wrapper must pass the error through, got %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if m["task"] != "pages" || m["error"] != "boom" {
		t.Fatalf("unexpected log fields: %v", m)
	}
}

func TestWithTracing_PassesThrough(t *testing.T) {
	called := false
	fn := WithTracing(func(_ context.Context, task Task) error {
		called = task.Name == "index"
		return nil
	}, "render")

	if err := fn(context.Background(), Task{Name: "index"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("wrapped func not invoked")
	}
}

func TestWithMetrics_PassesThrough(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	boom := errors.New("boom")
	fn := WithMetrics(func(context.Context, Task) error { return boom }, metrics)
	if err := fn(context.Background(), Task{Name: "index"}); !errors.Is(err, boom) {
		t.Fatalf("wrapper must pass the error through, got %v", err)
	}
}
