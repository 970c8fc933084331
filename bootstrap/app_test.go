package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/genweave/genweave/config"
	"github.com/genweave/genweave/dag"
	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/manifest"
)

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: make(map[string][]byte)} }

func (m *memStore) Upload(_ context.Context, path string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.files[path] = data
	m.mu.Unlock()
	return nil
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()

	batch := `
tasks:
  - name: page
    depends_on: [layout]
    template: page.tmpl
    output: page.html
    data:
      title: Hello
  - name: layout
    template: layout.tmpl
    output: layout.html
`
	batchPath := filepath.Join(dir, "batch.yml")
	if err := os.WriteFile(batchPath, []byte(batch), 0o600); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	tmplDir := filepath.Join(dir, "templates")
	if err := os.Mkdir(tmplDir, 0o750); err != nil {
		t.Fatalf("mkdir templates: %v", err)
	}
	for name, content := range map[string]string{
		"layout.tmpl": "layout",
		"page.tmpl":   "page: {{.title}}",
	} {
		if err := os.WriteFile(filepath.Join(tmplDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write template: %v", err)
		}
	}

	s := &config.Settings{
		Scheduler: config.SchedulerConfig{Workers: 2},
		Generator: config.GeneratorConfig{
			BatchFile:    batchPath,
			TemplatesDir: tmplDir,
		},
	}
	s.ApplyDefaults()
	return s
}

func TestRunBatch_RendersAll(t *testing.T) {
	store := newMemStore()
	app, err := New(testSettings(t), store, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	result, err := app.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(result.TaskResults) != 2 || len(result.Failed()) != 0 {
		t.Fatalf("unexpected result: %+v", result.TaskResults)
	}
	if string(store.files["page.html"]) != "page: Hello" {
		t.Fatalf("unexpected artifact: %q", store.files["page.html"])
	}
	if string(store.files["layout.html"]) != "layout" {
		t.Fatalf("unexpected artifact: %q", store.files["layout.html"])
	}
}

func TestRunBatch_ManifestSink(t *testing.T) {
	var buf bytes.Buffer
	sink := manifest.NewSink(&buf)

	app, err := New(testSettings(t), newMemStore(), WithLogger(logger.Nop()), WithSink(sink))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := app.RunBatch(context.Background()); err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 2 {
		t.Fatalf("expected 2 manifest entries, got %d", n)
	}
}

func TestRunBatch_CancelledContext(t *testing.T) {
	app, err := New(testSettings(t), newMemStore(), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = app.RunBatch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunBatch_Hooks(t *testing.T) {
	app, err := New(testSettings(t), newMemStore(), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	var order []string
	app.OnStart(func(context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnStop(func(context.Context) error {
		order = append(order, "stop")
		return nil
	})

	if _, err := app.RunBatch(context.Background()); err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(order) != 2 || order[0] != "start" || order[1] != "stop" {
		t.Fatalf("unexpected hook order: %v", order)
	}
}

func TestRunBatch_StartHookFailureAborts(t *testing.T) {
	store := newMemStore()
	app, err := New(testSettings(t), store, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	boom := errors.New("boom")
	app.OnStart(func(context.Context) error { return boom })

	if _, err := app.RunBatch(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if len(store.files) != 0 {
		t.Fatalf("no task should run after hook failure, got %v", store.files)
	}
}

func TestRunBatch_CustomRunFunc(t *testing.T) {
	var mu sync.Mutex
	var ran []string

	app, err := New(testSettings(t), newMemStore(),
		WithLogger(logger.Nop()),
		WithRunFunc(func(_ context.Context, task dag.Task) error {
			mu.Lock()
			ran = append(ran, task.Name)
			mu.Unlock()
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := app.RunBatch(context.Background()); err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("expected both tasks through custom func, got %v", ran)
	}
}

func TestRunBatch_TransitiveTarget(t *testing.T) {
	s := testSettings(t)
	s.Scheduler.Transitive = true
	s.Scheduler.Target = "layout"

	store := newMemStore()
	app, err := New(s, store, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	result, err := app.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if len(result.TaskResults) != 1 {
		t.Fatalf("expected only the slice to run, got %v", result.TaskResults)
	}
	if _, ok := store.files["page.html"]; ok {
		t.Fatal("task outside the slice was rendered")
	}
}
