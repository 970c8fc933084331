// Package render turns generation tasks into output content.
//
// The engine renders a task's template with its declared data, writes the
// artifact through an ArtifactStore, and records the outcome in an optional
// manifest sink. It bridges into the scheduler as a dag.RunFunc; from the
// scheduler's perspective it is an opaque, side-effecting unit of work.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/template"
	"time"

	"github.com/genweave/genweave/dag"
	"github.com/genweave/genweave/errors"
	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/manifest"
)

// ArtifactStore receives rendered artifacts. The local and S3 storage
// providers both satisfy it.
type ArtifactStore interface {
	Upload(ctx context.Context, path string, reader io.Reader) error
}

// Engine renders tasks whose payload is a dag.TaskDef.
type Engine struct {
	templatesDir string
	store        ArtifactStore
	sink         *manifest.Sink
	log          *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink records every rendered task in the given manifest sink.
func WithSink(sink *manifest.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithLogger sets the engine's logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log.WithComponent("render") }
}

// NewEngine creates a rendering engine reading templates from templatesDir
// and writing artifacts to store.
func NewEngine(templatesDir string, store ArtifactStore, opts ...Option) *Engine {
	e := &Engine{
		templatesDir: templatesDir,
		store:        store,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render executes one generation task. It never retries; the scheduler
// records the returned error as the task's terminal state.
func (e *Engine) Render(ctx context.Context, task dag.Task) error {
	start := time.Now()

	def, ok := task.Payload.(dag.TaskDef)
	if !ok {
		return errors.InvalidBatch(fmt.Sprintf("task %q carries no definition payload", task.Name))
	}
	if def.Template == "" {
		// Nothing to render; tasks may exist purely to group dependencies.
		e.log.Debug("task has no template, skipping render", logger.Fields(
			logger.FieldTask, task.Name,
		))
		return nil
	}

	tmplPath := filepath.Join(e.templatesDir, def.Template)
	tmpl, err := template.New(filepath.Base(tmplPath)).ParseFiles(tmplPath)
	if err != nil {
		return errors.RenderFailed(task.Name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, def.Data); err != nil {
		return errors.RenderFailed(task.Name, err)
	}

	out := def.Output
	if out == "" {
		out = task.Name
	}
	if err := e.store.Upload(ctx, out, bytes.NewReader(buf.Bytes())); err != nil {
		return errors.UploadFailed(out, err)
	}

	if e.sink != nil {
		entry := manifest.Entry{
			Task:       task.Name,
			Status:     string(dag.StatusCompleted),
			Artifact:   out,
			Digest:     manifest.Digest(buf.Bytes()),
			Bytes:      int64(buf.Len()),
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err := e.sink.Record(entry); err != nil {
			// The manifest is an audit trail, not a delivery guarantee;
			// the artifact is already stored.
			e.log.Warn("manifest record failed", logger.Fields(
				logger.FieldTask, task.Name,
				logger.FieldError, err.Error(),
			))
		}
	}

	e.log.Info("artifact rendered", logger.Fields(
		logger.FieldTask, task.Name,
		"artifact", out,
		"bytes", buf.Len(),
	))
	return nil
}

// RunFunc exposes the engine as a scheduler unit of work.
func (e *Engine) RunFunc() dag.RunFunc {
	return e.Render
}
