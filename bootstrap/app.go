package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genweave/genweave/config"
	"github.com/genweave/genweave/dag"
	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/manifest"
	"github.com/genweave/genweave/render"
)

// App is a fully wired generation run. Build one with New, then call
// RunBatch once.
type App struct {
	Settings *config.Settings
	Logger   *logger.Logger

	store render.ArtifactStore
	sink  *manifest.Sink
	fn    dag.RunFunc

	onStart []Hook
	onStop  []Hook
}

// New assembles an App from validated settings and an artifact store.
// The store is any Upload-capable backend; the local and S3 providers in
// the storage module both qualify.
func New(settings *config.Settings, store render.ArtifactStore, opts ...Option) (*App, error) {
	app := &App{
		Settings: settings,
		store:    store,
	}

	o := resolveOptions(opts)
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&settings.Logging, settings.Name)
	}

	if o.sink != nil {
		app.sink = o.sink
	} else if settings.Manifest.Path != "" {
		sink, err := manifest.NewFileSink(settings.Manifest.Path)
		if err != nil {
			return nil, err
		}
		app.sink = sink
	}

	if o.fn != nil {
		app.fn = o.fn
	} else {
		engineOpts := []render.Option{render.WithLogger(app.Logger)}
		if app.sink != nil {
			engineOpts = append(engineOpts, render.WithSink(app.sink))
		}
		engine := render.NewEngine(settings.Generator.TemplatesDir, store, engineOpts...)
		app.fn = engine.RunFunc()
	}

	return app, nil
}

// RunBatch executes the configured batch once. Dropped dependency
// references and duplicate task names are surfaced as warnings; a cycle in
// the batch aborts the run before any task executes.
//
// SIGINT and SIGTERM cancel the run. The partial result is returned
// alongside the cancellation error.
func (a *App) RunBatch(ctx context.Context) (*dag.Result, error) {
	log := a.Logger.WithComponent("bootstrap")

	batch, err := dag.LoadBatch(a.Settings.Generator.BatchFile)
	if err != nil {
		return nil, err
	}

	g := dag.Build(batch.TaskList(),
		dag.WithUnknownDependencyHook(func(task, dep string) {
			log.Warn("dropping unknown dependency", logger.Fields(
				logger.FieldTask, task,
				"dependency", dep,
			))
		}),
		dag.WithDuplicateHook(func(name string) {
			log.Warn("duplicate task name, last definition wins", logger.Fields(
				logger.FieldTask, name,
			))
		}),
	)

	if err := runHooks(ctx, a.onStart); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Warn("received signal, canceling run", logger.Fields("signal", sig.String()))
			cancel()
		case <-runCtx.Done():
		}
	}()

	sched := a.Settings.Scheduler
	runner := &dag.Runner{
		Workers:        sched.Workers,
		BlockOnFailure: sched.BlockOnFailure,
		Log:            a.Logger,
	}
	planOpts := dag.PlanOptions{
		Transitive: sched.Transitive,
		Target:     sched.Target,
		Skip:       sched.Skip,
	}

	log.Info("starting batch run", logger.Fields(
		"tasks", g.Len(),
		logger.FieldWorkers, sched.Workers,
	))

	result, runErr := runner.RunPlan(runCtx, g, planOpts, a.fn)

	if stopErr := runHooks(context.Background(), a.onStop); stopErr != nil && runErr == nil {
		runErr = stopErr
	}

	if result != nil {
		logSummary(log, result)
	}
	return result, runErr
}

// Close releases the manifest sink, if one was opened from settings.
func (a *App) Close() error {
	if a.sink == nil {
		return nil
	}
	return a.sink.Close()
}
