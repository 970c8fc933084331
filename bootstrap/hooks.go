package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs before or after a batch run.
type Hook func(ctx context.Context) error

// OnStart registers hooks that run after the graph is built but before the
// first task is dispatched.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers hooks that run after the run finishes, regardless of
// outcome.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
