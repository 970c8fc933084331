package bootstrap

import (
	"github.com/genweave/genweave/dag"
	"github.com/genweave/genweave/logger"
	"github.com/genweave/genweave/manifest"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger *logger.Logger
	sink   *manifest.Sink
	fn     dag.RunFunc
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, a logger is built from the
// settings' Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithSink sets a custom manifest sink, overriding the settings' manifest
// path.
func WithSink(s *manifest.Sink) Option {
	return func(o *appOptions) { o.sink = s }
}

// WithRunFunc replaces the render engine with a custom unit of work.
func WithRunFunc(fn dag.RunFunc) Option {
	return func(o *appOptions) { o.fn = fn }
}
