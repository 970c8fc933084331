package storage

import (
	"fmt"

	"github.com/genweave/genweave/logger"
)

// Factory creates a Storage implementation from configuration. Provider
// packages call RegisterFactory (typically in an init function) to make
// themselves available to New.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]Factory)

// RegisterFactory registers a storage backend factory for the given
// provider name.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates a Storage implementation based on the given Config. Ensure
// the desired provider package has been imported (e.g.
// _ "github.com/genweave/genweave/storage/local") so its factory is
// registered.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	l := log.WithComponent("storage")
	l.Info("initializing artifact storage", logger.Fields("provider", cfg.Provider))
	return f(cfg, l)
}
