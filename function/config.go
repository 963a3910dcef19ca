package function

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/polyfunc/internal/registry"

	"go.uber.org/zap"
)

// Config tunes the process-wide descriptor registry.
type Config struct {
	Logger    *zap.Logger // default: zap.NewNop()
	NumShards int         // default: 16
}

// NewConfig returns a Config with a nil logger or a non-positive shard count replaced by defaults.
func NewConfig(logger *zap.Logger, numShards int) Config {
	cfg := registry.NewConfig(logger, numShards)
	return Config{
		Logger:    cfg.Logger,
		NumShards: cfg.NumShards,
	}
}

var (
	processRegistry atomic.Pointer[registry.Registry]

	// configMu orders descriptor creation against Configure. Lookups of
	// existing descriptors do not take it.
	configMu sync.RWMutex
)

func init() {
	processRegistry.Store(registry.New(registry.NewConfig(nil, 0)))
}

func currentRegistry() *registry.Registry {
	return processRegistry.Load()
}

// registered returns the entry stored under k, creating it on first use.
func registered(k registry.Key, create func() registry.Entry) registry.Entry {
	if e, ok := currentRegistry().Lookup(k); ok {
		return e
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return currentRegistry().LoadOrCreate(k, create)
}

// Configure replaces the descriptor registry. It must be called before the
// first Function is created and fails with ErrRegistryInUse afterwards.
//
// Usage:
//
//	logger, _ := zap.NewDevelopment()
//	if err := function.Configure(function.NewConfig(logger, 0)); err != nil {
//	    ...
//	}
func Configure(cfg Config) error {
	configMu.Lock()
	defer configMu.Unlock()

	if n := currentRegistry().Len(); n > 0 {
		return fmt.Errorf("%w: %d descriptors registered", ErrRegistryInUse, n)
	}
	processRegistry.Store(registry.New(registry.NewConfig(cfg.Logger, cfg.NumShards)))
	return nil
}
