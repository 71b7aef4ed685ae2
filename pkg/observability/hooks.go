// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about point generation, session storage, and API traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGenerationHooks(&myGenerationHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Generation().OnRunStart(ctx, source, points)
//	// ... generate points ...
//	observability.Generation().OnRunComplete(ctx, points, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from point generation runs.
type GenerationHooks interface {
	// OnRunStart records the beginning of a run. Source names the preset or
	// config file the run was built from; points is the requested total.
	OnRunStart(ctx context.Context, source string, points int)

	// OnBatchComplete records one finished batch within a run.
	OnBatchComplete(ctx context.Context, batch, size int, duration time.Duration, err error)

	// OnRunComplete records the end of a run with the number of points produced.
	OnRunComplete(ctx context.Context, points int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from session store operations.
type StoreHooks interface {
	// OnPut records a session write. Size is the serialized payload in bytes.
	OnPut(ctx context.Context, backend, id string, size int)

	// OnGet records a session lookup and whether it was found.
	OnGet(ctx context.Context, backend, id string, found bool)

	// OnDelete records a session removal.
	OnDelete(ctx context.Context, backend, id string)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API server.
type ServerHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnRunStart(context.Context, string, int)                         {}
func (NoopGenerationHooks) OnBatchComplete(context.Context, int, int, time.Duration, error) {}
func (NoopGenerationHooks) OnRunComplete(context.Context, int, time.Duration, error)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPut(context.Context, string, string, int)  {}
func (NoopStoreHooks) OnGet(context.Context, string, string, bool) {}
func (NoopStoreHooks) OnDelete(context.Context, string, string)    {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generationHooks GenerationHooks = NoopGenerationHooks{}
	storeHooks      StoreHooks      = NoopStoreHooks{}
	serverHooks     ServerHooks     = NoopServerHooks{}
	hooksMu         sync.RWMutex
)

// SetGenerationHooks registers custom generation hooks.
// This should be called once at application startup before any runs.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetServerHooks registers custom server hooks.
// This should be called once at application startup before serving traffic.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generationHooks = NoopGenerationHooks{}
	storeHooks = NoopStoreHooks{}
	serverHooks = NoopServerHooks{}
}
