package ndarray

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	wideerrors "github.com/quickwritereader/wideid/errors"
)

const (
	// HeapBackend keeps arrays in Go memory.
	HeapBackend = "heap"
	// WasmBackend keeps arrays in WebAssembly linear memory.
	WasmBackend = "wasm"
	// DefaultBackend is used by Default.
	DefaultBackend = HeapBackend
)

// Factory opens a runtime.
type Factory func(ctx context.Context) (Runtime, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}

	// remedies tells users how to make a well-known backend available.
	remedies = map[string]string{
		WasmBackend: `add import _ "github.com/quickwritereader/wideid/ndarray/wasmmem" to your program`,
	}
)

func init() {
	Register(HeapBackend, func(context.Context) (Runtime, error) {
		return NewHeapRuntime(), nil
	})
}

// Register makes a backend available by name. It panics if called twice with
// the same name or with a nil factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if f == nil {
		panic("ndarray: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("ndarray: Register called twice for backend " + name)
	}
	registry[name] = f
}

// Backends returns the sorted names of registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open initialises a fresh runtime for the named backend. An unknown backend
// or a failing factory is a missing dependency.
func Open(ctx context.Context, name string) (Runtime, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		remedy := remedies[name]
		if remedy == "" {
			remedy = fmt.Sprintf("registered backends: %s", strings.Join(Backends(), ", "))
		}
		return nil, wideerrors.MissingDependency(name, remedy, nil)
	}
	rt, err := f(ctx)
	if err != nil {
		return nil, wideerrors.MissingDependency(name, "backend failed to initialise", err)
	}
	return rt, nil
}

// Provider memoises one runtime: the first call to Runtime pays the
// initialisation cost, every later call gets the same handle or the same
// error. There is no teardown short of closing the runtime itself.
type Provider struct {
	name string
	open Factory
	once sync.Once
	rt   Runtime
	err  error
}

// NewProvider returns a provider for a registered backend name.
func NewProvider(name string) *Provider {
	return &Provider{
		name: name,
		open: func(ctx context.Context) (Runtime, error) { return Open(ctx, name) },
	}
}

// NewProviderFunc returns a provider that initialises with f.
func NewProviderFunc(name string, f Factory) *Provider {
	return &Provider{name: name, open: f}
}

// StaticProvider wraps an already open runtime.
func StaticProvider(rt Runtime) *Provider {
	p := &Provider{name: rt.Name(), rt: rt}
	p.once.Do(func() {})
	return p
}

// Name is the backend the provider opens.
func (p *Provider) Name() string { return p.name }

// Runtime returns the memoised runtime, initialising it on first use.
func (p *Provider) Runtime(ctx context.Context) (Runtime, error) {
	p.once.Do(func() {
		p.rt, p.err = p.open(ctx)
		if p.err != nil {
			Logger().Warn("foreign runtime unavailable", zap.String("backend", p.name), zap.Error(p.err))
			return
		}
		Logger().Debug("foreign runtime initialised", zap.String("backend", p.name))
	})
	return p.rt, p.err
}

var defaultProvider = NewProvider(DefaultBackend)

// Default returns the process-wide provider for DefaultBackend.
func Default() *Provider {
	return defaultProvider
}
