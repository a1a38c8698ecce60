package wasmmem

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/quickwritereader/wideid/ndarray"
)

const pageSize = 65536

// memoryWasm is a module with one page of exported memory and nothing else.
var memoryWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page min, no max
	0x07, 0x0a, 0x01, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // export "memory"
}

func init() {
	ndarray.Register(ndarray.WasmBackend, func(ctx context.Context) (ndarray.Runtime, error) {
		return New(ctx, nil)
	})
}

// Config holds configuration for the wasm backend
type Config struct {
	// MemoryLimitPages caps every array's linear memory, in 64 KiB pages.
	MemoryLimitPages uint32
}

// Allocator instantiates one memory module per allocation.
type Allocator struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

// NewAllocator starts a wazero runtime and compiles the memory module.
func NewAllocator(ctx context.Context, cfg *Config) (*Allocator, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, memoryWasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile memory module: %w", err)
	}
	return &Allocator{runtime: rt, compiled: compiled}, nil
}

// New returns an ndarray runtime whose arrays live in wasm memory.
func New(ctx context.Context, cfg *Config) (*ndarray.Engine, error) {
	alloc, err := NewAllocator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ndarray.NewEngine(ndarray.WasmBackend, alloc), nil
}

// Allocate instantiates an anonymous module and grows its memory to hold
// size bytes.
func (a *Allocator) Allocate(ctx context.Context, size uint32) (ndarray.Memory, error) {
	mod, err := a.runtime.InstantiateModule(ctx, a.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("memory module exports no memory")
	}

	need := (uint64(size) + pageSize - 1) / pageSize
	have := uint64(mem.Size()) / pageSize
	if need > have {
		if _, ok := mem.Grow(uint32(need - have)); !ok {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("grow wasm memory to %d pages failed", need)
		}
	}
	ndarray.Logger().Debug("wasm memory allocated",
		zap.Uint32("size", size),
		zap.Uint32("pages", mem.Size()/pageSize))

	return &Memory{mod: mod, mem: mem, size: size}, nil
}

// Close shuts down the wazero runtime and every instance it created.
func (a *Allocator) Close(ctx context.Context) error {
	return a.runtime.Close(ctx)
}

// Memory is one array's view of a module's linear memory.
type Memory struct {
	mod  api.Module
	mem  api.Memory
	size uint32
}

func (m *Memory) Size() uint32 { return m.size }

func (m *Memory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(m.size) {
		return fmt.Errorf("out of bounds: offset=%d, length=%d, size=%d", offset, length, m.size)
	}
	return nil
}

func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	// the view aliases guest memory
	return bytes.Clone(data), nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds")
	}
	return val, nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("write out of bounds")
	}
	return nil
}

func (m *Memory) Close(ctx context.Context) error {
	return m.mod.Close(ctx)
}
