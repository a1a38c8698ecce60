package ndarray

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
)

// Memory is a linear byte region owned by the foreign runtime. Offsets are
// relative to the start of the region.
type Memory interface {
	Size() uint32
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU64(offset uint32) (uint64, error)
	WriteU64(offset uint32, value uint64) error
	Close(ctx context.Context) error
}

// Allocator hands out Memory regions.
type Allocator interface {
	Allocate(ctx context.Context, size uint32) (Memory, error)
	Close(ctx context.Context) error
}

// heapMemory backs arrays with Go memory.
type heapMemory struct {
	mu  sync.RWMutex
	buf []byte
}

func (m *heapMemory) Size() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint32(len(m.buf))
}

func (m *heapMemory) bounds(offset, length uint32) error {
	if m.buf == nil {
		return fmt.Errorf("memory closed")
	}
	if uint64(offset)+uint64(length) > uint64(len(m.buf)) {
		return fmt.Errorf("out of bounds: offset=%d, length=%d, size=%d", offset, length, len(m.buf))
	}
	return nil
}

func (m *heapMemory) Read(offset, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:])
	return out, nil
}

func (m *heapMemory) Write(offset uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.bounds(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.buf[offset:], data)
	return nil
}

func (m *heapMemory) ReadU64(offset uint32) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.bounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.buf[offset:]), nil
}

func (m *heapMemory) WriteU64(offset uint32, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.bounds(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.buf[offset:], value)
	return nil
}

func (m *heapMemory) Close(context.Context) error {
	m.mu.Lock()
	m.buf = nil
	m.mu.Unlock()
	return nil
}

// HeapAllocator allocates zeroed Go byte slices.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(_ context.Context, size uint32) (Memory, error) {
	return &heapMemory{buf: make([]byte, size)}, nil
}

func (HeapAllocator) Close(context.Context) error { return nil }
