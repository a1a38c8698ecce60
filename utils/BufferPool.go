package utils

import (
	"math/bits"
	"sync"
)

// BufferSizeClass lists the pooled capacities: 64 identifiers up to 128Ki
// identifiers, 8 bytes each.
var BufferSizeClass = [...]int{512, 1024, 2048, 4096, 8192, 16384, 32768, 65536, 131072, 262144, 524288, 1048576}

const (
	minClassBits = 9 // log2 of the smallest class
	maxClassSize = 1 << 20
)

func SizeIndex(n int) int {
	if n <= 0 || n > maxClassSize {
		return -1
	}
	idx := bits.Len(uint(n))
	if idx <= minClassBits {
		return 0
	}
	if n&(n-1) == 0 {
		return idx - 1 - minClassBits
	}
	return idx - minClassBits
}

type BufferPool struct {
	pools [len(BufferSizeClass)]sync.Pool
}

func NewBufferPool() *BufferPool {
	var bp BufferPool
	for i, sz := range BufferSizeClass {
		size := sz
		bp.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return &bp
}

// Acquire returns a buffer of exactly n bytes, pooled when n fits a class.
func (bp *BufferPool) Acquire(n int) []byte {
	idx := SizeIndex(n)
	if idx < 0 {
		return make([]byte, n)
	}
	bufPtr := bp.pools[idx].Get().(*[]byte)
	return (*bufPtr)[:n]
}

// AcquireSlots returns a buffer for count 8-byte identifier slots.
func (bp *BufferPool) AcquireSlots(count int) []byte {
	return bp.Acquire(count * 8)
}

func (bp *BufferPool) AcquireZeroed(n int) []byte {
	buf := bp.Acquire(n)
	clear(buf)
	return buf
}

// Release returns the buffer to its pool if its capacity matches a class.
func (bp *BufferPool) Release(buf []byte) {
	c := cap(buf)
	if c&(c-1) != 0 || c < BufferSizeClass[0] || c > maxClassSize {
		return // not a valid class
	}
	idx := bits.Len(uint(c)) - 1 - minClassBits
	if BufferSizeClass[idx] == c {
		buf = buf[:c]
		bp.pools[idx].Put(&buf)
	}
}

var defaultPool = NewBufferPool()

// DefaultPool is shared by the codecs for RawByteBuffers.
func DefaultPool() *BufferPool {
	return defaultPool
}
