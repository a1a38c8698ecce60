package ndarray

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

// Runtime is the contract the identifier codecs need from a foreign numeric
// runtime. Arrays returned by a Runtime are owned by the caller.
type Runtime interface {
	// Name identifies the backend
	Name() string
	// FromString parses sep-delimited decimal text into an array of dtype
	FromString(ctx context.Context, s, sep string, dtype Dtype) (*Array, error)
	// FromFile reads raw itemsize-wide elements written in order
	FromFile(ctx context.Context, path string, dtype Dtype, order types.ByteOrder) (*Array, error)
	// FromList converts a foreign list into an array of dtype
	FromList(ctx context.Context, list List, dtype Dtype) (*Array, error)
	// Close releases everything the runtime allocated
	Close(ctx context.Context) error
}

// Engine implements Runtime over an Allocator.
type Engine struct {
	name  string
	alloc Allocator
}

// NewEngine builds a runtime named name on top of alloc.
func NewEngine(name string, alloc Allocator) *Engine {
	return &Engine{name: name, alloc: alloc}
}

// NewHeapRuntime returns an Engine backed by Go memory.
func NewHeapRuntime() *Engine {
	return NewEngine(HeapBackend, HeapAllocator{})
}

func (e *Engine) Name() string { return e.name }

// Empty allocates a zeroed array of n elements.
func (e *Engine) Empty(ctx context.Context, dtype Dtype, n int) (*Array, error) {
	size := dtype.ItemSize()
	if size == 0 {
		return nil, fmt.Errorf("ndarray: invalid dtype %v", dtype)
	}
	total := uint64(n) * uint64(size)
	if n < 0 || total > math.MaxUint32 {
		return nil, fmt.Errorf("ndarray: cannot allocate %d %s elements", n, dtype)
	}
	mem, err := e.alloc.Allocate(ctx, uint32(total))
	if err != nil {
		return nil, fmt.Errorf("ndarray: allocate %d bytes: %w", total, err)
	}
	return NewArray(dtype, n, mem)
}

// FromBits builds an array whose elements are the given 64-bit patterns.
func (e *Engine) FromBits(ctx context.Context, dtype Dtype, bits []uint64) (*Array, error) {
	arr, err := e.Empty(ctx, dtype, len(bits))
	if err != nil {
		return nil, err
	}
	for i, b := range bits {
		if err := arr.storeBits(i, b); err != nil {
			_ = arr.Close(ctx)
			return nil, err
		}
	}
	return arr, nil
}

func (e *Engine) FromString(ctx context.Context, s, sep string, dtype Dtype) (*Array, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tokens []string
	if strings.TrimSpace(s) != "" {
		tokens = strings.Split(s, sep)
	}
	bits := make([]uint64, len(tokens))
	for i, tok := range tokens {
		b, err := parseElement(strings.TrimSpace(tok), dtype)
		if err != nil {
			return nil, fmt.Errorf("ndarray: element %d: %w", i, err)
		}
		bits[i] = b
	}
	Logger().Debug("array from string", zap.String("backend", e.name), zap.Int("len", len(bits)), zap.Stringer("dtype", dtype))
	return e.FromBits(ctx, dtype, bits)
}

func (e *Engine) FromFile(ctx context.Context, path string, dtype Dtype, order types.ByteOrder) (*Array, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := dtype.ItemSize()
	if size == 0 {
		return nil, fmt.Errorf("ndarray: invalid dtype %v", dtype)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%size != 0 {
		return nil, wideerrors.New(wideerrors.PhaseRuntime, wideerrors.KindMalformedBuffer).
			Value(len(data)).
			Detail("file size %d is not a multiple of %s element size %d", len(data), dtype, size).
			Build()
	}
	n := len(data) / size
	bo := order.Binary()
	bits := make([]uint64, n)
	for i := range bits {
		if size == 4 {
			bits[i] = uint64(int64(int32(bo.Uint32(data[i*4:]))))
		} else {
			bits[i] = bo.Uint64(data[i*8:])
		}
	}
	Logger().Debug("array from file", zap.String("backend", e.name), zap.String("path", path), zap.Int("len", n))
	return e.FromBits(ctx, dtype, bits)
}

func (e *Engine) FromList(ctx context.Context, list List, dtype Dtype) (*Array, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bits := make([]uint64, len(list))
	for i, s := range list {
		b, err := convertScalar(s, dtype)
		if err != nil {
			return nil, fmt.Errorf("ndarray: element %d: %w", i, err)
		}
		bits[i] = b
	}
	return e.FromBits(ctx, dtype, bits)
}

func (e *Engine) Close(ctx context.Context) error {
	return e.alloc.Close(ctx)
}

func parseElement(tok string, dtype Dtype) (uint64, error) {
	switch dtype {
	case Int32:
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return 0, rangeOrSyntax(tok, dtype, err)
		}
		return uint64(v), nil
	case Int64:
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return 0, rangeOrSyntax(tok, dtype, err)
		}
		return uint64(v), nil
	case Uint64:
		v, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return 0, rangeOrSyntax(tok, dtype, err)
		}
		return v, nil
	case Float64:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, rangeOrSyntax(tok, dtype, err)
		}
		return math.Float64bits(v), nil
	default:
		return 0, fmt.Errorf("invalid dtype %v", dtype)
	}
}

func rangeOrSyntax(tok string, dtype Dtype, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return wideerrors.New(wideerrors.PhaseRuntime, wideerrors.KindOverflow).
			Value(tok).
			Detail("%s does not fit %s", tok, dtype).
			Build()
	}
	return wideerrors.New(wideerrors.PhaseRuntime, wideerrors.KindInvalidInput).
		Value(tok).
		Cause(err).
		Detail("cannot parse %q as %s", tok, dtype).
		Build()
}

// convertScalar casts s to dtype, refusing any conversion that would change
// the value.
func convertScalar(s Scalar, dtype Dtype) (uint64, error) {
	if s.dtype == dtype {
		return s.bits, nil
	}
	overflow := func() error {
		return wideerrors.New(wideerrors.PhaseRuntime, wideerrors.KindOverflow).
			Value(s.String()).
			Detail("%s %s does not fit %s", s.dtype, s.String(), dtype).
			Build()
	}

	switch s.dtype {
	case Int32, Int64:
		v := int64(s.bits)
		switch dtype {
		case Int64:
			return uint64(v), nil
		case Int32:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return 0, overflow()
			}
			return uint64(v), nil
		case Uint64:
			if v < 0 {
				return 0, overflow()
			}
			return uint64(v), nil
		case Float64:
			f := float64(v)
			if int64(f) != v {
				return 0, overflow()
			}
			return math.Float64bits(f), nil
		}
	case Uint64:
		switch dtype {
		case Int64:
			if s.bits > math.MaxInt64 {
				return 0, overflow()
			}
			return s.bits, nil
		case Int32:
			if s.bits > math.MaxInt32 {
				return 0, overflow()
			}
			return s.bits, nil
		case Float64:
			f := float64(s.bits)
			if f >= 1<<64 || uint64(f) != s.bits {
				return 0, overflow()
			}
			return math.Float64bits(f), nil
		}
	case Float64:
		f := math.Float64frombits(s.bits)
		if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, wideerrors.New(wideerrors.PhaseRuntime, wideerrors.KindInvalidInput).
				Value(f).
				Detail("%v is not integral", f).
				Build()
		}
		switch dtype {
		case Int64, Int32:
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return 0, overflow()
			}
			v := int64(f)
			if dtype == Int32 && (v < math.MinInt32 || v > math.MaxInt32) {
				return 0, overflow()
			}
			return uint64(v), nil
		case Uint64:
			if f < 0 || f >= 1<<64 {
				return 0, overflow()
			}
			return uint64(f), nil
		}
	}
	return 0, fmt.Errorf("cannot convert %s to %s", s.dtype, dtype)
}
