package ndarray

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/quickwritereader/wideid/types"
)

// ErrEmptyArray is returned by Max on a zero-length array.
var ErrEmptyArray = errors.New("zero-size array has no maximum")

// Array is a dtype-tagged fixed-width array in foreign memory.
type Array struct {
	dtype Dtype
	n     int
	mem   Memory
}

// NewArray wraps mem, which must hold at least n*dtype.ItemSize() bytes.
func NewArray(dtype Dtype, n int, mem Memory) (*Array, error) {
	if dtype.ItemSize() == 0 {
		return nil, fmt.Errorf("ndarray: invalid dtype %v", dtype)
	}
	if need := uint64(n) * uint64(dtype.ItemSize()); need > uint64(mem.Size()) {
		return nil, fmt.Errorf("ndarray: memory of %d bytes cannot hold %d %s elements", mem.Size(), n, dtype)
	}
	return &Array{dtype: dtype, n: n, mem: mem}, nil
}

func (a *Array) Dtype() Dtype { return a.dtype }

func (a *Array) Len() int { return a.n }

// Memory exposes the backing region.
func (a *Array) Memory() Memory { return a.mem }

func (*Array) isValue() {}

func (a *Array) offset(i int) uint32 {
	return uint32(i * a.dtype.ItemSize())
}

// loadBits returns element i as a 64-bit pattern. int32 is sign-extended.
func (a *Array) loadBits(i int) (uint64, error) {
	if i < 0 || i >= a.n {
		return 0, fmt.Errorf("ndarray: index %d out of bounds (length %d)", i, a.n)
	}
	if a.dtype == Int32 {
		b, err := a.mem.Read(a.offset(i), 4)
		if err != nil {
			return 0, err
		}
		return uint64(int64(int32(binary.LittleEndian.Uint32(b)))), nil
	}
	return a.mem.ReadU64(a.offset(i))
}

func (a *Array) storeBits(i int, bits uint64) error {
	if a.dtype == Int32 {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(bits))
		return a.mem.Write(a.offset(i), b[:])
	}
	return a.mem.WriteU64(a.offset(i), bits)
}

// At returns element i.
func (a *Array) At(i int) (Scalar, error) {
	bits, err := a.loadBits(i)
	if err != nil {
		return Scalar{}, err
	}
	return Scalar{dtype: a.dtype, bits: bits}, nil
}

// Max returns the largest element under the dtype's own ordering. NaN wins
// for float64, as in numpy.
func (a *Array) Max() (Scalar, error) {
	if a.n == 0 {
		return Scalar{}, ErrEmptyArray
	}
	best, err := a.loadBits(0)
	if err != nil {
		return Scalar{}, err
	}
	for i := 1; i < a.n; i++ {
		v, err := a.loadBits(i)
		if err != nil {
			return Scalar{}, err
		}
		if a.greater(v, best) {
			best = v
		}
	}
	return Scalar{dtype: a.dtype, bits: best}, nil
}

func (a *Array) greater(v, best uint64) bool {
	switch a.dtype {
	case Uint64:
		return v > best
	case Float64:
		fb := math.Float64frombits(best)
		if math.IsNaN(fb) {
			return false
		}
		fv := math.Float64frombits(v)
		return math.IsNaN(fv) || fv > fb
	default:
		return int64(v) > int64(best)
	}
}

// ToList copies the array into a foreign-native list.
func (a *Array) ToList() (List, error) {
	out := make(List, a.n)
	for i := range out {
		bits, err := a.loadBits(i)
		if err != nil {
			return nil, err
		}
		out[i] = Scalar{dtype: a.dtype, bits: bits}
	}
	return out, nil
}

// Bytes serialises the array as itemsize-wide elements in order.
func (a *Array) Bytes(order types.ByteOrder) ([]byte, error) {
	size := a.dtype.ItemSize()
	out := make([]byte, a.n*size)
	bo := order.Binary()
	for i := 0; i < a.n; i++ {
		bits, err := a.loadBits(i)
		if err != nil {
			return nil, err
		}
		if size == 4 {
			bo.PutUint32(out[i*4:], uint32(bits))
		} else {
			bo.PutUint64(out[i*8:], bits)
		}
	}
	return out, nil
}

// ToFile writes the raw elements to path, truncating it, in the given byte
// order. No header is written.
func (a *Array) ToFile(path string, order types.ByteOrder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	size := a.dtype.ItemSize()
	bo := order.Append()
	slot := make([]byte, 0, 8)
	for i := 0; i < a.n; i++ {
		bits, err := a.loadBits(i)
		if err != nil {
			return err
		}
		slot = slot[:0]
		if size == 4 {
			slot = bo.AppendUint32(slot, uint32(bits))
		} else {
			slot = bo.AppendUint64(slot, bits)
		}
		if _, err := w.Write(slot); err != nil {
			return err
		}
	}
	return w.Flush()
}

// String renders the array the way numpy's repr does.
func (a *Array) String() string {
	var b strings.Builder
	b.WriteString("array([")
	for i := 0; i < a.n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := a.At(i)
		if err != nil {
			b.WriteString("?")
			continue
		}
		b.WriteString(s.String())
	}
	b.WriteString("], dtype=")
	b.WriteString(a.dtype.String())
	b.WriteString(")")
	return b.String()
}

// Close releases the array's memory. The array must not be used afterwards.
func (a *Array) Close(ctx context.Context) error {
	return a.mem.Close(ctx)
}
