package ndarray

import (
	"math"
	"strconv"
)

// Value is anything the foreign runtime can hand back: an *Array, a Scalar
// or a List.
type Value interface {
	isValue()
}

// Scalar is a single foreign number, kept as the raw 64-bit pattern of its
// dtype (int32 sign-extended, float64 as IEEE bits).
type Scalar struct {
	dtype Dtype
	bits  uint64
}

// NewScalar wraps a raw bit pattern already laid out for dtype.
func NewScalar(dtype Dtype, bits uint64) Scalar {
	return Scalar{dtype: dtype, bits: bits}
}

func Int64Scalar(v int64) Scalar {
	return NewScalar(Int64, uint64(v))
}

func Uint64Scalar(v uint64) Scalar {
	return NewScalar(Uint64, v)
}

func Float64Scalar(v float64) Scalar {
	return NewScalar(Float64, math.Float64bits(v))
}

func (s Scalar) Dtype() Dtype { return s.dtype }

func (s Scalar) Bits() uint64 { return s.bits }

// String renders the scalar exactly: decimal for integers, shortest
// round-tripping form for floats.
func (s Scalar) String() string {
	switch s.dtype {
	case Uint64:
		return strconv.FormatUint(s.bits, 10)
	case Float64:
		return strconv.FormatFloat(math.Float64frombits(s.bits), 'g', -1, 64)
	default:
		return strconv.FormatInt(int64(s.bits), 10)
	}
}

func (Scalar) isValue() {}

// List is the foreign runtime's native list of numbers.
type List []Scalar

// IntList builds an int64 list.
func IntList(vs ...int64) List {
	out := make(List, len(vs))
	for i, v := range vs {
		out[i] = Int64Scalar(v)
	}
	return out
}

// Strings renders every element with Scalar.String.
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, s := range l {
		out[i] = s.String()
	}
	return out
}

func (List) isValue() {}
