package ndarray

import (
	"fmt"
	"strings"

	"github.com/quickwritereader/wideid/types"
)

// Dtype is the element type of a foreign array.
type Dtype uint8

const (
	DtypeInvalid Dtype = iota
	Int32
	Int64
	Uint64
	Float64
)

func (d Dtype) String() string {
	switch d {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// ItemSize is the number of bytes one element occupies.
func (d Dtype) ItemSize() int {
	switch d {
	case Int32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// ElementKind maps the dtype onto the identifier codecs' closed set.
// Everything but int64 and uint64 maps to KindInvalid.
func (d Dtype) ElementKind() types.ElementKind {
	switch d {
	case Int64:
		return types.KindSigned64
	case Uint64:
		return types.KindUnsigned64
	default:
		return types.KindInvalid
	}
}

// DtypeOf is the inverse of ElementKind.
func DtypeOf(k types.ElementKind) Dtype {
	switch k {
	case types.KindSigned64:
		return Int64
	case types.KindUnsigned64:
		return Uint64
	default:
		return DtypeInvalid
	}
}

func ParseDtype(s string) (Dtype, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int32", "i4":
		return Int32, nil
	case "int64", "i8":
		return Int64, nil
	case "uint64", "u8":
		return Uint64, nil
	case "float64", "f8", "double":
		return Float64, nil
	default:
		return DtypeInvalid, fmt.Errorf("unknown dtype %q", s)
	}
}
