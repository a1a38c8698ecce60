package types

import (
	"fmt"
	"math"

	wideerrors "github.com/quickwritereader/wideid/errors"
)

// Normalize converts host identifiers of mixed representation into WideInt.
//
// Accepted: WideInt, int, int8..int64, uint8..uint64, float32/float64 holding
// an integral value no larger than 2^53 in magnitude, decimal strings, and
// fmt.Stringer values that render as decimals. Unsigned inputs above
// MaxWide fail with an overflow error.
func Normalize(values []any) ([]WideInt, error) {
	out := make([]WideInt, len(values))
	for i, v := range values {
		w, err := normalizeOne(i, v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func normalizeOne(i int, v any) (WideInt, error) {
	switch x := v.(type) {
	case WideInt:
		return x, nil
	case int64:
		return WideInt(x), nil
	case int:
		return WideInt(x), nil
	case int32:
		return WideInt(x), nil
	case int16:
		return WideInt(x), nil
	case int8:
		return WideInt(x), nil
	case uint8:
		return WideInt(x), nil
	case uint16:
		return WideInt(x), nil
	case uint32:
		return WideInt(x), nil
	case uint:
		return fromUnsigned(i, uint64(x))
	case uint64:
		return fromUnsigned(i, x)
	case float64:
		return fromFloat(i, x)
	case float32:
		return fromFloat(i, float64(x))
	case string:
		w, err := ParseWide(x)
		if err != nil {
			return 0, fmt.Errorf("identifier %d: %w", i, err)
		}
		return w, nil
	case fmt.Stringer:
		return normalizeOne(i, x.String())
	case nil:
		return 0, wideerrors.InvalidInput(wideerrors.PhaseEncode, i, v, "missing identifier")
	default:
		return 0, wideerrors.InvalidInput(wideerrors.PhaseEncode, i, v, fmt.Sprintf("unsupported identifier type %T", v))
	}
}

func fromUnsigned(i int, u uint64) (WideInt, error) {
	if u > math.MaxInt64 {
		return 0, wideerrors.New(wideerrors.PhaseEncode, wideerrors.KindOverflow).
			Value(u).
			Detail("identifier %d (%d) exceeds the representable signed 64-bit range", i, u).
			Build()
	}
	return WideInt(u), nil
}

func fromFloat(i int, f float64) (WideInt, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, wideerrors.InvalidInput(wideerrors.PhaseEncode, i, f, fmt.Sprintf("%v is not an integral identifier", f))
	}
	if math.Abs(f) > maxExactFloat {
		return 0, wideerrors.InvalidInput(wideerrors.PhaseEncode, i, f,
			fmt.Sprintf("%v is beyond 2^53 and may already have lost precision; pass it as a decimal string", f))
	}
	return WideInt(int64(f)), nil
}

// WideSlice converts int64 values to WideInt.
func WideSlice(vs []int64) []WideInt {
	out := make([]WideInt, len(vs))
	for i, v := range vs {
		out[i] = WideInt(v)
	}
	return out
}

// AnySlice boxes ids for callers that hand mixed inputs to Normalize.
func AnySlice[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
