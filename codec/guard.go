package codec

import (
	"errors"
	"math"
	"strconv"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
)

// CheckOverflow verifies that every element of an array declared as kind
// fits into int64. Signed arrays pass untouched; any kind outside the closed
// set is a programming error.
//
// The check renders the maximum as decimal and reparses it as int64.
// strconv.ParseInt saturates at math.MaxInt64 on overflow, so a reparsed
// value equal to the boundary while the text differs from the boundary's own
// text means the maximum was above 2^63-1.
func CheckOverflow(arr *ndarray.Array, kind types.ElementKind) error {
	switch kind {
	case types.KindSigned64:
		return nil
	case types.KindUnsigned64:
	default:
		return wideerrors.InvalidElementKind(kind)
	}

	m, err := arr.Max()
	if errors.Is(err, ndarray.ErrEmptyArray) {
		return nil
	}
	if err != nil {
		return wideerrors.Wrap(wideerrors.PhaseValidate, wideerrors.KindIO, err, "read array maximum")
	}

	s := m.String()
	if s == types.MaxWideString {
		return nil
	}
	if v, _ := strconv.ParseInt(s, 10, 64); v == math.MaxInt64 {
		return wideerrors.Overflow(s)
	}
	return nil
}
