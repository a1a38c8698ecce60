package types

import (
	"math"
	"strconv"
	"strings"

	wideerrors "github.com/quickwritereader/wideid/errors"
)

// WideInt is a 64-bit identifier held as an exact two's-complement bit
// pattern. It is never routed through floating point.
type WideInt int64

const (
	// MaxWide is the largest identifier representable on both sides.
	MaxWide WideInt = math.MaxInt64
	// MaxWideString is MaxWide rendered in decimal.
	MaxWideString = "9223372036854775807"

	// maxExactFloat is the largest integer a float64 holds without rounding.
	maxExactFloat = 1 << 53
)

// String renders the identifier as an exact decimal.
func (w WideInt) String() string {
	return strconv.FormatInt(int64(w), 10)
}

// Bits reinterprets the identifier as an unsigned bit pattern.
func (w WideInt) Bits() uint64 {
	return uint64(w)
}

// FromBits reinterprets an unsigned bit pattern as an identifier.
func FromBits(b uint64) WideInt {
	return WideInt(b)
}

// PutSlot writes w into the first 8 bytes of dst.
func (w WideInt) PutSlot(dst []byte, order ByteOrder) {
	order.Binary().PutUint64(dst, uint64(w))
}

// FromSlot reads an identifier from the first 8 bytes of src.
func FromSlot(src []byte, order ByteOrder) WideInt {
	return WideInt(order.Binary().Uint64(src))
}

// ParseWide parses a decimal identifier. Values outside the signed 64-bit
// range fail with an overflow error instead of saturating.
func ParseWide(s string) (WideInt, error) {
	t := strings.TrimSpace(s)
	v, err := strconv.ParseInt(t, 10, 64)
	if err == nil {
		return WideInt(v), nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, wideerrors.New(wideerrors.PhaseEncode, wideerrors.KindOverflow).
			Value(s).
			Detail("identifier %s exceeds the representable signed 64-bit range", t).
			Build()
	}
	return 0, wideerrors.New(wideerrors.PhaseEncode, wideerrors.KindInvalidInput).
		Value(s).
		Detail("%q is not a decimal integer", s).
		Build()
}

// FormatWide renders every identifier as an exact decimal string.
func FormatWide(ids []WideInt) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// JoinWide renders ids as one comma separated decimal string.
func JoinWide(ids []WideInt, sep string) string {
	if len(ids) == 1 {
		return ids[0].String()
	}
	var b strings.Builder
	b.Grow(len(ids) * 20)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(strconv.FormatInt(int64(id), 10))
	}
	return b.String()
}
