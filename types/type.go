package types

import (
	"fmt"
	"strings"
)

// ElementKind is the closed set of foreign element types the identifier
// codecs accept. Anything else is rejected where a foreign array enters the
// codec.
type ElementKind uint8

const (
	KindInvalid    ElementKind = 0
	KindSigned64   ElementKind = 1
	KindUnsigned64 ElementKind = 2
)

// String returns the numpy-style name of the kind
func (k ElementKind) String() string {
	switch k {
	case KindSigned64:
		return "int64"
	case KindUnsigned64:
		return "uint64"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of Signed64 or Unsigned64.
func (k ElementKind) Valid() bool {
	return k == KindSigned64 || k == KindUnsigned64
}

// ParseElementKind accepts "int64"/"i8"/"signed" and "uint64"/"u8"/"unsigned".
func ParseElementKind(s string) (ElementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int64", "i8", "<i8", ">i8", "signed":
		return KindSigned64, nil
	case "uint64", "u8", "<u8", ">u8", "unsigned":
		return KindUnsigned64, nil
	default:
		return KindInvalid, fmt.Errorf("unknown element kind %q", s)
	}
}
