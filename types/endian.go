package types

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects how 8-byte identifier slots are laid out. The zero value
// is little-endian.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
	NativeEndian // whatever the host machine uses
)

// Binary returns the encoding/binary order, resolving NativeEndian.
func (o ByteOrder) Binary() binary.ByteOrder {
	switch o {
	case BigEndian:
		return binary.BigEndian
	case NativeEndian:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}

// Append returns the appending variant of Binary.
func (o ByteOrder) Append() binary.AppendByteOrder {
	switch o {
	case BigEndian:
		return binary.BigEndian
	case NativeEndian:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big"
	case NativeEndian:
		return "native"
	default:
		return "little"
	}
}

// ParseByteOrder reads "little", "big" or "native". An empty string means the
// caller left the order unspecified and resolves to NativeEndian.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le", "<":
		return LittleEndian, nil
	case "big", "be", ">":
		return BigEndian, nil
	case "native", "=", "":
		return NativeEndian, nil
	default:
		return LittleEndian, fmt.Errorf("unknown byte order %q", s)
	}
}
