package wire

import (
	"fmt"
	"strings"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

// Format names a wire encoding.
type Format uint8

const (
	// JSON is an array of decimal strings, safe for clients whose numbers are
	// doubles.
	JSON Format = iota
	// JSONNumber is an array of bare JSON numbers.
	JSONNumber
	// MsgPack is a msgpack array of integers.
	MsgPack
	// Varint is a zig-zag varint count followed by zig-zag varint identifiers.
	Varint
	// Raw is the little-endian 8-byte slot buffer.
	Raw
)

var formatNames = [...]string{
	JSON:       "json",
	JSONNumber: "json-number",
	MsgPack:    "msgpack",
	Varint:     "varint",
	Raw:        "raw",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Formats lists every format name.
func Formats() []string {
	return append([]string(nil), formatNames[:]...)
}

// ParseFormat reads a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "json", "string":
		return JSON, nil
	case "json-number", "number":
		return JSONNumber, nil
	case "msgpack", "mp":
		return MsgPack, nil
	case "varint", "mus":
		return Varint, nil
	case "raw", "binary":
		return Raw, nil
	}
	return JSON, fmt.Errorf("unknown wire format %q (want one of %s)", s, strings.Join(Formats(), ", "))
}

// Marshal encodes ids in format f.
func Marshal(ids []types.WideInt, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return marshalJSON(ids, true)
	case JSONNumber:
		return marshalJSON(ids, false)
	case MsgPack:
		return marshalMsgpack(ids)
	case Varint:
		return marshalVarint(ids), nil
	case Raw:
		return marshalRaw(ids), nil
	}
	return nil, unknownFormat(wideerrors.PhaseEncode, f)
}

// Unmarshal decodes data written in format f. The JSON formats accept both
// strings and numbers.
func Unmarshal(data []byte, f Format) ([]types.WideInt, error) {
	switch f {
	case JSON, JSONNumber:
		return unmarshalJSON(data)
	case MsgPack:
		return unmarshalMsgpack(data)
	case Varint:
		return unmarshalVarint(data)
	case Raw:
		return unmarshalRaw(data)
	}
	return nil, unknownFormat(wideerrors.PhaseDecode, f)
}

func unknownFormat(phase wideerrors.Phase, f Format) error {
	return wideerrors.New(phase, wideerrors.KindInvalidInput).
		Value(f).
		Detail("unknown wire format %s", f).
		Build()
}
