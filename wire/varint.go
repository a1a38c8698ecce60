package wire

import (
	"github.com/mus-format/mus-go/varint"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

func marshalVarint(ids []types.WideInt) []byte {
	size := varint.Int.Size(len(ids))
	for _, id := range ids {
		size += varint.Int64.Size(int64(id))
	}
	bs := make([]byte, size)
	n := varint.Int.Marshal(len(ids), bs)
	for _, id := range ids {
		n += varint.Int64.Marshal(int64(id), bs[n:])
	}
	return bs[:n]
}

func unmarshalVarint(bs []byte) ([]types.WideInt, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, malformedVarint(err, "count")
	}
	// every identifier takes at least one byte
	if count < 0 || count > len(bs)-n {
		return nil, wideerrors.New(wideerrors.PhaseDecode, wideerrors.KindMalformedBuffer).
			Value(count).
			Detail("varint identifiers: count %d does not fit %d bytes", count, len(bs)-n).
			Build()
	}
	ids := make([]types.WideInt, count)
	for i := range ids {
		v, m, err := varint.Int64.Unmarshal(bs[n:])
		if err != nil {
			return nil, malformedVarint(err, "identifier")
		}
		ids[i] = types.WideInt(v)
		n += m
	}
	if n != len(bs) {
		return nil, malformedVarint(nil, "trailing bytes")
	}
	return ids, nil
}

func malformedVarint(cause error, what string) error {
	return wideerrors.New(wideerrors.PhaseDecode, wideerrors.KindMalformedBuffer).
		Cause(cause).
		Detail("varint identifiers: %s", what).
		Build()
}
