package wire

import (
	"github.com/quickwritereader/wideid/access"
	"github.com/quickwritereader/wideid/types"
)

func marshalRaw(ids []types.WideInt) []byte {
	return access.Encode(ids, types.LittleEndian)
}

func unmarshalRaw(data []byte) ([]types.WideInt, error) {
	return access.Decode(data, types.LittleEndian)
}
