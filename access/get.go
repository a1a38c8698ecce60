package access

import (
	"encoding/binary"
	"fmt"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

// GetAccess reads identifiers out of a raw byte buffer without copying it.
type GetAccess struct {
	buf   []byte // 8 bytes per identifier
	count int
	order binary.ByteOrder
}

// NewGetAccess validates buf and wraps it. A length that is not a multiple of
// 8 means the producer used another element width.
func NewGetAccess(buf []byte, order types.ByteOrder) (*GetAccess, error) {
	if len(buf)%SlotSize != 0 {
		return nil, wideerrors.MalformedBuffer(wideerrors.PhaseDecode, int64(len(buf)))
	}
	return &GetAccess{
		buf:   buf,
		count: len(buf) / SlotSize,
		order: order.Binary(),
	}, nil
}

func (g *GetAccess) Len() int {
	return g.count
}

// GetID decodes the identifier at position pos
func (g *GetAccess) GetID(pos int) (types.WideInt, error) {
	v, err := g.GetUint64(pos)
	return types.WideInt(v), err
}

// GetUint64 decodes the raw slot at position pos
func (g *GetAccess) GetUint64(pos int) (uint64, error) {
	if pos < 0 || pos >= g.count {
		return 0, fmt.Errorf("GetUint64: position %d out of range (count %d)", pos, g.count)
	}
	start := pos * SlotSize
	return g.order.Uint64(g.buf[start : start+SlotSize]), nil
}

// All decodes every slot.
func (g *GetAccess) All() []types.WideInt {
	out := make([]types.WideInt, g.count)
	for i := range out {
		start := i * SlotSize
		out[i] = types.WideInt(g.order.Uint64(g.buf[start : start+SlotSize]))
	}
	return out
}

// Decode reinterprets buf as len(buf)/8 identifiers. An empty buffer decodes
// to an empty, non-nil sequence.
func Decode(buf []byte, order types.ByteOrder) ([]types.WideInt, error) {
	g, err := NewGetAccess(buf, order)
	if err != nil {
		return nil, err
	}
	return g.All(), nil
}
