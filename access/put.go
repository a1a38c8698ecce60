package access

import (
	"encoding/binary"
	"sync"

	"github.com/quickwritereader/wideid/types"
)

// SlotSize is the width of one identifier in a raw byte buffer.
const SlotSize = 8

var putAccessPool = sync.Pool{
	New: func() interface{} {
		return &PutAccess{
			buf: make([]byte, 0, 1024),
		}
	},
}

// GetPutAccess returns a pooled, empty PutAccess writing in order.
func GetPutAccess(order types.ByteOrder) *PutAccess {
	p := putAccessPool.Get().(*PutAccess)
	p.buf = p.buf[:0]
	p.order = order.Append()
	return p
}

func ReleasePutAccess(pa *PutAccess) {
	// very large buffers are left to the GC
	if cap(pa.buf) > 1<<20 {
		return
	}
	putAccessPool.Put(pa)
}

// PutAccess accumulates identifiers as fixed-width two's-complement slots.
type PutAccess struct {
	buf   []byte // payload buffer, 8 bytes per identifier
	order binary.AppendByteOrder
}

// AddID packs one identifier

func (p *PutAccess) AddID(v types.WideInt) {
	p.buf = p.order.AppendUint64(p.buf, uint64(v))
}

// AddIDs packs ids in order
func (p *PutAccess) AddIDs(ids []types.WideInt) {
	for _, v := range ids {
		p.buf = p.order.AppendUint64(p.buf, uint64(v))
	}
}

// Count returns the number of identifiers packed so far.
func (p *PutAccess) Count() int {
	return len(p.buf) / SlotSize
}

// Pack returns the packed buffer. It aliases internal storage and is only
// valid until the PutAccess is reused or released.
func (p *PutAccess) Pack() []byte {
	return p.buf
}

// Encode returns a fresh buffer of exactly 8*len(ids) bytes.
func Encode(ids []types.WideInt, order types.ByteOrder) []byte {
	p := GetPutAccess(order)
	defer ReleasePutAccess(p)
	p.AddIDs(ids)
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out
}

// EncodeInto writes ids into dst, which must hold at least 8*len(ids) bytes,
// and returns the written prefix.
func EncodeInto(dst []byte, ids []types.WideInt, order types.ByteOrder) []byte {
	bo := order.Binary()
	pos := 0
	for _, v := range ids {
		bo.PutUint64(dst[pos:], uint64(v))
		pos += SlotSize
	}
	return dst[:pos]
}
