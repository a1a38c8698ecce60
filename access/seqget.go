package access

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

// SeqGetAccess decodes identifiers one slot at a time from a stream.
type SeqGetAccess struct {
	r     *bufio.Reader
	order binary.ByteOrder
	slot  [SlotSize]byte
	pos   int   // identifiers read so far
	read  int64 // bytes consumed
}

func NewSeqGetAccess(r io.Reader, order types.ByteOrder) *SeqGetAccess {
	return &SeqGetAccess{
		r:     bufio.NewReaderSize(r, 64*SlotSize*16),
		order: order.Binary(),
	}
}

func (s *SeqGetAccess) CurrentIndex() int {
	return s.pos
}

// Next returns the next identifier, io.EOF after the last complete slot, or
// a malformed buffer error when the stream ends inside a slot.
func (s *SeqGetAccess) Next() (types.WideInt, error) {
	n, err := io.ReadFull(s.r, s.slot[:])
	s.read += int64(n)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, wideerrors.MalformedBuffer(wideerrors.PhaseDecode, s.read)
	default:
		return 0, fmt.Errorf("next: read failed at pos %d: %w", s.pos, err)
	}
	s.pos++
	return types.WideInt(s.order.Uint64(s.slot[:])), nil
}

// DecodeReader drains r. sizeHint, when positive, is the expected byte count
// and is used to size the result.
func DecodeReader(r io.Reader, order types.ByteOrder, sizeHint int64) ([]types.WideInt, error) {
	if sizeHint > 0 && sizeHint%SlotSize != 0 {
		return nil, wideerrors.MalformedBuffer(wideerrors.PhaseDecode, sizeHint)
	}
	out := make([]types.WideInt, 0, max(sizeHint/SlotSize, 0))
	s := NewSeqGetAccess(r, order)
	for {
		v, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
