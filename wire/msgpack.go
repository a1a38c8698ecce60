package wire

import (
	"bytes"
	"math"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

type encoderPoolEntry struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
}

var encoderPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		enc := msgpack.NewEncoder(buf)
		enc.UseCompactInts(true)
		return &encoderPoolEntry{buf: buf, enc: enc}
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		return msgpack.NewDecoder(nil)
	},
}

func marshalMsgpack(ids []types.WideInt) ([]byte, error) {
	entry := encoderPool.Get().(*encoderPoolEntry)
	defer encoderPool.Put(entry)
	entry.buf.Reset()

	if err := entry.enc.EncodeArrayLen(len(ids)); err != nil {
		return nil, wideerrors.Wrap(wideerrors.PhaseEncode, wideerrors.KindIO, err, "msgpack array header")
	}
	for _, id := range ids {
		if err := entry.enc.EncodeInt(int64(id)); err != nil {
			return nil, wideerrors.Wrap(wideerrors.PhaseEncode, wideerrors.KindIO, err, "msgpack identifier")
		}
	}

	// copy before the buffer goes back to the pool
	return bytes.Clone(entry.buf.Bytes()), nil
}

func unmarshalMsgpack(data []byte) ([]types.WideInt, error) {
	dec := decoderPool.Get().(*msgpack.Decoder)
	defer decoderPool.Put(dec)
	dec.Reset(bytes.NewReader(data))

	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, malformedMsgpack(err, "array header")
	}
	if n < 0 {
		return nil, malformedMsgpack(nil, "nil array")
	}
	ids := make([]types.WideInt, 0, min(n, len(data)))
	for i := 0; i < n; i++ {
		code, err := dec.PeekCode()
		if err != nil {
			return nil, malformedMsgpack(err, "truncated array")
		}
		// DecodeInt64 would wrap a uint64 above the signed range silently
		if code == msgpcode.Uint64 {
			u, err := dec.DecodeUint64()
			if err != nil {
				return nil, malformedMsgpack(err, "identifier")
			}
			if u > math.MaxInt64 {
				return nil, wideerrors.Overflow(strconv.FormatUint(u, 10))
			}
			ids = append(ids, types.WideInt(u))
			continue
		}
		if msgpcode.IsFixedNum(code) || isIntCode(code) {
			v, err := dec.DecodeInt64()
			if err != nil {
				return nil, malformedMsgpack(err, "identifier")
			}
			ids = append(ids, types.WideInt(v))
			continue
		}
		return nil, wideerrors.InvalidInput(wideerrors.PhaseDecode, i, code, "msgpack element is not an integer")
	}
	return ids, nil
}

func isIntCode(c byte) bool {
	switch c {
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32,
		msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return true
	}
	return false
}

func malformedMsgpack(cause error, what string) error {
	return wideerrors.New(wideerrors.PhaseDecode, wideerrors.KindMalformedBuffer).
		Cause(cause).
		Detail("msgpack identifiers: %s", what).
		Build()
}
