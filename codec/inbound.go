package codec

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/quickwritereader/wideid/access"
	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/utils"
)

// InboundOptions controls a foreign to host conversion.
type InboundOptions struct {
	// AsCharacter also renders every identifier as an exact decimal string.
	AsCharacter bool
}

// InboundResult holds the decoded identifiers. Strings is set only when
// AsCharacter was requested.
type InboundResult struct {
	IDs     []types.WideInt
	Strings []string
}

// Inbound converts a foreign array, scalar or list into host identifiers.
// Scalars and lists are first converted to an int64 array. Only int64 and
// uint64 arrays are accepted, and uint64 arrays must not hold values above
// 2^63-1.
func (c *Codec) Inbound(ctx context.Context, v ndarray.Value, opts InboundOptions) (InboundResult, error) {
	if err := ctx.Err(); err != nil {
		return InboundResult{}, err
	}

	arr, release, err := c.promote(ctx, v)
	if err != nil {
		return InboundResult{}, err
	}
	defer release()

	kind := arr.Dtype().ElementKind()
	if !kind.Valid() {
		return InboundResult{}, wideerrors.UnsupportedDtype(arr.Dtype().String())
	}
	if kind == types.KindUnsigned64 {
		if err := CheckOverflow(arr, kind); err != nil {
			return InboundResult{}, err
		}
	}

	ids, err := c.receiveFile(arr)
	if err != nil {
		return InboundResult{}, err
	}

	res := InboundResult{IDs: ids}
	if opts.AsCharacter {
		res.Strings = types.FormatWide(ids)
	}
	return res, nil
}

// ToWide is Inbound without string rendering.
func (c *Codec) ToWide(ctx context.Context, v ndarray.Value) ([]types.WideInt, error) {
	res, err := c.Inbound(ctx, v, InboundOptions{})
	return res.IDs, err
}

// ToStrings is Inbound returning decimal strings.
func (c *Codec) ToStrings(ctx context.Context, v ndarray.Value) ([]string, error) {
	res, err := c.Inbound(ctx, v, InboundOptions{AsCharacter: true})
	return res.Strings, err
}

// promote returns v as an array plus a func releasing anything promote
// allocated. Caller-owned arrays are never closed.
func (c *Codec) promote(ctx context.Context, v ndarray.Value) (*ndarray.Array, func(), error) {
	noop := func() {}
	var list ndarray.List
	switch x := v.(type) {
	case *ndarray.Array:
		if x == nil {
			return nil, noop, wideerrors.InvalidInput(wideerrors.PhaseDecode, 0, nil, "nil foreign array")
		}
		return x, noop, nil
	case ndarray.Scalar:
		list = ndarray.List{x}
	case ndarray.List:
		list = x
	default:
		return nil, noop, wideerrors.InvalidInput(wideerrors.PhaseDecode, 0, v, fmt.Sprintf("unsupported foreign value %T", v))
	}

	rt, err := c.runtime(ctx)
	if err != nil {
		return nil, noop, err
	}
	arr, err := rt.FromList(ctx, list, ndarray.Int64)
	if err != nil {
		return nil, noop, err
	}
	return arr, func() {
		if err := arr.Close(ctx); err != nil {
			c.log.Warn("close promoted array", zap.Error(err))
		}
	}, nil
}

func (c *Codec) receiveFile(arr *ndarray.Array) ([]types.WideInt, error) {
	var ids []types.WideInt
	err := utils.WithTempFile(c.tempDir, tempPattern, func(path string) error {
		if err := arr.ToFile(path, c.order); err != nil {
			return wideerrors.Wrap(wideerrors.PhaseTransfer, wideerrors.KindIO, err, "write foreign array")
		}

		f, err := os.Open(path)
		if err != nil {
			return wideerrors.Wrap(wideerrors.PhaseTransfer, wideerrors.KindIO, err, "open foreign array file")
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return wideerrors.Wrap(wideerrors.PhaseTransfer, wideerrors.KindIO, err, "stat foreign array file")
		}
		if info.Size()%access.SlotSize != 0 {
			return wideerrors.MalformedBuffer(wideerrors.PhaseTransfer, info.Size())
		}
		c.log.Debug("inbound transfer", zap.String("path", path), zap.Int64("bytes", info.Size()))

		ids, err = access.DecodeReader(f, c.order, info.Size())
		return err
	}, c.observers...)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
