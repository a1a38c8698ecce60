package codec

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/quickwritereader/wideid/access"
	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/utils"
)

// OutboundOptions controls a host to foreign conversion.
type OutboundOptions struct {
	// AsArray returns an int64 *ndarray.Array; otherwise an ndarray.List.
	AsArray bool
	// UseFile overrides strategy selection.
	UseFile Override
}

// Outbound converts host identifiers of any accepted representation (see
// types.Normalize) into an int64 foreign array or list, in order.
func (c *Codec) Outbound(ctx context.Context, ids []any, opts OutboundOptions) (ndarray.Value, error) {
	wide, err := types.Normalize(ids)
	if err != nil {
		return nil, err
	}
	if opts.AsArray {
		return c.ToArray(ctx, wide, opts.UseFile)
	}
	return c.ToList(ctx, wide, opts.UseFile)
}

// ToArray converts ids into a foreign int64 array owned by the caller.
func (c *Codec) ToArray(ctx context.Context, ids []types.WideInt, useFile Override) (*ndarray.Array, error) {
	arr, _, err := c.toArray(ctx, ids, useFile)
	return arr, err
}

// ToList converts ids into the foreign runtime's native list.
func (c *Codec) ToList(ctx context.Context, ids []types.WideInt, useFile Override) (ndarray.List, error) {
	arr, _, err := c.toArray(ctx, ids, useFile)
	if err != nil {
		return nil, err
	}
	defer arr.Close(ctx)
	return arr.ToList()
}

func (c *Codec) toArray(ctx context.Context, ids []types.WideInt, useFile Override) (*ndarray.Array, Strategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, Inline, err
	}
	rt, err := c.runtime(ctx)
	if err != nil {
		return nil, Inline, err
	}

	strategy := SelectStrategy(len(ids), useFile, c.threshold)
	c.log.Debug("outbound transfer",
		zap.Int("count", len(ids)),
		zap.Stringer("strategy", strategy),
		zap.String("backend", rt.Name()))

	var arr *ndarray.Array
	switch strategy {
	case FileBacked:
		arr, err = c.sendFile(ctx, rt, ids)
	default:
		arr, err = c.sendInline(ctx, rt, ids)
	}
	if err != nil {
		return nil, strategy, err
	}
	return arr, strategy, nil
}

func (c *Codec) sendInline(ctx context.Context, rt ndarray.Runtime, ids []types.WideInt) (*ndarray.Array, error) {
	return rt.FromString(ctx, types.JoinWide(ids, ","), ",", ndarray.Int64)
}

func (c *Codec) sendFile(ctx context.Context, rt ndarray.Runtime, ids []types.WideInt) (*ndarray.Array, error) {
	buf := c.pool.AcquireSlots(len(ids))
	defer c.pool.Release(buf)
	raw := access.EncodeInto(buf, ids, c.order)

	var arr *ndarray.Array
	err := utils.WithTempFile(c.tempDir, tempPattern, func(path string) error {
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return wideerrors.Wrap(wideerrors.PhaseTransfer, wideerrors.KindIO, err, "write identifier buffer")
		}
		c.log.Debug("identifier buffer written", zap.String("path", path), zap.Int("bytes", len(raw)))

		var err error
		arr, err = rt.FromFile(ctx, path, ndarray.Int64, c.order)
		if err != nil {
			return wideerrors.Wrap(wideerrors.PhaseTransfer, wideerrors.KindIO, err, "load identifier buffer into "+rt.Name())
		}
		return nil
	}, c.observers...)
	if err != nil {
		return nil, err
	}
	return arr, nil
}
