package codec

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	_ "github.com/quickwritereader/wideid/ndarray/wasmmem"
	"github.com/quickwritereader/wideid/types"
)

// newTestCodec returns a codec whose temp files land in a per-test dir, and
// a func listing the temp files that were created and removed.
func newTestCodec(t *testing.T, rt ndarray.Runtime, opts ...Option) (*Codec, string, func() []string) {
	t.Helper()
	dir := t.TempDir()
	var mu sync.Mutex
	var seen []string
	opts = append([]Option{
		WithTempDir(dir),
		WithTempFileObserver(func(path string, err error) {
			assert.NoError(t, err)
			mu.Lock()
			seen = append(seen, path)
			mu.Unlock()
		}),
	}, opts...)
	return New(ndarray.StaticProvider(rt), opts...), dir, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files left behind")
}

func sampleIDs(n int) []types.WideInt {
	ids := make([]types.WideInt, n)
	for i := range ids {
		// supervoxel-like ids with the top bits in use, plus edge values
		ids[i] = types.WideInt(720575940379279360 + int64(i)*104729)
	}
	if n > 3 {
		ids[0] = math.MinInt64
		ids[1] = -1
		ids[2] = math.MaxInt64
		ids[3] = 0
	}
	return ids
}

func backends(t *testing.T) map[string]ndarray.Runtime {
	t.Helper()
	ctx := context.Background()
	wasm, err := ndarray.Open(ctx, ndarray.WasmBackend)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wasm.Close(ctx) })
	return map[string]ndarray.Runtime{
		"heap": ndarray.NewHeapRuntime(),
		"wasm": wasm,
	}
}

func TestRoundTrip_BothPaths(t *testing.T) {
	ctx := context.Background()

	for name, rt := range backends(t) {
		for _, n := range []int{0, 1, 2, 17, 12000} {
			for _, override := range []Override{ForceInline, ForceFile, Unset} {
				c, dir, _ := newTestCodec(t, rt)
				ids := sampleIDs(n)

				arr, err := c.ToArray(ctx, ids, override)
				require.NoError(t, err, "%s n=%d %s", name, n, override)
				assert.Equal(t, ndarray.Int64, arr.Dtype())
				assert.Equal(t, n, arr.Len())

				back, err := c.ToWide(ctx, arr)
				require.NoError(t, err)
				assert.Equal(t, ids, append([]types.WideInt{}, back...), "%s n=%d %s", name, n, override)

				require.NoError(t, arr.Close(ctx))
				assertDirEmpty(t, dir)
			}
		}
	}
}

func TestStrategyEquivalence(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCodec(t, ndarray.NewHeapRuntime())
	ids := sampleIDs(500)

	inline, err := c.ToArray(ctx, ids, ForceInline)
	require.NoError(t, err)
	file, err := c.ToArray(ctx, ids, ForceFile)
	require.NoError(t, err)

	for _, order := range []types.ByteOrder{types.LittleEndian, types.BigEndian} {
		a, err := inline.Bytes(order)
		require.NoError(t, err)
		b, err := file.Bytes(order)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
	assert.Equal(t, inline.Dtype(), file.Dtype())
}

func TestOutbound_UsesFileAtThreshold(t *testing.T) {
	ctx := context.Background()
	c, dir, seen := newTestCodec(t, ndarray.NewHeapRuntime())

	_, err := c.ToArray(ctx, sampleIDs(9999), Unset)
	require.NoError(t, err)
	assert.Empty(t, seen())

	_, err = c.ToArray(ctx, sampleIDs(10000), Unset)
	require.NoError(t, err)
	assert.Len(t, seen(), 1)

	_, err = c.ToArray(ctx, sampleIDs(1), ForceFile)
	require.NoError(t, err)
	assert.Len(t, seen(), 2)

	assertDirEmpty(t, dir)
}

func TestOutbound_MixedHostInputs(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCodec(t, ndarray.NewHeapRuntime())

	v, err := c.Outbound(ctx, []any{"720575940379279360", types.WideInt(-1), 3, float64(4)}, OutboundOptions{AsArray: false})
	require.NoError(t, err)
	list, ok := v.(ndarray.List)
	require.True(t, ok)
	assert.Equal(t, []string{"720575940379279360", "-1", "3", "4"}, list.Strings())

	v, err = c.Outbound(ctx, []any{"5"}, OutboundOptions{AsArray: true, UseFile: ForceFile})
	require.NoError(t, err)
	arr, ok := v.(*ndarray.Array)
	require.True(t, ok)
	assert.Equal(t, "array([5], dtype=int64)", arr.String())

	_, err = c.Outbound(ctx, []any{"18446744073709551615"}, OutboundOptions{AsArray: true})
	assert.ErrorIs(t, err, wideerrors.ErrOverflow)
}

func TestInbound_Scenario(t *testing.T) {
	ctx := context.Background()
	c, dir, _ := newTestCodec(t, ndarray.NewHeapRuntime())

	arr, err := ndarray.NewHeapRuntime().FromString(ctx, "1,2,3", ",", ndarray.Int64)
	require.NoError(t, err)

	res, err := c.Inbound(ctx, arr, InboundOptions{AsCharacter: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, res.Strings)
	assert.Equal(t, []types.WideInt{1, 2, 3}, res.IDs)
	assertDirEmpty(t, dir)

	// the caller still owns the array
	assert.Equal(t, 3, arr.Len())
	_, err = arr.At(2)
	assert.NoError(t, err)
}

func TestInbound_Overflow(t *testing.T) {
	ctx := context.Background()
	c, dir, seen := newTestCodec(t, ndarray.NewHeapRuntime())
	rt := ndarray.NewHeapRuntime()

	bad, err := rt.FromString(ctx, "1,18446744073709551615", ",", ndarray.Uint64)
	require.NoError(t, err)
	_, err = c.Inbound(ctx, bad, InboundOptions{})
	assert.ErrorIs(t, err, wideerrors.ErrOverflow)
	assert.Empty(t, seen(), "guard runs before any transfer")

	ok, err := rt.FromString(ctx, "9223372036854775807,5", ",", ndarray.Uint64)
	require.NoError(t, err)
	res, err := c.Inbound(ctx, ok, InboundOptions{AsCharacter: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"9223372036854775807", "5"}, res.Strings)
	assertDirEmpty(t, dir)
}

func TestInbound_UnsupportedDtype(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCodec(t, ndarray.NewHeapRuntime())
	rt := ndarray.NewHeapRuntime()

	for _, dtype := range []ndarray.Dtype{ndarray.Int32, ndarray.Float64} {
		arr, err := rt.FromString(ctx, "1,2", ",", dtype)
		require.NoError(t, err)
		_, err = c.Inbound(ctx, arr, InboundOptions{})
		assert.ErrorIs(t, err, wideerrors.ErrUnsupportedDtype)
		assert.Contains(t, err.Error(), "only int64 or uint64 numpy-style arrays are accepted")
	}
}

func TestInbound_PromotesScalarsAndLists(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCodec(t, ndarray.NewHeapRuntime())

	strs, err := c.ToStrings(ctx, ndarray.Uint64Scalar(720575940379279360))
	require.NoError(t, err)
	assert.Equal(t, []string{"720575940379279360"}, strs)

	ids, err := c.ToWide(ctx, ndarray.IntList(4, -5, 6))
	require.NoError(t, err)
	assert.Equal(t, []types.WideInt{4, -5, 6}, ids)

	_, err = c.ToWide(ctx, ndarray.List{ndarray.Uint64Scalar(math.MaxUint64)})
	assert.ErrorIs(t, err, wideerrors.ErrOverflow)

	_, err = c.ToWide(ctx, nil)
	assert.ErrorIs(t, err, wideerrors.ErrInvalidInput)
}

func TestInbound_ByteOrders(t *testing.T) {
	ctx := context.Background()
	ids := sampleIDs(64)

	for _, order := range []types.ByteOrder{types.LittleEndian, types.BigEndian, types.NativeEndian} {
		c, dir, _ := newTestCodec(t, ndarray.NewHeapRuntime(), WithByteOrder(order))
		assert.Equal(t, order, c.ByteOrder())

		arr, err := c.ToArray(ctx, ids, ForceFile)
		require.NoError(t, err)
		back, err := c.ToWide(ctx, arr)
		require.NoError(t, err)
		assert.Equal(t, ids, back)
		assertDirEmpty(t, dir)
	}
}

func TestCodec_MissingRuntime(t *testing.T) {
	ctx := context.Background()
	c := New(ndarray.NewProvider("numpy"), WithTempDir(t.TempDir()))

	_, err := c.ToArray(ctx, sampleIDs(3), Unset)
	assert.ErrorIs(t, err, wideerrors.ErrMissingDependency)

	_, err = c.ToWide(ctx, ndarray.IntList(1))
	assert.ErrorIs(t, err, wideerrors.ErrMissingDependency)
}

func TestCodec_Options(t *testing.T) {
	c := New(nil, WithFileThreshold(50), WithFileThreshold(-1))
	assert.Equal(t, 50, c.Threshold())
	assert.Equal(t, types.LittleEndian, c.ByteOrder())
}

func TestCodec_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _, _ := newTestCodec(t, ndarray.NewHeapRuntime())

	_, err := c.ToArray(ctx, sampleIDs(3), Unset)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.ToWide(ctx, ndarray.IntList(1))
	assert.ErrorIs(t, err, context.Canceled)
}

// brokenFileRuntime parses text normally but fails every file load.
type brokenFileRuntime struct {
	*ndarray.Engine
	err error
}

func (r brokenFileRuntime) FromFile(context.Context, string, ndarray.Dtype, types.ByteOrder) (*ndarray.Array, error) {
	return nil, r.err
}

func TestOutbound_RuntimeFailureRemovesTempFile(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	c, dir, seen := newTestCodec(t, brokenFileRuntime{Engine: ndarray.NewHeapRuntime(), err: boom})

	_, err := c.ToArray(ctx, sampleIDs(20), ForceFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, wideerrors.ErrIO)

	var we *wideerrors.Error
	require.True(t, errors.As(err, &we))
	assert.Equal(t, wideerrors.PhaseTransfer, we.Phase)
	assert.Contains(t, err.Error(), ndarray.HeapBackend)

	assert.Len(t, seen(), 1)
	assertDirEmpty(t, dir)

	// the inline path never touches FromFile
	arr, err := c.ToArray(ctx, sampleIDs(20), ForceInline)
	require.NoError(t, err)
	assert.Equal(t, 20, arr.Len())
}
