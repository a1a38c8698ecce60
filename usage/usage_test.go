package usage

import (
	"context"
	"fmt"
	"os"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickwritereader/wideid/codec"
	"github.com/quickwritereader/wideid/ndarray"
	_ "github.com/quickwritereader/wideid/ndarray/wasmmem"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

// A leaves query answer: root and supervoxel ids are quoted because they do
// not fit a double.
const testJson = `{"root_id":"864691135385014510","timestamp":"2025-12-15T11:21:00Z","leaves":["79026212750983281","79026212750983282","79026212750983283","79096581495161089","79096581495161090","79096581495161091","79166950239338497","79166950239338498","79166950239338499","79237318983516161"]}`

type leavesResponse struct {
	RootID    string   `json:"root_id"`
	Timestamp string   `json:"timestamp"`
	Leaves    []string `json:"leaves"`
}

func decodeLeaves(t *testing.T) (types.WideInt, []types.WideInt) {
	t.Helper()
	var resp leavesResponse
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(testJson, &resp))

	root, err := types.ParseWide(resp.RootID)
	require.NoError(t, err)
	leaves, err := types.Normalize(types.AnySlice(resp.Leaves))
	require.NoError(t, err)
	return root, leaves
}

func TestUsage1(t *testing.T) {
	fmt.Fprintln(os.Stdout,
		"Checking that supervoxel ids from a service response survive a trip "+
			"through a foreign array and back, on both transfer paths and both backends.")

	ctx := context.Background()
	root, leaves := decodeLeaves(t)
	assert.Equal(t, types.WideInt(864691135385014510), root)

	for _, backend := range []string{ndarray.HeapBackend, ndarray.WasmBackend} {
		c := codec.New(ndarray.NewProvider(backend), codec.WithTempDir(t.TempDir()), codec.WithFileThreshold(5))

		for _, useFile := range []codec.Override{codec.Unset, codec.ForceInline, codec.ForceFile} {
			arr, err := c.ToArray(ctx, leaves, useFile)
			require.NoError(t, err)
			fmt.Fprintln(os.Stdout, backend, useFile, arr)

			strs, err := c.ToStrings(ctx, arr)
			require.NoError(t, err)
			assert.Equal(t, types.FormatWide(leaves), strs)
			require.NoError(t, arr.Close(ctx))
		}
	}
}

func TestUsage2(t *testing.T) {
	fmt.Fprintln(os.Stdout, "Comparing wire sizes of the same leaves.")

	_, leaves := decodeLeaves(t)
	for _, name := range wire.Formats() {
		f, err := wire.ParseFormat(name)
		require.NoError(t, err)

		data, err := wire.Marshal(leaves, f)
		require.NoError(t, err)
		fmt.Fprintln(os.Stdout, name, "size:", len(data))

		back, err := wire.Unmarshal(data, f)
		require.NoError(t, err)
		assert.Equal(t, leaves, back)
	}
	fmt.Fprintln(os.Stdout, "Minified Json size:", len(testJson))
}

func TestUsage3(t *testing.T) {
	fmt.Fprintln(os.Stdout, "A uint64 array handed back by the runtime is checked before conversion.")

	ctx := context.Background()
	rt := ndarray.NewHeapRuntime()
	c := codec.New(ndarray.StaticProvider(rt), codec.WithTempDir(t.TempDir()))

	arr, err := rt.FromString(ctx, "1,2,3", ",", ndarray.Uint64)
	require.NoError(t, err)
	res, err := c.Inbound(ctx, arr, codec.InboundOptions{AsCharacter: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, res.Strings)

	big, err := rt.FromString(ctx, "18446744073709551615", ",", ndarray.Uint64)
	require.NoError(t, err)
	_, err = c.Inbound(ctx, big, codec.InboundOptions{})
	require.Error(t, err)
	fmt.Fprintln(os.Stdout, "Rejected:", err)
}
