package access

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	goccyjson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"

	"github.com/quickwritereader/wideid/types"
)

var benchIDs = func() []types.WideInt {
	ids := make([]types.WideInt, 1000)
	for i := range ids {
		ids[i] = types.WideInt(79026212750983281 + int64(i)*70368744177664)
	}
	return ids
}()

var benchStrings = types.FormatWide(benchIDs)

var sinkRaw, sinkJSON []byte

func BenchmarkIDs_PutAccess(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		put := GetPutAccess(types.LittleEndian)
		put.AddIDs(benchIDs)
		sinkRaw = put.Pack()
		ReleasePutAccess(put)
	}
	elapsed := time.Since(start)

	b.StopTimer()
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N)
	b.Logf("PutAccess: per-pack = %.2f ns/op, %.2f ops/sec", perPack, 1e9/perPack)
	b.Logf("PutAccess size: %d bytes", len(sinkRaw))
}

func BenchmarkIDs_Decode(b *testing.B) {
	raw := Encode(benchIDs, types.LittleEndian)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Decode(raw, types.LittleEndian); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIDs_JsonStrings(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		sinkJSON, _ = json.Marshal(benchStrings)
	}
	elapsed := time.Since(start)

	b.StopTimer()
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N)
	b.Logf("JsonStrings: per-pack = %.2f ns/op, %.2f ops/sec", perPack, 1e9/perPack)
	b.Logf("JsonStrings size: %d bytes", len(sinkJSON))
}

func BenchmarkIDs_JsonIter(b *testing.B) {
	var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		sinkJSON, _ = jsonIter.Marshal(benchStrings)
	}
	elapsed := time.Since(start)

	b.StopTimer()
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N)
	b.Logf("JsonIter: per-pack = %.2f ns/op, %.2f ops/sec", perPack, 1e9/perPack)
	b.Logf("JsonIter size: %d bytes", len(sinkJSON))
}

func BenchmarkIDs_GoJson(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		sinkJSON, _ = goccyjson.Marshal(benchStrings)
	}
	elapsed := time.Since(start)

	b.StopTimer()
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N)
	b.Logf("GoJson: per-pack = %.2f ns/op, %.2f ops/sec", perPack, 1e9/perPack)
	b.Logf("GoJson size: %d bytes", len(sinkJSON))
}

func BenchmarkIDs_MsgPack(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		sinkJSON, _ = msgpack.Marshal(benchIDs)
	}
	elapsed := time.Since(start)

	b.StopTimer()
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N)
	b.Logf("MsgPack: per-pack = %.2f ns/op, %.2f ops/sec", perPack, 1e9/perPack)
	b.Logf("MsgPack size: %d bytes", len(sinkJSON))
}
