// Package bench provides reproducible micro-benchmarks for the runtime
// core. Run via: go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// We measure:
//  1. TableSet       – write-only workload against pkg/table
//  2. TableGet       – read-only workload (after warm-up)
//  3. Hash           – header_hash on strings (cached at construction)
//  4. Parse          – pkg/argparse.Parse's per-call overhead for a typical
//     small two-positional signature
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live in their own packages; this file is only for
// performance.
//
// © 2025 glimmer authors. MIT License.
package bench

import (
	"math/rand"
	"testing"

	"github.com/glimmer-lang/corevm/pkg/argparse"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/table"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

const keys = 1 << 16

var ds = func() []value.Value {
	rnd := rand.New(rand.NewSource(42))
	arr := make([]value.Value, keys)
	for i := range arr {
		arr[i] = value.Integer(rnd.Int63())
	}
	return arr
}()

func BenchmarkTableSet(b *testing.B) {
	th := vmthread.New(true)
	t := table.New()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		_ = t.Set(th, k, value.Integer(1))
	}
}

func BenchmarkTableGet(b *testing.B) {
	th := vmthread.New(true)
	t := table.New()
	for _, k := range ds {
		_ = t.Set(th, k, value.Integer(1))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ds[i&(keys-1)]
		_, _, _ = t.Get(th, k)
	}
}

func BenchmarkHashString(b *testing.B) {
	th := vmthread.New(true)
	strs := make([]*objects.String, keys)
	for i := range strs {
		strs[i] = objects.NewString(randString(i))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := strs[i&(keys-1)]
		_, _ = value.HeaderHash(th, s)
	}
}

func BenchmarkParseTypical(b *testing.B) {
	th := vmthread.New(true)
	str := objects.NewString("value")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var s *objects.String
		var n int32
		args := []value.Value{str.Value(), value.Integer(7)}
		ok := argparse.NewBuilder(false).
			Arg('s', "name", argparse.StringArg(&s)).
			Arg('i', "count", argparse.Int32Arg(&n)).
			Parse(th, "bench", args, nil, nil)
		if !ok {
			b.Fatalf("parse failed: %v", th.Exception())
		}
		th.ClearException()
	}
}

func randString(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for j := range b {
		b[j] = alphabet[(i*31+j*7)%len(alphabet)]
	}
	return string(b)
}
