package typeddict

import (
	"strconv"
	"testing"
)

var sizes = []int{
	1 << 10,
	1 << 16,
	1 << 20,
}

type keyGen func(b *testing.B, start, end int) [][]byte

func BenchmarkDictLookup_Miss(b *testing.B) {
	b.Run("variant=stdMap", benchSimulateLoad(benchmarkStdMapLookupMiss))

	b.Run("variant=dict", func(b *testing.B) {
		b.Run("K=int64", benchSimulateLoad(benchmarkDictLookupMiss(Int64, genInt64Keys)))
		b.Run("K=str", benchSimulateLoad(benchmarkDictLookupMiss(String, genStringKeys)))
	})
}

func BenchmarkDictLookup_Hit(b *testing.B) {
	b.Run("variant=stdMap", benchSimulateLoad(benchmarkStdMapLookupHit))

	b.Run("variant=dict", func(b *testing.B) {
		b.Run("K=int64", benchSimulateLoad(benchmarkDictLookupHit(Int64, genInt64Keys)))
		b.Run("K=str", benchSimulateLoad(benchmarkDictLookupHit(String, genStringKeys)))
	})
}

func BenchmarkDictSet_Churn(b *testing.B) {
	b.Run("variant=dict", func(b *testing.B) {
		b.Run("K=int64", benchSimulateLoad(benchmarkDictSetDelete(Int64, genInt64Keys)))
	})
}

func benchmarkStdMapLookupMiss(b *testing.B, capacity int) {
	m := make(map[int64]int64, capacity)
	for i := range capacity {
		m[int64(i)] = int64(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[-int64(i%capacity)-1]
	}
}

func benchmarkStdMapLookupHit(b *testing.B, capacity int) {
	m := make(map[int64]int64, capacity)
	for i := range capacity {
		m[int64(i)] = int64(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[int64(i%capacity)]
	}
}

func benchmarkDictLookupMiss(key ElementType, gen keyGen) func(*testing.B, int) {
	return func(b *testing.B, capacity int) {
		d, h := fillDict(b, key, gen(b, 0, capacity))
		misses := gen(b, -capacity, 0)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _, _ = d.Lookup(h, misses[i%len(misses)])
		}
	}
}

func benchmarkDictLookupHit(key ElementType, gen keyGen) func(*testing.B, int) {
	return func(b *testing.B, capacity int) {
		keys := gen(b, 0, capacity)
		d, h := fillDict(b, key, keys)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _, _ = d.Lookup(h, keys[i%len(keys)])
		}
	}
}

func benchmarkDictSetDelete(key ElementType, gen keyGen) func(*testing.B, int) {
	return func(b *testing.B, capacity int) {
		keys := gen(b, 0, capacity)
		d, h := fillDict(b, key, keys[:capacity/2])
		value := Int64.Make(1)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			k := keys[i%len(keys)]
			if i%2 == 0 {
				_ = d.Set(h, k, value)
			} else {
				_, _ = d.Delete(h, k)
			}
		}
	}
}

func fillDict(b *testing.B, key ElementType, keys [][]byte) (*Dict, Handle) {
	d := NewDict(key, Int64)
	h := d.Construct()
	b.Cleanup(func() { _ = d.Destroy(&h) })

	d.Reserve(h, len(keys))
	value := Int64.Make(1)
	for _, k := range keys {
		if err := d.Set(h, k, value); err != nil {
			b.Fatal(err)
		}
	}

	return d, h
}

func genInt64Keys(_ *testing.B, start, end int) [][]byte {
	keys := make([][]byte, end-start)
	for i := range keys {
		keys[i] = Int64.Make(int64(start + i))
	}

	return keys
}

func genStringKeys(b *testing.B, start, end int) [][]byte {
	keys := make([][]byte, end-start)
	for i := range keys {
		keys[i] = String.Make(strconv.Itoa(start + i))
	}

	b.Cleanup(func() {
		for _, k := range keys {
			_ = String.Destroy(k)
		}
	})

	return keys
}

func benchSimulateLoad(benchFunc func(b *testing.B, capacity int)) func(b *testing.B) {
	return func(b *testing.B) {
		for _, size := range sizes {
			b.Run("capacity="+strconv.Itoa(size), func(b *testing.B) {
				benchFunc(b, size)
			})
		}
	}
}
