package sorting

import (
	"math/rand"
	"slices"
	"testing"
)

func recordsFromKeys(keys []float32) []TriangleRecord {
	records := make([]TriangleRecord, len(keys))
	for i, k := range keys {
		records[i] = TriangleRecord{Indices: [3]uint32{uint32(i), 0, 0}, Owner: nodeHandle(i), Key: k}
	}
	return records
}

func checkSorted(t *testing.T, records []TriangleRecord, want []float32) {
	t.Helper()
	if !isSortedByDepth(records) {
		t.Fatalf("records not in non-increasing order: %v", keysOf(records))
	}
	got := keysOf(records)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("sorted keys are not a permutation of the input")
	}
	seen := make(map[nodeHandle]bool, len(records))
	for _, r := range records {
		if seen[r.Owner] {
			t.Fatalf("record %d duplicated", r.Owner)
		}
		seen[r.Owner] = true
	}
}

func keysOf(records []TriangleRecord) []float32 {
	keys := make([]float32, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	return keys
}

func TestSortTriangles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := func(n int) []float32 {
		k := make([]float32, n)
		for i := range k {
			k[i] = rng.Float32()*200 - 100
		}
		return k
	}
	few := func(n int) []float32 {
		k := make([]float32, n)
		for i := range k {
			k[i] = float32(rng.Intn(3))
		}
		return k
	}
	ascending := func(n int) []float32 {
		k := make([]float32, n)
		for i := range k {
			k[i] = float32(i)
		}
		return k
	}
	descending := func(n int) []float32 {
		k := ascending(n)
		slices.Reverse(k)
		return k
	}
	constant := func(n int) []float32 {
		return make([]float32, n)
	}

	inputs := map[string]func(int) []float32{
		"random":     random,
		"duplicates": few,
		"ascending":  ascending,
		"descending": descending,
		"constant":   constant,
	}
	for name, gen := range inputs {
		for _, n := range []int{0, 1, 2, 3, 4, 13, 100, 1000} {
			for _, threshold := range []int{3, 12, 64} {
				keys := gen(n)
				records := recordsFromKeys(keys)
				SortTriangles(records, threshold)
				checkSorted(t, records, keys)
			}
		}
		t.Logf("%s ok", name)
	}
}

func TestSortTrianglesSortedInputUntouched(t *testing.T) {
	records := recordsFromKeys([]float32{9, 7, 7, 3, 1})
	want := slices.Clone(records)
	SortTriangles(records, 3)
	if !slices.Equal(records, want) {
		t.Errorf("sorted input was permuted: %v", records)
	}
}

func TestSortTrianglesClampsThreshold(t *testing.T) {
	keys := []float32{1, 5, 2, 8, 3, 9, 4}
	records := recordsFromKeys(keys)
	SortTriangles(records, 0)
	checkSorted(t, records, keys)
}

func BenchmarkSortTriangles(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	keys := make([]float32, 4096)
	for i := range keys {
		keys[i] = rng.Float32()
	}
	records := make([]TriangleRecord, len(keys))
	for i := 0; i < b.N; i++ {
		for j, k := range keys {
			records[j] = TriangleRecord{Key: k}
		}
		SortTriangles(records, DefaultInsertionSortThreshold)
	}
}
