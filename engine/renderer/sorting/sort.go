package sorting

// TriangleRecord is one triangle of the merged pool: its three indices into
// the shared vertex buffer, the batch it came from and its depth key.
type TriangleRecord struct {
	Indices [3]uint32
	Owner   nodeHandle
	Key     float32
}

// SortTriangles orders records by non-increasing key, farthest first. The
// order of equal keys is unspecified.
//
// Already sorted input returns after one linear pass. Spans of at most
// threshold records are insertion sorted; larger spans are partitioned
// around the median of their first, middle and last records, which also
// serve as guards for the partition scans. The smaller side is sorted
// recursively and the larger one iteratively, which bounds the recursion
// depth to O(log n).
func SortTriangles(records []TriangleRecord, threshold int) {
	if threshold < MinInsertionSortThreshold {
		threshold = MinInsertionSortThreshold
	}
	if isSortedByDepth(records) {
		return
	}
	quickSortByDepth(records, threshold)
}

func isSortedByDepth(records []TriangleRecord) bool {
	for i := 1; i < len(records); i++ {
		if records[i-1].Key < records[i].Key {
			return false
		}
	}
	return true
}

func quickSortByDepth(a []TriangleRecord, threshold int) {
	lo, hi := 0, len(a)-1
	for hi-lo+1 > threshold {
		mid := lo + (hi-lo)/2
		if a[mid].Key > a[lo].Key {
			a[mid], a[lo] = a[lo], a[mid]
		}
		if a[hi].Key > a[lo].Key {
			a[hi], a[lo] = a[lo], a[hi]
		}
		if a[hi].Key > a[mid].Key {
			a[hi], a[mid] = a[mid], a[hi]
		}
		// a[lo] >= a[mid] >= a[hi]: a[lo] stops the right-to-left scan and
		// the pivot parked at hi-1 stops the left-to-right one.
		pivot := a[mid].Key
		a[mid], a[hi-1] = a[hi-1], a[mid]

		i, j := lo, hi-1
		for {
			for i++; a[i].Key > pivot; i++ {
			}
			for j--; a[j].Key < pivot; j-- {
			}
			if i >= j {
				break
			}
			a[i], a[j] = a[j], a[i]
		}
		a[i], a[hi-1] = a[hi-1], a[i]

		if i-lo < hi-i {
			quickSortByDepth(a[lo:i], threshold)
			lo = i + 1
		} else {
			quickSortByDepth(a[i+1:hi+1], threshold)
			hi = i - 1
		}
	}
	insertionSortByDepth(a[lo : hi+1])
}

func insertionSortByDepth(a []TriangleRecord) {
	for i := 1; i < len(a); i++ {
		r := a[i]
		j := i - 1
		for ; j >= 0 && a[j].Key < r.Key; j-- {
			a[j+1] = a[j]
		}
		a[j+1] = r
	}
}
