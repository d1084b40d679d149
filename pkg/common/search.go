package common

import "sort"

// LastBelow returns the greatest i in [0, n) for which below(i) is true.
// below must be monotonic over [0, n): true for a prefix, false afterwards.
// ok is false when no position satisfies below.
func LastBelow(n int, below func(i int) bool) (i int, ok bool) {
	first := sort.Search(n, func(i int) bool { return !below(i) })
	if first == 0 {
		return 0, false
	}
	return first - 1, true
}

// FirstAtLeast returns the smallest i in [0, n) for which below(i) is false,
// or ok=false when every position is below.
func FirstAtLeast(n int, below func(i int) bool) (i int, ok bool) {
	first := sort.Search(n, func(i int) bool { return !below(i) })
	return first, first < n
}
