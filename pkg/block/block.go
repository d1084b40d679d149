// Package block maps positions in a sorted record slice onto fixed-size
// blocks. Blocks are never materialized; they are windows computed from
// offsets, modelling disk pages.
package block

import "blockindex/pkg/common"

// DefaultSize is the number of records per block when nothing is configured.
const DefaultSize = 100

// ID returns the block holding position pos. size must be >= 1.
func ID(pos, size int) int {
	return pos / size
}

// Bounds returns the half-open position range [start, end) of block id in a
// collection of n records. The last block may be short.
func Bounds(id, n, size int) (start, end int) {
	start = id * size
	end = start + size
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	return start, end
}

// Count returns ceil(n / size).
func Count(n, size int) int {
	return (n + size - 1) / size
}

// Slice returns the records of block id.
func Slice(records []common.Record, id, size int) []common.Record {
	start, end := Bounds(id, len(records), size)
	return records[start:end]
}
