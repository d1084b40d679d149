// Package scan holds the index-free reference algorithms used to measure how
// many block reads an index saves. Every function reports the simulated
// number of blocks it touched alongside its result.
package scan

import (
	"blockindex/pkg/block"
	"blockindex/pkg/common"
)

// LinearField visits every block of records in order and collects the
// records whose field equals value. There is no early exit: the cost is
// always the total number of blocks.
func LinearField(records []common.Record, field common.Field, value string, blockSize int) ([]common.Record, int) {
	results := make([]common.Record, 0)
	if blockSize < 1 {
		return results, 0
	}

	blocks := 0
	for b := 0; b < block.Count(len(records), blockSize); b++ {
		blocks++
		blk := block.Slice(records, b, blockSize)
		for i := range blk {
			if v, ok := field.Value(&blk[i]); ok && v == value {
				results = append(results, blk[i])
			}
		}
	}
	return results, blocks
}

// BinarySearchID runs a plain binary search over records sorted by id. Each
// probe reads the whole block holding the probed position and checks it for
// key, charging one block per probe even when consecutive probes land in the
// same block.
func BinarySearchID(records []common.Record, key int64, blockSize int) (*common.Record, int) {
	if blockSize < 1 {
		return nil, 0
	}

	blocks := 0
	lo, hi := 0, len(records)-1
	for lo <= hi {
		mid := (lo + hi) / 2

		blocks++
		blk := block.Slice(records, block.ID(mid, blockSize), blockSize)
		for i := range blk {
			if blk[i].ID == key {
				rec := blk[i]
				return &rec, blocks
			}
		}

		if records[mid].ID < key {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return nil, blocks
}

// RangeID finds the first position with id >= low by binary search, then
// reads blocks sequentially from that position's block, collecting ids in
// [low, high] until an id exceeds high. When every id is below low nothing is
// read.
func RangeID(records []common.Record, low, high int64, blockSize int) ([]common.Record, int) {
	results := make([]common.Record, 0)
	if blockSize < 1 {
		return results, 0
	}

	pos, ok := common.FirstAtLeast(len(records), func(i int) bool {
		return records[i].ID < low
	})
	if !ok {
		return results, 0
	}

	blocks := 0
	for pos < len(records) && records[pos].ID <= high {
		b := block.ID(pos, blockSize)
		blocks++
		for _, r := range block.Slice(records, b, blockSize) {
			if r.ID > high {
				return results, blocks
			}
			if r.ID >= low {
				results = append(results, r)
			}
		}
		_, pos = block.Bounds(b, len(records), blockSize)
	}
	return results, blocks
}
