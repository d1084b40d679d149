package core

import (
	"fmt"
	"slices"
	"sort"

	"blockindex/pkg/block"
	"blockindex/pkg/common"
)

// PrimaryIndex is a sparse index over the unique id attribute. It holds one
// entry per block: the id of the block's first record.
//
// The index is read-only after Build. Build must not run concurrently with
// queries.
type PrimaryIndex struct {
	blockSize int
	records   []common.Record // sorted by ID, owned by the index
	entries   []Entry
}

// NewPrimaryIndex copies records and sorts the copy by id. Call Build before
// querying.
func NewPrimaryIndex(records []common.Record, blockSize int) (*PrimaryIndex, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("primary index: %w (got %d)", ErrInvalidBlockSize, blockSize)
	}

	data := slices.Clone(records)
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].ID < data[j].ID
	})

	return &PrimaryIndex{
		blockSize: blockSize,
		records:   data,
	}, nil
}

// Build recomputes the entry sequence from the sorted records. It is
// deterministic and may be called again at any time.
func (pi *PrimaryIndex) Build() {
	n := block.Count(len(pi.records), pi.blockSize)
	entries := make([]Entry, 0, n)
	for b := 0; b < n; b++ {
		entries = append(entries, Entry{
			Key:   pi.records[b*pi.blockSize].ID,
			Block: b,
		})
	}
	pi.entries = entries
}

// ExactMatch returns the record with the given id, or nil. The cost is one
// index probe plus one block read, whether or not the key exists. An empty
// index costs nothing.
func (pi *PrimaryIndex) ExactMatch(key int64) (*common.Record, int) {
	if len(pi.entries) == 0 {
		return nil, 0
	}

	blockID := 0
	if pos, ok := common.LastBelow(len(pi.entries), func(i int) bool {
		return pi.entries[i].Key <= key
	}); ok {
		blockID = pi.entries[pos].Block
	}

	const cost = indexProbeCost + 1
	blk := block.Slice(pi.records, blockID, pi.blockSize)
	for i := range blk {
		if blk[i].ID == key {
			rec := blk[i]
			return &rec, cost
		}
	}
	return nil, cost
}

// RangeQuery returns every record with low <= id <= high in ascending order.
// The scan starts at the last block whose first id is below low and stops at
// the first id above high. The cost is one index probe plus every block read.
func (pi *PrimaryIndex) RangeQuery(low, high int64) ([]common.Record, int) {
	results := make([]common.Record, 0)
	if len(pi.entries) == 0 {
		return results, 0
	}

	start := 0
	if pos, ok := common.LastBelow(len(pi.entries), func(i int) bool {
		return pi.entries[i].Key < low
	}); ok {
		start = pos
	}

	scanned := 0
	for _, e := range pi.entries[start:] {
		scanned++
		for _, r := range block.Slice(pi.records, e.Block, pi.blockSize) {
			if r.ID > high {
				return results, indexProbeCost + scanned
			}
			if r.ID >= low {
				results = append(results, r)
			}
		}
	}
	return results, indexProbeCost + scanned
}

// Entries returns a copy of the index entries.
func (pi *PrimaryIndex) Entries() []Entry {
	return slices.Clone(pi.entries)
}

// Records returns a copy of the id-sorted collection backing the index.
func (pi *PrimaryIndex) Records() []common.Record {
	return slices.Clone(pi.records)
}

func (pi *PrimaryIndex) BlockSize() int {
	return pi.blockSize
}

func (pi *PrimaryIndex) Size() int {
	return len(pi.records)
}

func (pi *PrimaryIndex) BlockCount() int {
	return block.Count(len(pi.records), pi.blockSize)
}

func (pi *PrimaryIndex) EntryCount() int {
	return len(pi.entries)
}

func (pi *PrimaryIndex) Type() string {
	return "Primary"
}
