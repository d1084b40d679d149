package core

import (
	"fmt"
	"slices"
	"sort"

	"blockindex/pkg/block"
	"blockindex/pkg/common"
)

// ClusteringIndex is a sparse index over the non-unique major attribute of a
// collection physically sorted by major.
//
// Build records, for each distinct major, the first block that begins with
// that major. ExactMatch reads only that block. A major whose records spill
// into following blocks, or start inside an earlier block, returns only the
// records found in the mapped block; a major that never begins a block is not
// indexed at all. ExactMatchChained answers the same query completely by
// following every block the major occupies.
type ClusteringIndex struct {
	blockSize int
	records   []common.Record // sorted by Major, owned by the index
	entries   map[string]int
	chains    map[string][]int
}

// NewClusteringIndex copies records and stable-sorts the copy by major. Call
// Build before querying.
func NewClusteringIndex(records []common.Record, blockSize int) (*ClusteringIndex, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("clustering index: %w (got %d)", ErrInvalidBlockSize, blockSize)
	}

	data := slices.Clone(records)
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Major < data[j].Major
	})

	return &ClusteringIndex{
		blockSize: blockSize,
		records:   data,
		entries:   map[string]int{},
		chains:    map[string][]int{},
	}, nil
}

// Build recomputes the directory and the per-major block chains.
func (ci *ClusteringIndex) Build() {
	entries := make(map[string]int)
	for b := 0; b < block.Count(len(ci.records), ci.blockSize); b++ {
		value := ci.records[b*ci.blockSize].Major
		if _, ok := entries[value]; !ok {
			entries[value] = b
		}
	}

	chains := make(map[string][]int)
	for pos, r := range ci.records {
		b := block.ID(pos, ci.blockSize)
		chain := chains[r.Major]
		if len(chain) == 0 || chain[len(chain)-1] != b {
			chains[r.Major] = append(chain, b)
		}
	}

	ci.entries = entries
	ci.chains = chains
}

// ExactMatch scans the single block mapped to value and returns the records
// of that major found there, at a cost of one block. Unknown values cost
// nothing.
func (ci *ClusteringIndex) ExactMatch(value string) ([]common.Record, int) {
	results := make([]common.Record, 0)
	blockID, ok := ci.entries[value]
	if !ok {
		return results, 0
	}

	for _, r := range block.Slice(ci.records, blockID, ci.blockSize) {
		if r.Major == value {
			results = append(results, r)
		}
	}
	return results, 1
}

// ExactMatchChained returns every record of the given major by reading each
// block in its chain. The cost is one directory probe plus one read per
// chained block.
func (ci *ClusteringIndex) ExactMatchChained(value string) ([]common.Record, int) {
	results := make([]common.Record, 0)
	chain, ok := ci.chains[value]
	if !ok {
		return results, 0
	}

	for _, blockID := range chain {
		for _, r := range block.Slice(ci.records, blockID, ci.blockSize) {
			if r.Major == value {
				results = append(results, r)
			}
		}
	}
	return results, indexProbeCost + len(chain)
}

// Entries returns the directory ordered by block, then value.
func (ci *ClusteringIndex) Entries() []ClusterEntry {
	out := make([]ClusterEntry, 0, len(ci.entries))
	for v, b := range ci.entries {
		out = append(out, ClusterEntry{Value: v, Block: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Block != out[j].Block {
			return out[i].Block < out[j].Block
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Chain returns the blocks holding value, ascending.
func (ci *ClusteringIndex) Chain(value string) []int {
	return slices.Clone(ci.chains[value])
}

// Majors returns every distinct major in sort order.
func (ci *ClusteringIndex) Majors() []string {
	out := make([]string, 0, len(ci.chains))
	for v := range ci.chains {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (ci *ClusteringIndex) BlockSize() int {
	return ci.blockSize
}

func (ci *ClusteringIndex) Size() int {
	return len(ci.records)
}

func (ci *ClusteringIndex) BlockCount() int {
	return block.Count(len(ci.records), ci.blockSize)
}

func (ci *ClusteringIndex) EntryCount() int {
	return len(ci.entries)
}

func (ci *ClusteringIndex) Type() string {
	return "Clustering"
}
