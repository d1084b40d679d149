package core

import "errors"

// ErrInvalidBlockSize is returned when an index is created with fewer than
// one record per block.
var ErrInvalidBlockSize = errors.New("block size must be >= 1")

// indexProbeCost is the flat block-equivalent charge for consulting an index.
const indexProbeCost = 1

// Entry 稀疏索引项: the first key stored in Block.
type Entry struct {
	Key   int64 `json:"key"`
	Block int   `json:"block"`
}

// ClusterEntry maps a clustering value to the block it was first seen
// heading.
type ClusterEntry struct {
	Value string `json:"value"`
	Block int    `json:"block"`
}

// Index 抽象接口, shared by the primary and clustering indexes so callers can
// report on either without knowing which one they hold.
type Index interface {
	Size() int
	BlockCount() int
	EntryCount() int
	Type() string // "Primary", "Clustering"
}

var (
	_ Index = (*PrimaryIndex)(nil)
	_ Index = (*ClusteringIndex)(nil)
)
