package monitor

import (
	"sync/atomic"
)

// WorkloadStats counts queries and simulated block reads, split by whether an
// index or a baseline scan answered them.
type WorkloadStats struct {
	IndexQueries uint64
	ScanQueries  uint64
	IndexBlocks  uint64
	ScanBlocks   uint64
	Misses       uint64
}

func NewWorkloadStats() *WorkloadStats {
	return &WorkloadStats{}
}

func (ws *WorkloadStats) RecordIndex(blocks int) {
	atomic.AddUint64(&ws.IndexQueries, 1)
	atomic.AddUint64(&ws.IndexBlocks, uint64(blocks))
}

func (ws *WorkloadStats) RecordScan(blocks int) {
	atomic.AddUint64(&ws.ScanQueries, 1)
	atomic.AddUint64(&ws.ScanBlocks, uint64(blocks))
}

func (ws *WorkloadStats) RecordMiss() {
	atomic.AddUint64(&ws.Misses, 1)
}

// Snapshot is a consistent-enough copy of the counters for reporting.
type Snapshot struct {
	IndexQueries uint64  `json:"index_queries"`
	ScanQueries  uint64  `json:"scan_queries"`
	IndexBlocks  uint64  `json:"index_blocks"`
	ScanBlocks   uint64  `json:"scan_blocks"`
	Misses       uint64  `json:"misses"`
	Savings      float64 `json:"block_savings_ratio"`
}

func (ws *WorkloadStats) Snapshot() Snapshot {
	s := Snapshot{
		IndexQueries: atomic.LoadUint64(&ws.IndexQueries),
		ScanQueries:  atomic.LoadUint64(&ws.ScanQueries),
		IndexBlocks:  atomic.LoadUint64(&ws.IndexBlocks),
		ScanBlocks:   atomic.LoadUint64(&ws.ScanBlocks),
		Misses:       atomic.LoadUint64(&ws.Misses),
	}
	s.Savings = savings(s)
	return s
}

// savings compares average blocks per query; >1 means the index reads fewer.
func savings(s Snapshot) float64 {
	if s.IndexQueries == 0 || s.ScanQueries == 0 || s.IndexBlocks == 0 {
		return 0.0
	}
	perIndex := float64(s.IndexBlocks) / float64(s.IndexQueries)
	perScan := float64(s.ScanBlocks) / float64(s.ScanQueries)
	return perScan / perIndex
}
