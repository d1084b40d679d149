package core

import (
	"fmt"
	"log"
	"slices"
	"strconv"

	"blockindex/pkg/common"
	"blockindex/pkg/monitor"
	"blockindex/pkg/query"
	"blockindex/pkg/scan"
)

// Table holds one loaded record collection together with its two indexes.
// The load-order records back the unordered linear scan; the primary index's
// id-sorted copy backs the binary-search comparators.
type Table struct {
	blockSize  int
	records    []common.Record // load order
	byID       []common.Record // id order, shared read-only with scans
	primary    *PrimaryIndex
	clustering *ClusteringIndex
	stats      *monitor.WorkloadStats
}

// Result is the answer to one query plus the simulated I/O it cost.
type Result struct {
	Query   string          `json:"query"`
	Method  query.Method    `json:"method"`
	Records []common.Record `json:"records"`
	Blocks  int             `json:"blocks"`
}

func NewTable(records []common.Record, blockSize int) (*Table, error) {
	primary, err := NewPrimaryIndex(records, blockSize)
	if err != nil {
		return nil, err
	}
	clustering, err := NewClusteringIndex(records, blockSize)
	if err != nil {
		return nil, err
	}
	primary.Build()
	clustering.Build()

	log.Printf("[Table] Built primary index (%d entries) and clustering index (%d entries) over %d records, block size %d",
		primary.EntryCount(), clustering.EntryCount(), len(records), blockSize)

	return &Table{
		blockSize:  blockSize,
		records:    slices.Clone(records),
		byID:       primary.Records(),
		primary:    primary,
		clustering: clustering,
		stats:      monitor.NewWorkloadStats(),
	}, nil
}

// Execute answers q through the access path it names.
func (t *Table) Execute(q *query.Query) (Result, error) {
	res := Result{Query: q.String(), Method: q.Method}

	switch {
	case q.Kind == query.ExactID && q.Method == query.UseIndex:
		rec, blocks := t.primary.ExactMatch(q.ID)
		res.Records, res.Blocks = single(rec), blocks
	case q.Kind == query.ExactID && q.Method == query.UseScan:
		rec, blocks := scan.BinarySearchID(t.byID, q.ID, t.blockSize)
		res.Records, res.Blocks = single(rec), blocks

	case q.Kind == query.RangeID && q.Method == query.UseIndex:
		res.Records, res.Blocks = t.primary.RangeQuery(q.Low, q.High)
	case q.Kind == query.RangeID && q.Method == query.UseScan:
		res.Records, res.Blocks = scan.RangeID(t.byID, q.Low, q.High, t.blockSize)

	case q.Kind == query.ExactMajor && q.Method == query.UseIndex:
		res.Records, res.Blocks = t.clustering.ExactMatch(q.Major)
	case q.Kind == query.ExactMajor && q.Method == query.UseChain:
		res.Records, res.Blocks = t.clustering.ExactMatchChained(q.Major)
	case q.Kind == query.ExactMajor && q.Method == query.UseScan:
		res.Records, res.Blocks = scan.LinearField(t.records, common.FieldMajor, q.Major, t.blockSize)

	default:
		return res, fmt.Errorf("unsupported access path %q for %s", q.Method, q.Kind)
	}

	if q.Method == query.UseScan {
		t.stats.RecordScan(res.Blocks)
	} else {
		t.stats.RecordIndex(res.Blocks)
	}
	if len(res.Records) == 0 {
		t.stats.RecordMiss()
	}
	return res, nil
}

// ScanField runs the unordered linear scan on any field.
func (t *Table) ScanField(field common.Field, value string) Result {
	records, blocks := scan.LinearField(t.records, field, value, t.blockSize)
	t.stats.RecordScan(blocks)
	return Result{
		Query:   fmt.Sprintf("%s = %s", field, strconv.Quote(value)),
		Method:  query.UseScan,
		Records: records,
		Blocks:  blocks,
	}
}

func single(rec *common.Record) []common.Record {
	if rec == nil {
		return []common.Record{}
	}
	return []common.Record{*rec}
}

// Records returns the collection in load order. Callers must not modify it.
func (t *Table) Records() []common.Record {
	return t.records
}

func (t *Table) Primary() *PrimaryIndex {
	return t.primary
}

func (t *Table) Clustering() *ClusteringIndex {
	return t.clustering
}

func (t *Table) BlockSize() int {
	return t.blockSize
}

func (t *Table) Stats() map[string]interface{} {
	return map[string]interface{}{
		"record_count":       len(t.records),
		"block_size":         t.blockSize,
		"block_count":        t.primary.BlockCount(),
		"primary_entries":    t.primary.EntryCount(),
		"clustering_entries": t.clustering.EntryCount(),
		"distinct_majors":    len(t.clustering.Majors()),
		"workload":           t.stats.Snapshot(),
		"indexes":            []string{t.primary.Type(), t.clustering.Type()},
	}
}
