// Package bench runs the same lookups through the indexes and through the
// index-free scans and reports blocks read and elapsed time for each.
package bench

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"blockindex/pkg/common"
	"blockindex/pkg/core"
	"blockindex/pkg/query"
)

var ErrEmptyDataset = errors.New("bench: dataset is empty")

// Reference is an external store timed next to the simulated paths. It has
// no block model, so its rows carry no block count.
type Reference interface {
	Read(id int64) (common.Record, bool)
	ReadByMajor(major string) ([]common.Record, error)
}

type Options struct {
	RangeWidth int64
	Repeat     int
	Reference  Reference // optional
	Table      string
}

type Row struct {
	QueryType string        `json:"query_type"`
	Key       string        `json:"key"`
	Method    string        `json:"method"`
	Blocks    int           `json:"blocks"` // -1 when the method has no block model
	Matches   int           `json:"matches"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Records   int       `json:"records"`
	BlockSize int       `json:"block_size"`
	Rows      []Row     `json:"rows"`
}

// Keys are the probe values of one run, picked reproducibly from the load
// order of the dataset.
type Keys struct {
	ID    int64
	Major string
	Low   int64
	High  int64
}

func PickKeys(records []common.Record, rangeWidth int64) (Keys, error) {
	if len(records) == 0 {
		return Keys{}, ErrEmptyDataset
	}
	mid := len(records) / 2
	id := records[mid].ID
	return Keys{
		ID:    id,
		Major: records[mid/3].Major,
		Low:   id - rangeWidth,
		High:  id + rangeWidth,
	}, nil
}

// Run executes the comparison on table.
func Run(table *core.Table, opts Options) (*Report, error) {
	if opts.Repeat <= 0 {
		opts.Repeat = 1
	}
	if opts.Table == "" {
		opts.Table = "uni"
	}

	keys, err := PickKeys(table.Records(), opts.RangeWidth)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Records:   len(table.Records()),
		BlockSize: table.BlockSize(),
	}

	plan := []struct {
		kind   query.Kind
		method query.Method
		label  string
	}{
		{query.ExactID, query.UseScan, "File scan"},
		{query.ExactID, query.UseIndex, "Primary index"},
		{query.RangeID, query.UseScan, "File scan"},
		{query.RangeID, query.UseIndex, "Primary index"},
		{query.ExactMajor, query.UseScan, "File scan"},
		{query.ExactMajor, query.UseIndex, "Clustering index"},
		{query.ExactMajor, query.UseChain, "Clustering index (chained)"},
	}

	for _, p := range plan {
		q := &query.Query{
			Table:  opts.Table,
			Kind:   p.kind,
			Method: p.method,
			ID:     keys.ID,
			Low:    keys.Low,
			High:   keys.High,
			Major:  keys.Major,
		}

		var res core.Result
		start := time.Now()
		for i := 0; i < opts.Repeat; i++ {
			res, err = table.Execute(q)
			if err != nil {
				return nil, fmt.Errorf("bench %s via %s: %w", p.kind, p.method, err)
			}
		}
		elapsed := time.Since(start) / time.Duration(opts.Repeat)

		report.Rows = append(report.Rows, Row{
			QueryType: p.kind.String(),
			Key:       keyLabel(p.kind, keys),
			Method:    p.label,
			Blocks:    res.Blocks,
			Matches:   len(res.Records),
			Elapsed:   elapsed,
		})
	}

	if opts.Reference != nil {
		rows, err := runReference(opts.Reference, keys, opts.Repeat)
		if err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, rows...)
	}
	return report, nil
}

func runReference(ref Reference, keys Keys, repeat int) ([]Row, error) {
	matches := 0
	start := time.Now()
	for i := 0; i < repeat; i++ {
		matches = 0
		if _, ok := ref.Read(keys.ID); ok {
			matches = 1
		}
	}
	byID := Row{
		QueryType: query.ExactID.String(),
		Key:       keyLabel(query.ExactID, keys),
		Method:    "SQLite primary key",
		Blocks:    -1,
		Matches:   matches,
		Elapsed:   time.Since(start) / time.Duration(repeat),
	}

	var records []common.Record
	var err error
	start = time.Now()
	for i := 0; i < repeat; i++ {
		records, err = ref.ReadByMajor(keys.Major)
		if err != nil {
			return nil, fmt.Errorf("bench reference major lookup: %w", err)
		}
	}
	byMajor := Row{
		QueryType: query.ExactMajor.String(),
		Key:       keyLabel(query.ExactMajor, keys),
		Method:    "SQLite secondary index",
		Blocks:    -1,
		Matches:   len(records),
		Elapsed:   time.Since(start) / time.Duration(repeat),
	}
	return []Row{byID, byMajor}, nil
}

func keyLabel(kind query.Kind, keys Keys) string {
	switch kind {
	case query.ExactID:
		return fmt.Sprintf("id=%d", keys.ID)
	case query.RangeID:
		return fmt.Sprintf("%d..%d", keys.Low, keys.High)
	case query.ExactMajor:
		return fmt.Sprintf("major='%s'", keys.Major)
	}
	return ""
}

// Render writes the report as an aligned table.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintf(w, "Run %s: %d records, block size %d\n", r.RunID, r.Records, r.BlockSize)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Query Type\tKey\tMethod\tBlocks\tMatches\tTime (ms)")
	fmt.Fprintln(tw, "----------\t---\t------\t------\t-------\t---------")
	for _, row := range r.Rows {
		blocks := "n/a"
		if row.Blocks >= 0 {
			blocks = fmt.Sprint(row.Blocks)
		}
		ms := float64(row.Elapsed.Nanoseconds()) / 1e6
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.6f\n", row.QueryType, row.Key, row.Method, blocks, row.Matches, ms)
	}
	return tw.Flush()
}
