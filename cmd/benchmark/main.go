package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fulldump/goconfig"

	"blockindex/pkg/bench"
	"blockindex/pkg/common"
	"blockindex/pkg/config"
	"blockindex/pkg/core"
	"blockindex/pkg/storage"
)

type Config struct {
	Source     string `usage:"data source: csv | sqlite"`
	CSV        string `usage:"path to the id,name,major csv file"`
	SQLite     string `usage:"path to the sqlite database"`
	BlockSize  int    `usage:"records per simulated block"`
	RangeWidth int64  `usage:"half-width of the id range query"`
	Repeat     int    `usage:"runs per query, elapsed time is averaged"`
	Generate   int    `usage:"benchmark N synthetic records instead of loading the data source"`
	Import     bool   `usage:"copy the loaded records into the sqlite database first"`
	Reference  bool   `usage:"time the same lookups against sqlite"`
	JSON       bool   `usage:"print the report as json"`
}

func main() {
	defaults, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	c := Config{
		Source:     defaults.Data.Source,
		CSV:        defaults.Data.CSVPath,
		SQLite:     defaults.Data.SQLitePath,
		BlockSize:  defaults.Index.BlockSize,
		RangeWidth: defaults.Bench.RangeWidth,
		Repeat:     defaults.Bench.Repeat,
	}
	goconfig.Read(&c)

	if err := run(c, os.Stdout); err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}
}

// run returns instead of exiting so the sqlite handle is always closed.
func run(c Config, w io.Writer) error {
	records, err := loadRecords(c)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	opts := bench.Options{
		RangeWidth: c.RangeWidth,
		Repeat:     c.Repeat,
	}

	if c.Import || c.Reference {
		backend, err := storage.NewSQLiteBackend(c.SQLite)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer backend.Close()

		if c.Import {
			if err := backend.Truncate(); err != nil {
				return fmt.Errorf("truncate sqlite: %w", err)
			}
			if err := backend.BatchWrite(records); err != nil {
				return fmt.Errorf("import records: %w", err)
			}
			log.Printf("[Bench] Imported %d records into %s", len(records), c.SQLite)
		}
		if c.Reference {
			opts.Reference = backend
		}
	}

	table, err := core.NewTable(records, c.BlockSize)
	if err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}

	report, err := bench.Run(table, opts)
	if err != nil {
		return err
	}

	if c.JSON {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(report)
	}

	fmt.Fprintln(w, "---------------------------------------------------")
	if err := report.Render(w); err != nil {
		return err
	}
	fmt.Fprintln(w, "---------------------------------------------------")
	return nil
}

func loadRecords(c Config) ([]common.Record, error) {
	if c.Generate > 0 {
		return bench.Synthetic(c.Generate, 1), nil
	}
	source := c.Source
	if c.Import {
		// importing always reads the csv
		source = config.SourceCSV
	}
	return storage.LoadRecords(config.DataConfig{
		Source:     source,
		CSVPath:    c.CSV,
		SQLitePath: c.SQLite,
	})
}
