package storage

import (
	"fmt"

	"blockindex/pkg/common"
	"blockindex/pkg/config"
)

// LoadRecords reads the dataset from the source named in cfg.
func LoadRecords(cfg config.DataConfig) ([]common.Record, error) {
	switch cfg.Source {
	case config.SourceSQLite:
		backend, err := NewSQLiteBackend(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer backend.Close()
		return backend.Load()
	case config.SourceCSV, "":
		return NewCSVLoader(cfg.CSVPath).Load()
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.Source)
}
