package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"blockindex/pkg/common"
	"blockindex/pkg/core/memory"
)

var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrMissingColumn = errors.New("missing column")
)

// Loader produces the record collection the indexes are built from.
type Loader interface {
	Load() ([]common.Record, error)
}

// CSVLoader reads an "id,name,major" file with a header row. Column order is
// taken from the header; extra columns are ignored.
type CSVLoader struct {
	Path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path}
}

func (l *CSVLoader) Load() ([]common.Record, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("data file not found: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	log.Printf("[Loader] Loaded %d records from %s", len(records), l.Path)
	return records, nil
}

// ReadCSV parses records from r, keeping file order.
func ReadCSV(r io.Reader) ([]common.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []common.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []common.Field{common.FieldID, common.FieldName, common.FieldMajor} {
		if _, ok := cols[string(name)]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}

	seen := memory.NewRecordTable(32)
	records := make([]common.Record, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(row[cols["id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id: %w", line, err)
		}
		rec := common.Record{
			ID:    id,
			Name:  row[cols["name"]],
			Major: row[cols["major"]],
		}
		if !seen.Insert(rec) {
			return nil, fmt.Errorf("line %d: %w %d", line, ErrDuplicateID, id)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes records with the header expected by ReadCSV.
func WriteCSV(w io.Writer, records []common.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "major"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{strconv.FormatInt(r.ID, 10), r.Name, r.Major}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
