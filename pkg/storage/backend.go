package storage

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"blockindex/pkg/common"
)

// SQLiteBackend keeps a record set in a SQLite table. It serves as an
// alternative data source to CSV and as a B-tree reference point in the
// benchmark.
type SQLiteBackend struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		major TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS records_major ON records (major);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("init table: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
	`)
	if err != nil {
		log.Printf("[SQLite] Warning: Failed to set PRAGMA: %v", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// BatchWrite inserts records in one transaction. An id that already exists
// fails the whole batch with ErrDuplicateID.
func (s *SQLiteBackend) BatchWrite(records []common.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO records (id, name, major) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if s.existsTx(tx, rec.ID) {
			tx.Rollback()
			return fmt.Errorf("%w %d", ErrDuplicateID, rec.ID)
		}
		if _, err := stmt.Exec(rec.ID, rec.Name, rec.Major); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteBackend) existsTx(tx *sql.Tx, id int64) bool {
	var one int
	err := tx.QueryRow("SELECT 1 FROM records WHERE id = ?", id).Scan(&one)
	return err == nil
}

func (s *SQLiteBackend) Read(id int64) (common.Record, bool) {
	rec := common.Record{}
	err := s.db.QueryRow("SELECT id, name, major FROM records WHERE id = ?", id).Scan(&rec.ID, &rec.Name, &rec.Major)
	if err == sql.ErrNoRows {
		return common.Record{}, false
	}
	if err != nil {
		log.Printf("[SQLite] Read error: %v", err)
		return common.Record{}, false
	}
	return rec, true
}

// ReadByMajor returns the records of one major in id order.
func (s *SQLiteBackend) ReadByMajor(major string) ([]common.Record, error) {
	return s.query("SELECT id, name, major FROM records WHERE major = ? ORDER BY id ASC", major)
}

// Load returns every stored record in id order.
func (s *SQLiteBackend) Load() ([]common.Record, error) {
	records, err := s.query("SELECT id, name, major FROM records ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	log.Printf("[Loader] Loaded %d records from sqlite", len(records))
	return records, nil
}

func (s *SQLiteBackend) query(q string, args ...any) ([]common.Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]common.Record, 0)
	for rows.Next() {
		var rec common.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Major); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteBackend) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

func (s *SQLiteBackend) Truncate() error {
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

func (s *SQLiteBackend) Close() {
	s.db.Close()
}
