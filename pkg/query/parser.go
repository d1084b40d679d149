package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("syntax: expected SELECT * FROM <table> WHERE id = <int> | id BETWEEN <int> AND <int> | major = '<text>' [USING INDEX|SCAN|CHAIN]")

type Kind int

const (
	ExactID Kind = iota
	RangeID
	ExactMajor
)

func (k Kind) String() string {
	switch k {
	case ExactID:
		return "Exact by ID"
	case RangeID:
		return "Range by ID"
	case ExactMajor:
		return "Exact by Major"
	}
	return "unknown"
}

// Method selects which access path answers a query.
type Method string

const (
	UseIndex Method = "index"
	UseScan  Method = "scan"
	UseChain Method = "chain" // chained clustering lookup, major only
)

// Query is one of the three supported lookups.
type Query struct {
	Table  string
	Kind   Kind
	Method Method
	ID     int64 // ExactID
	Low    int64 // RangeID
	High   int64 // RangeID
	Major  string
}

var (
	selectRe  = regexp.MustCompile(`(?i)^SELECT\s+\*\s+FROM\s+([a-zA-Z_][a-zA-Z0-9_]*)\s+WHERE\s+(.+?)(?:\s+USING\s+(INDEX|SCAN|CHAIN))?$`)
	idEqRe    = regexp.MustCompile(`(?i)^id\s*=\s*(-?\d+)$`)
	betweenRe = regexp.MustCompile(`(?i)^id\s+BETWEEN\s+(-?\d+)\s+AND\s+(-?\d+)$`)
	majorRe   = regexp.MustCompile(`(?i)^major\s*=\s*(?:'([^']*)'|"([^"]*)")$`)
)

// Parse parses:
// "SELECT * FROM students WHERE id = 42"
// "SELECT * FROM students WHERE id BETWEEN 10 AND 20"
// "SELECT * FROM students WHERE major = 'CS' USING CHAIN"
func Parse(s string) (*Query, error) {
	orig := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
	if orig == "" {
		return nil, errors.New("empty query")
	}

	matches := selectRe.FindStringSubmatch(orig)
	if matches == nil {
		return nil, ErrSyntax
	}

	q := &Query{
		Table:  matches[1],
		Method: UseIndex,
	}
	if matches[3] != "" {
		q.Method = Method(strings.ToLower(matches[3]))
	}

	where := strings.TrimSpace(matches[2])
	switch {
	case idEqRe.MatchString(where):
		m := idEqRe.FindStringSubmatch(where)
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id: %w", err)
		}
		q.Kind = ExactID
		q.ID = id

	case betweenRe.MatchString(where):
		m := betweenRe.FindStringSubmatch(where)
		low, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range start: %w", err)
		}
		high, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range end: %w", err)
		}
		q.Kind = RangeID
		q.Low, q.High = low, high

	case majorRe.MatchString(where):
		m := majorRe.FindStringSubmatch(where)
		q.Kind = ExactMajor
		q.Major = m[1] + m[2]

	default:
		return nil, ErrSyntax
	}

	if q.Method == UseChain && q.Kind != ExactMajor {
		return nil, errors.New("USING CHAIN only applies to major lookups")
	}
	return q, nil
}

// String renders q back into the syntax accepted by Parse.
func (q *Query) String() string {
	var where string
	switch q.Kind {
	case ExactID:
		where = fmt.Sprintf("id = %d", q.ID)
	case RangeID:
		where = fmt.Sprintf("id BETWEEN %d AND %d", q.Low, q.High)
	case ExactMajor:
		where = fmt.Sprintf("major = '%s'", q.Major)
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s USING %s", q.Table, where, strings.ToUpper(string(q.Method)))
}
