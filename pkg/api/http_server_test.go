package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blockindex/pkg/bench"
	"blockindex/pkg/common"
	"blockindex/pkg/core"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	records := []common.Record{
		{ID: 1, Name: "a", Major: "A"},
		{ID: 2, Name: "b", Major: "B"},
		{ID: 3, Name: "c", Major: "A"},
		{ID: 4, Name: "d", Major: "A"},
		{ID: 5, Name: "e", Major: "B"},
	}
	table, err := core.NewTable(records, 2)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return NewServer(table, bench.Options{RangeWidth: 1})
}

type response struct {
	Records []common.Record `json:"records"`
	Blocks  int             `json:"blocks"`
	Count   int             `json:"count"`
	Method  string          `json:"method"`
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleExact(t *testing.T) {
	s := newTestServer(t)

	resp := decode(t, get(t, s, "/api/exact?id=4"))
	if resp.Count != 1 || resp.Records[0].ID != 4 || resp.Blocks != 2 {
		t.Fatalf("unexpected exact response: %+v", resp)
	}

	resp = decode(t, get(t, s, "/api/exact?id=42"))
	if resp.Count != 0 || resp.Blocks != 2 {
		t.Fatalf("expected not found with cost 2, got %+v", resp)
	}

	if rec := get(t, s, "/api/exact?id=abc"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestHandleRangeAndMajor(t *testing.T) {
	s := newTestServer(t)

	resp := decode(t, get(t, s, "/api/range?low=2&high=4"))
	if resp.Count != 3 || resp.Blocks != 4 {
		t.Fatalf("unexpected range response: %+v", resp)
	}
	resp = decode(t, get(t, s, "/api/range?low=2&high=4&method=scan"))
	if resp.Count != 3 || resp.Blocks != 2 || resp.Method != "scan" {
		t.Fatalf("unexpected range scan response: %+v", resp)
	}

	resp = decode(t, get(t, s, "/api/major?value=A"))
	if resp.Count != 2 || resp.Blocks != 1 {
		t.Fatalf("unexpected major response: %+v", resp)
	}
	resp = decode(t, get(t, s, "/api/major?value=A&method=chain"))
	if resp.Count != 3 || resp.Blocks != 3 {
		t.Fatalf("unexpected chained major response: %+v", resp)
	}

	if rec := get(t, s, "/api/major"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing value, got %d", rec.Code)
	}
}

func TestHandleQuery(t *testing.T) {
	s := newTestServer(t)

	body := `{"query":"SELECT * FROM uni WHERE id BETWEEN 3 AND 5 USING SCAN"}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleQuery(rec, req)
	resp := decode(t, rec)
	if resp.Count != 3 || resp.Records[0].ID != 3 {
		t.Fatalf("unexpected query response: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"DROP TABLE uni"}`))
	rec = httptest.NewRecorder()
	s.handleQuery(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad sql, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/query", nil)
	rec = httptest.NewRecorder()
	s.handleQuery(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleStatsEntriesBenchmark(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/api/exact?id=1")

	rec := get(t, s, "/api/stats")
	var stats map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["record_count"] != float64(5) || stats["primary_entries"] != float64(3) {
		t.Fatalf("unexpected stats: %v", stats)
	}

	rec = get(t, s, "/api/entries")
	var entries struct {
		Primary    []core.Entry        `json:"primary"`
		Clustering []core.ClusterEntry `json:"clustering"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries.Primary) != 3 || entries.Primary[1].Key != 3 || len(entries.Clustering) != 2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	rec = get(t, s, "/api/benchmark")
	var report bench.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Rows) != 7 || report.RunID == "" {
		t.Fatalf("unexpected report: %+v", report)
	}
}
