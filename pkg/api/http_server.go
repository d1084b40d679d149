package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"blockindex/pkg/bench"
	"blockindex/pkg/core"
	"blockindex/pkg/query"
)

type Server struct {
	table *core.Table
	bench bench.Options
}

func NewServer(table *core.Table, opts bench.Options) *Server {
	return &Server{table: table, bench: opts}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exact", s.handleExact)
	mux.HandleFunc("/api/range", s.handleRange)
	mux.HandleFunc("/api/major", s.handleMajor)
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/entries", s.handleEntries)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/benchmark", s.handleBenchmark)
	return mux
}

func (s *Server) Start(port string) error {
	log.Printf("[API] Server listening on %s...", port)
	return http.ListenAndServe(port, s.Handler())
}

type queryResponse struct {
	core.Result
	Count     int   `json:"count"`
	LatencyNs int64 `json:"latency_ns"`
}

func (s *Server) handleExact(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}
	s.run(w, &query.Query{Kind: query.ExactID, ID: id, Method: method(r, query.UseIndex)})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	low, err1 := strconv.ParseInt(r.URL.Query().Get("low"), 10, 64)
	high, err2 := strconv.ParseInt(r.URL.Query().Get("high"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "Invalid range", http.StatusBadRequest)
		return
	}
	s.run(w, &query.Query{Kind: query.RangeID, Low: low, High: high, Method: method(r, query.UseIndex)})
}

func (s *Server) handleMajor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	value := r.URL.Query().Get("value")
	if value == "" {
		http.Error(w, "Missing value", http.StatusBadRequest)
		return
	}
	s.run(w, &query.Query{Kind: query.ExactMajor, Major: value, Method: method(r, query.UseIndex)})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	q, err := query.Parse(req.Query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.run(w, q)
}

func (s *Server) run(w http.ResponseWriter, q *query.Query) {
	if q.Table == "" {
		q.Table = "uni"
	}

	start := time.Now()
	res, err := s.table.Execute(q)
	duration := time.Since(start)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{
		Result:    res,
		Count:     len(res.Records),
		LatencyNs: duration.Nanoseconds(),
	})
}

func method(r *http.Request, fallback query.Method) query.Method {
	switch m := query.Method(r.URL.Query().Get("method")); m {
	case query.UseIndex, query.UseScan, query.UseChain:
		return m
	}
	return fallback
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"primary":    s.table.Primary().Entries(),
		"clustering": s.table.Clustering().Entries(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(s.table.Stats())
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	report, err := bench.Run(s.table, s.bench)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(report)
}
