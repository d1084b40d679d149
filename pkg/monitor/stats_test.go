package monitor

import (
	"sync"
	"testing"
)

func TestWorkloadStatsSnapshot(t *testing.T) {
	ws := NewWorkloadStats()
	if s := ws.Snapshot(); s.Savings != 0 {
		t.Fatalf("empty stats should report no savings, got %v", s.Savings)
	}

	ws.RecordIndex(2)
	ws.RecordIndex(2)
	ws.RecordScan(10)
	ws.RecordMiss()

	s := ws.Snapshot()
	if s.IndexQueries != 2 || s.IndexBlocks != 4 {
		t.Errorf("index counters: got %+v", s)
	}
	if s.ScanQueries != 1 || s.ScanBlocks != 10 {
		t.Errorf("scan counters: got %+v", s)
	}
	if s.Misses != 1 {
		t.Errorf("misses: got %d", s.Misses)
	}
	if s.Savings != 5 {
		t.Errorf("savings: got %v, want 5", s.Savings)
	}
}

func TestWorkloadStatsConcurrent(t *testing.T) {
	ws := NewWorkloadStats()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ws.RecordIndex(1)
			}
		}()
	}
	wg.Wait()
	if got := ws.Snapshot().IndexQueries; got != 800 {
		t.Fatalf("expected 800 index queries, got %d", got)
	}
}
