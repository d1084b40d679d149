package memory

import (
	"testing"

	"blockindex/pkg/common"
)

func TestRecordTableRejectsDuplicates(t *testing.T) {
	rt := NewRecordTable(32)

	if !rt.Insert(common.Record{ID: 3, Name: "c"}) {
		t.Fatal("first insert of id=3 should succeed")
	}
	if !rt.Insert(common.Record{ID: 1, Name: "a"}) {
		t.Fatal("first insert of id=1 should succeed")
	}
	if rt.Insert(common.Record{ID: 3, Name: "other"}) {
		t.Fatal("duplicate id=3 should be rejected")
	}

	rec, ok := rt.Get(3)
	if !ok || rec.Name != "c" {
		t.Fatalf("expected original id=3 kept, got ok=%v rec=%v", ok, rec)
	}
	if _, ok := rt.Get(2); ok {
		t.Fatal("id=2 was never inserted")
	}
	if rt.Count() != 2 {
		t.Fatalf("expected 2 records, got %d", rt.Count())
	}
}

func TestRecordTableAscendsByID(t *testing.T) {
	rt := NewRecordTable(4)
	for _, id := range []int64{50, 10, 40, 20, 30} {
		rt.Insert(common.Record{ID: id})
	}

	records := rt.Records()
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].ID >= records[i].ID {
			t.Fatalf("records not ascending at %d: %d >= %d", i, records[i-1].ID, records[i].ID)
		}
	}

	seen := 0
	rt.Ascend(func(rec common.Record) bool {
		seen++
		return rec.ID < 20
	})
	if seen != 2 {
		t.Fatalf("expected Ascend to stop after id=20, visited %d", seen)
	}
}
