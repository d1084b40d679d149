package memory

import (
	"sync"

	"github.com/google/btree"

	"blockindex/pkg/common"
)

func lessByID(a, b common.Record) bool {
	return a.ID < b.ID
}

// RecordTable collects loaded records keyed by id. Loaders use it to reject
// duplicate ids and to hand out the dataset in id order.
type RecordTable struct {
	tree *btree.BTreeG[common.Record]
	lock sync.RWMutex
}

func NewRecordTable(degree int) *RecordTable {
	return &RecordTable{
		tree: btree.NewG(degree, lessByID),
	}
}

// Insert adds rec and reports false, leaving the table unchanged, when the id
// is already present.
func (rt *RecordTable) Insert(rec common.Record) bool {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	if rt.tree.Has(rec) {
		return false
	}
	rt.tree.ReplaceOrInsert(rec)
	return true
}

func (rt *RecordTable) Get(id int64) (common.Record, bool) {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	return rt.tree.Get(common.Record{ID: id})
}

// Ascend calls fn for every record in id order until fn returns false.
func (rt *RecordTable) Ascend(fn func(rec common.Record) bool) {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	rt.tree.Ascend(func(r common.Record) bool {
		return fn(r)
	})
}

// Records returns every record in id order.
func (rt *RecordTable) Records() []common.Record {
	out := make([]common.Record, 0, rt.Count())
	rt.Ascend(func(r common.Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

func (rt *RecordTable) Count() int {
	rt.lock.RLock()
	defer rt.lock.RUnlock()
	return rt.tree.Len()
}
