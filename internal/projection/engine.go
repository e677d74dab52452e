package projection

import (
	"strconv"
	"sync"

	"arha/internal/cache"
	"arha/internal/core"
)

const defaultMemoSize = 64

// Engine memoizes views of the current record set. Views are keyed by the
// record-set version and the normalized filter, so replacing the records
// never serves a stale view. Returned views share their slices with the
// memo table and must not be modified.
type Engine struct {
	mu      sync.RWMutex
	records []core.Transaction
	version uint64
	memo    cache.Cache[View]
}

func NewEngine(memoSize int) *Engine {
	if memoSize <= 0 {
		memoSize = defaultMemoSize
	}
	return &Engine{memo: cache.NewLRUCache[View](memoSize, 0)}
}

// SetRecords replaces the record set.
func (e *Engine) SetRecords(records []core.Transaction) {
	cp := append([]core.Transaction(nil), records...)
	e.mu.Lock()
	e.records = cp
	e.version++
	e.mu.Unlock()
	e.memo.Purge()
}

func (e *Engine) View(spec core.FilterSpec) View {
	e.mu.RLock()
	records, version := e.records, e.version
	e.mu.RUnlock()

	key := strconv.FormatUint(version, 10) + "|" + spec.Key()
	if v, ok := e.memo.Get(key); ok {
		return v
	}
	v := Project(records, spec)
	e.memo.Set(key, v)
	return v
}

// Report derives the report from the same memoized view the list uses.
func (e *Engine) Report(spec core.FilterSpec) Report {
	return NewReport(e.View(spec))
}
