// Package table implements the open-addressing Value -> Value hash table
// described in spec §3.3/§4.4: a dual-purpose Kwargs(0) sentinel marks both
// an empty slot (paired with value.None) and a tombstone (paired with
// value.Boolean(true)), so "empty" and "deleted" are distinguished using only
// the value half of a sentinel-keyed entry (spec §9 "Sentinel overloading").
//
// The table is not internally synchronised (spec §5): callers needing
// concurrent access must coordinate externally, exactly as the teacher's
// shard type serialises its own map with a sync.RWMutex one layer up.
//
// © 2025 glimmer authors. MIT License.
package table

import (
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

const maxLoadFactor = 0.75

type entry struct {
	Key   value.Value
	Value value.Value
}

// Table is a Value -> Value open-addressing hash table (spec §3.3).
type Table struct {
	capacity int
	count    int // live + tombstone slots, for load-factor accounting
	entries  []entry
}

// New returns an initialised, empty table (spec §4.4 init).
func New() *Table {
	return &Table{}
}

// Init resets t to the empty state, discarding any entries (spec §4.4 init).
func (t *Table) Init() {
	t.capacity = 0
	t.count = 0
	t.entries = nil
}

// Free releases entries and resets to the init state (spec §4.4 free).
func (t *Table) Free() {
	t.Init()
}

// Capacity reports the current backing-array size.
func (t *Table) Capacity() int { return t.capacity }

// Count reports live+tombstone slots (spec §3.3 "count counts live +
// tombstone slots for load-factor accounting").
func (t *Table) Count() int { return t.count }

// Len reports only the live entry count; callers wanting the raw slot
// accounting used for load-factor math should use Count.
func (t *Table) Len() int {
	n := 0
	for _, e := range t.entries {
		if !isSentinelKey(e.Key) {
			n++
		}
	}
	return n
}

func isSentinelKey(k value.Value) bool { return k.IsKwargsEmpty() }

func isEmptySlot(e entry) bool {
	return isSentinelKey(e.Key) && e.Value.IsNone()
}

func isTombstoneSlot(e entry) bool {
	return isSentinelKey(e.Key) && e.Value.Kind() == value.KindBoolean && e.Value.AsBool()
}

func tombstoneValue() value.Value { return value.Boolean(true) }

// growCapacity implements the implementation-chosen grow schedule spec §4.4
// names as an example: max(8, 2×capacity).
func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}

// findEntry implements spec §4.4's find_entry over an explicit backing
// array, so it can be reused verbatim by adjustCapacity against the fresh
// array. It is free of side effects on the table (spec §9's re-entrancy
// requirement), save for the hashing call, which may fail but never
// mutates.
func findEntry(th value.Thread, entries []entry, capacity int, k value.Value) (*entry, *vmerr.Error) {
	h, err := value.Hash(th, k)
	if err != nil {
		return nil, err
	}
	idx := int(h) % capacity
	if idx < 0 {
		idx += capacity
	}
	var tombstone *entry
	for {
		e := &entries[idx]
		switch {
		case isEmptySlot(*e):
			if tombstone != nil {
				return tombstone, nil
			}
			return e, nil
		case isTombstoneSlot(*e):
			if tombstone == nil {
				tombstone = e
			}
		case value.Equals(e.Key, k):
			return e, nil
		}
		idx++
		if idx == capacity {
			idx = 0
		}
	}
}

// adjustCapacity implements spec §4.4's rehash: allocate a fresh zeroed
// array, reinsert every live entry via findEntry on the new array, and drop
// tombstones.
func (t *Table) adjustCapacity(th value.Thread, newCapacity int) *vmerr.Error {
	fresh := make([]entry, newCapacity)
	liveCount := 0
	for _, e := range t.entries {
		if isSentinelKey(e.Key) {
			continue // drop empty slots and tombstones
		}
		dst, err := findEntry(th, fresh, newCapacity, e.Key)
		if err != nil {
			return err
		}
		dst.Key = e.Key
		dst.Value = e.Value
		liveCount++
	}
	t.entries = fresh
	t.capacity = newCapacity
	t.count = liveCount
	return nil
}

// Set implements spec §4.4's set. It grows the table first if the insertion
// would exceed the load-factor bound, then locates a slot, overwrites it,
// and reports whether the slot was not already a live entry.
func (t *Table) Set(th value.Thread, k, v value.Value) (isNewKey bool, err *vmerr.Error) {
	if t.capacity == 0 || float64(t.count+1) > float64(t.capacity)*maxLoadFactor {
		if err := t.adjustCapacity(th, growCapacity(t.capacity)); err != nil {
			return false, err
		}
	}
	e, err := findEntry(th, t.entries, t.capacity, k)
	if err != nil {
		return false, err
	}
	isNewKey = isSentinelKey(e.Key)
	if isEmptySlot(*e) {
		t.count++
	}
	e.Key = k
	e.Value = v
	return isNewKey, nil
}

// Get implements spec §4.4's get: false if the table is empty or the
// located slot is not live.
func (t *Table) Get(th value.Thread, k value.Value) (v value.Value, ok bool, err *vmerr.Error) {
	if t.capacity == 0 {
		return value.None, false, nil
	}
	e, err := findEntry(th, t.entries, t.capacity, k)
	if err != nil {
		return value.None, false, err
	}
	if isSentinelKey(e.Key) {
		return value.None, false, nil
	}
	return e.Value, true, nil
}

// StringKeyer is implemented by heap objects usable as the fast-path key in
// GetFast/FindString: an interned string whose bytes the table can compare
// without recomputing a hash (spec §4.4 get_fast/find_string).
type StringKeyer interface {
	value.Heaper
	StringBytes() []byte
}

// GetFast implements spec §4.4's get_fast: the caller supplies a string key
// whose VALID_HASH is known set, so the table uses the given hash directly
// and compares keys by pointer identity — only correct when the producer
// interns strings (spec's explicit caveat).
func (t *Table) GetFast(hash uint32, key StringKeyer) (v value.Value, ok bool) {
	if t.capacity == 0 {
		return value.None, false
	}
	idx := int(hash) % t.capacity
	for {
		e := &t.entries[idx]
		if isEmptySlot(*e) {
			return value.None, false
		}
		if !isSentinelKey(e.Key) {
			if eo, isObj := e.Key.AsObject(); isObj && eo == value.Heaper(key) {
				return e.Value, true
			}
		}
		idx++
		if idx == t.capacity {
			idx = 0
		}
	}
}

// Delete implements spec §4.4's delete: converts a live slot into a
// tombstone (key=Kwargs(0), value=Boolean(true)), leaving count unchanged.
func (t *Table) Delete(th value.Thread, k value.Value) (ok bool, err *vmerr.Error) {
	if t.capacity == 0 {
		return false, nil
	}
	e, err := findEntry(th, t.entries, t.capacity, k)
	if err != nil {
		return false, err
	}
	if isSentinelKey(e.Key) {
		return false, nil
	}
	e.Key = value.KwargsEmpty
	e.Value = tombstoneValue()
	return true, nil
}

// AddAll implements spec §4.4's add_all: iterate from's live slots and Set
// each into to.
func AddAll(th value.Thread, from, to *Table) *vmerr.Error {
	for _, e := range from.entries {
		if isSentinelKey(e.Key) {
			continue
		}
		if _, err := to.Set(th, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// FindString implements spec §4.4's find_string: probe like get, comparing
// (len, hash, bytes) against each non-sentinel entry's string key, stopping
// on a truly empty slot (value None, not a tombstone) per spec's exact
// wording — as in Get/Delete, a tombstone does not end the probe here,
// since the entry we are hunting for may still be further down the chain.
func (t *Table) FindString(hash uint32, bytes []byte) (value.Value, bool) {
	if t.capacity == 0 {
		return value.None, false
	}
	idx := int(hash) % t.capacity
	for {
		e := &t.entries[idx]
		if isEmptySlot(*e) {
			return value.None, false
		}
		if !isSentinelKey(e.Key) {
			if o, isObj := e.Key.AsObject(); isObj {
				if sk, isStr := o.(StringKeyer); isStr {
					if matchesStringKey(o, sk, hash, bytes) {
						return e.Key, true
					}
				}
			}
		}
		idx++
		if idx == t.capacity {
			idx = 0
		}
	}
}

func matchesStringKey(o value.Heaper, sk StringKeyer, hash uint32, bytes []byte) bool {
	h := o.Header()
	if !h.HasValidHash() || h.CachedHash() != hash {
		return false
	}
	kb := sk.StringBytes()
	if len(kb) != len(bytes) {
		return false
	}
	for i := range kb {
		if kb[i] != bytes[i] {
			return false
		}
	}
	return true
}

// Iterate walks every live slot, calling fn(key, value). It stops early if
// fn returns false. Not named in spec.md; it lets pkg/heap trace a dict's
// entries, pkg/intern list its roots, and pkg/argparse scan leftover kwargs
// (SPEC_FULL §4). AddAll walks the entries directly and does not use it.
func (t *Table) Iterate(fn func(k, v value.Value) bool) {
	for _, e := range t.entries {
		if isSentinelKey(e.Key) {
			continue
		}
		if !fn(e.Key, e.Value) {
			return
		}
	}
}
