// Package intern implements spec §3.4/§4.4's string interning hook: a
// table-query that locates an existing string by (bytes, len, hash), backed
// by the same open-addressing table the rest of the core uses. Pointer
// equality among interned strings is what lets pkg/table.GetFast skip a
// byte comparison.
//
// © 2025 glimmer authors. MIT License.
package intern

import (
	"sync"

	"github.com/glimmer-lang/corevm/internal/unsafehelpers"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/table"
	"github.com/glimmer-lang/corevm/pkg/value"
)

// Table is the canonical string table. Unlike the generic pkg/table.Table,
// it is safe for concurrent use (spec §5: "the object heap and the string
// intern table" are shared across VM threads), guarded by a single mutex —
// the same "serialise at the boundary, keep the core itself lock-free"
// shape the teacher's shard type uses around its plain map.
type Table struct {
	mu sync.Mutex
	t  *table.Table
}

// New constructs an empty intern table.
func New() *Table {
	return &Table{t: table.New()}
}

// Intern returns the canonical *objects.String for s, creating and
// registering one if none exists yet. Hash is computed once by NewString
// and reused for the lookup, per spec's "every interned string has its
// VALID_HASH flag set with a stable hash".
func (it *Table) Intern(th value.Thread, s string) *objects.String {
	it.mu.Lock()
	defer it.mu.Unlock()

	candidate := objects.NewString(s)
	hash := candidate.Header().CachedHash()

	// s is a caller-owned string that outlives this call, and FindString
	// only reads its bytes for comparison — never stores them — so the
	// zero-copy view is safe for the duration of the probe.
	if existing, ok := it.t.FindString(hash, unsafehelpers.StringToBytes(s)); ok {
		o, _ := existing.AsObject()
		return o.(*objects.String)
	}

	it.t.Set(th, candidate.Value(), value.None)
	return candidate
}

// Lookup reports whether bytes are already interned, without creating a new
// string on a miss.
func (it *Table) Lookup(bytes []byte, hash uint32) (*objects.String, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()

	v, ok := it.t.FindString(hash, bytes)
	if !ok {
		return nil, false
	}
	o, _ := v.AsObject()
	return o.(*objects.String), true
}

// LookupString is Lookup's zero-copy counterpart for callers that only have
// a string in hand (the common case at a native call boundary): it probes
// the table without allocating a byte-slice copy of s first.
func (it *Table) LookupString(s string, hash uint32) (*objects.String, bool) {
	return it.Lookup(unsafehelpers.StringToBytes(s), hash)
}

// Len reports the number of interned strings.
func (it *Table) Len() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.t.Len()
}

// Stats reports the backing table's capacity, live+tombstone count, and
// load factor, for diagnostic endpoints that want more than just Len.
func (it *Table) Stats() (capacity, count int, loadFactor float64) {
	it.mu.Lock()
	defer it.mu.Unlock()
	capacity = it.t.Capacity()
	count = it.t.Count()
	if capacity == 0 {
		return capacity, count, 0
	}
	return capacity, count, float64(count) / float64(capacity)
}

// Roots returns every interned string as a Value, implementing pkg/heap's
// interner contract: the intern table is shared VM-wide state, not
// reachable from any single thread's stack, so it must root its own
// contents directly.
func (it *Table) Roots() []value.Value {
	it.mu.Lock()
	defer it.mu.Unlock()
	roots := make([]value.Value, 0, it.t.Len())
	it.t.Iterate(func(k, _ value.Value) bool {
		roots = append(roots, k)
		return true
	})
	return roots
}
