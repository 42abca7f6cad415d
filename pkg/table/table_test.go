package table_test

import (
	"testing"

	"github.com/glimmer-lang/corevm/pkg/table"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

type fakeThread struct {
	stack []value.Value
	exc   *vmerr.Error
}

func (t *fakeThread) Push(v value.Value)    { t.stack = append(t.stack, v) }
func (t *fakeThread) Pop() value.Value      { n := len(t.stack) - 1; v := t.stack[n]; t.stack = t.stack[:n]; return v }
func (t *fakeThread) RaiseError(e *vmerr.Error) { t.exc = e }

func mustSet(t *testing.T, tb *table.Table, th value.Thread, k, v value.Value) bool {
	t.Helper()
	isNew, err := tb.Set(th, k, v)
	if err != nil {
		t.Fatalf("Set(%v,%v): %v", k, v, err)
	}
	return isNew
}

// S1 from spec §8.
func TestScenarioS1(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()

	mustSet(t, tb, th, value.Integer(1), value.Integer(10))
	mustSet(t, tb, th, value.Integer(2), value.Integer(20))

	ok, err := tb.Delete(th, value.Integer(1))
	if err != nil || !ok {
		t.Fatalf("delete(1) = %v, %v", ok, err)
	}

	if _, ok, _ := tb.Get(th, value.Integer(1)); ok {
		t.Fatal("get(1) should be false after delete")
	}
	v, ok, _ := tb.Get(th, value.Integer(2))
	if !ok || v.AsInt() != 20 {
		t.Fatalf("get(2) = %v, %v, want 20, true", v, ok)
	}
	if tb.Len() != 1 {
		t.Fatalf("live count = %d, want 1", tb.Len())
	}
}

// S2 from spec §8: 100 keys force at least one grow to capacity >= 128.
func TestScenarioS2(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()

	for i := int64(0); i < 100; i++ {
		mustSet(t, tb, th, value.Integer(i), value.Integer(i*2))
	}
	if tb.Capacity() < 128 {
		t.Fatalf("capacity = %d, want >= 128", tb.Capacity())
	}
	for i := int64(0); i < 100; i++ {
		v, ok, err := tb.Get(th, value.Integer(i))
		if err != nil || !ok || v.AsInt() != i*2 {
			t.Fatalf("get(%d) = %v, %v, %v; want %d, true, nil", i, v, ok, err, i*2)
		}
	}
}

// Property 2: round-trip set/get.
func TestRoundTripSetGet(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	k, v := value.Integer(42), value.Integer(99)
	mustSet(t, tb, th, k, v)
	got, ok, err := tb.Get(th, k)
	if err != nil || !ok || got.AsInt() != 99 {
		t.Fatalf("round trip failed: %v %v %v", got, ok, err)
	}
}

// Property 3: idempotent set.
func TestIdempotentSet(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	k, v := value.Integer(1), value.Integer(2)

	isNew1 := mustSet(t, tb, th, k, v)
	if !isNew1 {
		t.Fatal("first set should report new key")
	}
	isNew2 := mustSet(t, tb, th, k, v)
	if isNew2 {
		t.Fatal("second set of the same key should report isNewKey=false")
	}
}

// Property 4: delete/get symmetry.
func TestDeleteGetSymmetry(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	k := value.Integer(5)
	mustSet(t, tb, th, k, value.Integer(1))

	ok, err := tb.Delete(th, k)
	if err != nil || !ok {
		t.Fatalf("delete failed: %v %v", ok, err)
	}
	if _, ok, _ := tb.Get(th, k); ok {
		t.Fatal("get after delete should be false")
	}
	isNew := mustSet(t, tb, th, k, value.Integer(2))
	if !isNew {
		t.Fatal("re-inserting a deleted key should report isNewKey=true")
	}
	v, ok, _ := tb.Get(th, k)
	if !ok || v.AsInt() != 2 {
		t.Fatalf("get after reinsert = %v, %v, want 2, true", v, ok)
	}
}

// Property 5: load-factor bound.
func TestLoadFactorBound(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	for i := int64(0); i < 500; i++ {
		mustSet(t, tb, th, value.Integer(i), value.None)
		if float64(tb.Len()) > float64(tb.Capacity())*0.75 {
			t.Fatalf("load factor exceeded at i=%d: live=%d cap=%d", i, tb.Len(), tb.Capacity())
		}
	}
}

// Property 7: rehash preserves mapping.
func TestRehashPreservesMapping(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	for i := int64(0); i < 50; i++ {
		mustSet(t, tb, th, value.Integer(i), value.Integer(i))
	}
	// Force growth by inserting enough more keys to cross the load factor.
	for i := int64(50); i < 400; i++ {
		mustSet(t, tb, th, value.Integer(i), value.Integer(i))
	}
	for i := int64(0); i < 400; i++ {
		v, ok, err := tb.Get(th, value.Integer(i))
		if err != nil || !ok || v.AsInt() != i {
			t.Fatalf("post-rehash get(%d) = %v %v %v", i, v, ok, err)
		}
	}
}

func TestGetOnEmptyTable(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	if _, ok, err := tb.Get(th, value.Integer(1)); ok || err != nil {
		t.Fatalf("get on empty table should be (false, nil), got (%v, %v)", ok, err)
	}
}

func TestAddAll(t *testing.T) {
	th := &fakeThread{}
	src := table.New()
	dst := table.New()
	mustSet(t, src, th, value.Integer(1), value.Integer(10))
	mustSet(t, src, th, value.Integer(2), value.Integer(20))

	if err := table.AddAll(th, src, dst); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	for _, i := range []int64{1, 2} {
		v, ok, _ := dst.Get(th, value.Integer(i))
		if !ok || v.AsInt() != i*10 {
			t.Fatalf("dst missing entry for %d: %v %v", i, v, ok)
		}
	}
}

func TestIterateSkipsSentinels(t *testing.T) {
	th := &fakeThread{}
	tb := table.New()
	mustSet(t, tb, th, value.Integer(1), value.Integer(1))
	mustSet(t, tb, th, value.Integer(2), value.Integer(2))
	tb.Delete(th, value.Integer(1))

	seen := map[int64]bool{}
	tb.Iterate(func(k, v value.Value) bool {
		seen[k.AsInt()] = true
		return true
	})
	if seen[1] {
		t.Fatal("iterate should skip tombstoned key")
	}
	if !seen[2] {
		t.Fatal("iterate should visit live key")
	}
}
