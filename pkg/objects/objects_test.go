package objects_test

import (
	"testing"

	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

type fakeThread struct{ exc *vmerr.Error }

func (t *fakeThread) Push(value.Value)          {}
func (t *fakeThread) Pop() value.Value          { return value.None }
func (t *fakeThread) RaiseError(e *vmerr.Error) { t.exc = e }

func TestStringHashValidOnConstruction(t *testing.T) {
	s := objects.NewString("hello")
	if !s.Header().HasValidHash() {
		t.Fatal("NewString must set VALID_HASH eagerly (spec §3.4/§9)")
	}
}

func TestStringEqualsByBytes(t *testing.T) {
	a := objects.NewString("hi")
	b := objects.NewString("hi")
	if a == b {
		t.Fatal("test setup: expected distinct string objects")
	}
	if !value.Equals(a.Value(), b.Value()) {
		t.Fatal("distinct string objects with equal bytes must compare equal")
	}
}

func TestStringHashConsistentWithEquals(t *testing.T) {
	th := &fakeThread{}
	a := objects.NewString("same")
	b := objects.NewString("same")
	ha, err := value.Hash(th, a.Value())
	if err != nil {
		t.Fatal(err)
	}
	hb, err := value.Hash(th, b.Value())
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Fatal("equal strings must hash equal (spec property 1)")
	}
}

func TestDictIsFalsyWhenEmpty(t *testing.T) {
	th := &fakeThread{}
	d := objects.NewDict()
	if !value.IsFalsy(d.Value()) {
		t.Fatal("empty dict should be falsy")
	}
	d.Table().Set(th, objects.NewString("k").Value(), value.Integer(1))
	if value.IsFalsy(d.Value()) {
		t.Fatal("non-empty dict should not be falsy")
	}
}

func TestListAppendAndIndex(t *testing.T) {
	l := objects.NewList(0)
	l.Append(value.Integer(1))
	l.Append(value.Integer(2))
	if l.Len() != 2 || l.At(0).AsInt() != 1 || l.At(1).AsInt() != 2 {
		t.Fatal("list append/index mismatch")
	}
}

func TestIsInstanceOf(t *testing.T) {
	c1 := objects.NewClass("Widget")
	c2 := objects.NewClass("Gadget")
	inst := c1.New(nil)

	if !objects.IsInstanceOf(inst.Value(), c1) {
		t.Fatal("instance should match its own class")
	}
	if objects.IsInstanceOf(inst.Value(), c2) {
		t.Fatal("instance should not match an unrelated class")
	}
}

// Scenario S3 from spec §8: hashing an object without a hash method fails.
func TestUnhashableInstance(t *testing.T) {
	th := &fakeThread{}
	c := objects.NewClass("X")
	inst := c.New(nil)
	_, err := value.Hash(th, inst.Value())
	if err == nil || err.Kind != vmerr.TypeError {
		t.Fatalf("expected TypeError for unhashable instance, got %v", err)
	}
	want := "unhashable type: 'X'"
	if err.Message != want {
		t.Fatalf("message = %q, want %q", err.Message, want)
	}
}
