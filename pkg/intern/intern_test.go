package intern_test

import (
	"testing"

	"github.com/glimmer-lang/corevm/pkg/intern"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

type fakeThread struct{ exc *vmerr.Error }

func (t *fakeThread) Push(value.Value)          {}
func (t *fakeThread) Pop() value.Value          { return value.None }
func (t *fakeThread) RaiseError(e *vmerr.Error) { t.exc = e }

// Property 8: intern uniqueness.
func TestInternUniqueness(t *testing.T) {
	th := &fakeThread{}
	it := intern.New()

	a := it.Intern(th, "hello")
	b := it.Intern(th, "hello")
	if a != b {
		t.Fatal("interning the same bytes twice must return the same pointer")
	}

	c := it.Intern(th, "world")
	if c == a {
		t.Fatal("distinct bytes must not share a pointer")
	}
	if it.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", it.Len())
	}
}

func TestLookupMissDoesNotCreate(t *testing.T) {
	it := intern.New()
	if _, ok := it.Lookup([]byte("nope"), 12345); ok {
		t.Fatal("lookup on empty intern table should miss")
	}
	if it.Len() != 0 {
		t.Fatal("lookup must not create an entry")
	}
}
