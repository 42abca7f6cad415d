package modgc_test

import (
	"testing"

	"github.com/glimmer-lang/corevm/pkg/natives/modgc"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
)

func TestCollectFreesUnrootedObjects(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)

	d := v.NewDict()
	th.Push(d.Value())
	v.NewList(0) // garbage

	result, ok := modgc.Collect(v, th, nil)
	if !ok {
		t.Fatalf("collect() raised: %v", th.Exception())
	}
	if result.Kind() != value.KindInteger || result.AsInt() != 1 {
		t.Fatalf("collect() = %v, want Integer(1)", result)
	}
}

func TestCollectFromNonMainThreadRaisesValueError(t *testing.T) {
	v := vm.New()
	th := v.NewThread(false)

	_, ok := modgc.Collect(v, th, nil)
	if ok {
		t.Fatal("collect() from a non-main thread should fail")
	}
	if th.Exception() == nil {
		t.Fatal("expected an exception to be raised")
	}
}

func TestPauseThenResumeAllowsCollection(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)

	if _, ok := modgc.Pause(v, th, nil); !ok {
		t.Fatalf("pause() raised: %v", th.Exception())
	}
	v.NewList(0)
	before := v.Heap().Count()
	if err := v.Collect(th); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v.Heap().Count() != before {
		t.Fatal("collection should be suspended while paused")
	}

	if _, ok := modgc.Resume(v, th, nil); !ok {
		t.Fatalf("resume() raised: %v", th.Exception())
	}
	if err := v.Collect(th); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v.Heap().Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after resumed collection", v.Heap().Count())
	}
}

func TestCollectRejectsUnexpectedArgument(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)

	_, ok := modgc.Collect(v, th, []value.Value{value.Integer(1)})
	if ok {
		t.Fatal("collect() takes no arguments")
	}
}
