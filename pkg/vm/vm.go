// Package vm is the ambient-stack facade around the runtime core: it wires
// together pkg/heap, pkg/intern, pkg/vmthread, structured logging and
// metrics the way the teacher's pkg.Cache wires together shards, the
// generation ring, and CLOCK-Pro behind a single constructor (spec §1 scopes
// out the bytecode loop itself; this is the collaborator surface a future
// loop would be built against).
//
// © 2025 glimmer authors. MIT License.
package vm

import (
	"go.uber.org/zap"

	"github.com/glimmer-lang/corevm/pkg/heap"
	"github.com/glimmer-lang/corevm/pkg/intern"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

// VM owns the state shared across every thread: the object heap and the
// string intern table (spec §5: "all threads share the object heap and the
// string intern table").
type VM struct {
	cfg     *config
	metrics metricsSink
	logger  *zap.Logger

	heap   *heap.Heap
	intern *intern.Table
}

// New constructs a VM with no threads yet registered. Call NewThread to
// obtain the first (and, exactly once, main) thread.
func New(opts ...Option) *VM {
	cfg := defaultConfig()
	applyOptions(cfg, opts)

	h := heap.New()
	it := intern.New()
	h.RegisterInterner(it)

	return &VM{
		cfg:     cfg,
		metrics: newMetricsSink(cfg.registry),
		logger:  cfg.logger,
		heap:    h,
		intern:  it,
	}
}

// Heap exposes the underlying collector, for callers (native modules,
// tests) that need direct access beyond the allocation helpers below.
func (vm *VM) Heap() *heap.Heap { return vm.heap }

// NewThread constructs a vmthread.Thread and registers its value stack as a
// GC root set (spec §5(a)). Exactly one thread per VM should be constructed
// with isMain: true.
func (vm *VM) NewThread(isMain bool) *vmthread.Thread {
	th := vmthread.New(isMain)
	vm.heap.RegisterThread(th)
	return th
}

// Intern returns the canonical interned string for s.
func (vm *VM) Intern(th value.Thread, s string) *objects.String {
	return vm.intern.Intern(th, s)
}

// NewDict allocates a tracked, empty dict.
func (vm *VM) NewDict() *objects.Dict {
	d := objects.NewDict()
	vm.heap.Alloc(d)
	vm.metrics.incAlloc("dict")
	return d
}

// NewList allocates a tracked, empty list.
func (vm *VM) NewList(capHint int) *objects.List {
	l := objects.NewList(capHint)
	vm.heap.Alloc(l)
	vm.metrics.incAlloc("list")
	return l
}

// NewInstance allocates a tracked instance of class c.
func (vm *VM) NewInstance(c *objects.Class, payload any) *objects.Instance {
	inst := c.New(payload)
	vm.heap.Alloc(inst)
	vm.metrics.incAlloc("instance")
	return inst
}

// PinRetainList roots r for the duration of a native call (spec §5(b)).
// Callers (typically pkg/argparse's caller, around the Parse call) must
// invoke the returned unpin once the call returns.
func (vm *VM) PinRetainList(r *objects.List) (unpin func()) {
	return vm.heap.PinRetainList(r)
}

// PauseGC/ResumeGC delegate to the heap (spec §5: global pause/resume).
func (vm *VM) PauseGC()  { vm.heap.PauseGC() }
func (vm *VM) ResumeGC() { vm.heap.ResumeGC() }

// Collect runs a collection on th's behalf, recording metrics on success.
// Only th.IsMain() may succeed (spec §5); see pkg/heap.Collect.
func (vm *VM) Collect(th *vmthread.Thread) *vmerr.Error {
	if err := vm.heap.Collect(th); err != nil {
		return err
	}
	vm.metrics.incCollect()
	vm.metrics.setHeapObjects(vm.heap.Count())
	return nil
}

// NoteParseFailure lets native bindings report a failed pkg/argparse.Parse
// call to metrics without pkg/argparse itself depending on pkg/vm.
func (vm *VM) NoteParseFailure() { vm.metrics.incParseFailure() }

// Logger exposes the configured zap.Logger (zap.NewNop() by default).
func (vm *VM) Logger() *zap.Logger { return vm.logger }
