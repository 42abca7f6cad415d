// Package modrange is the "range" native module spec §6 names: a range
// value type whose constructor exercises the parser's optional-positional
// handling ('|') and the fixed-width integer directives side by side, per
// SPEC_FULL's [NATIVE-RANGE].
//
// © 2025 glimmer authors. MIT License.
package modrange

import (
	"github.com/glimmer-lang/corevm/pkg/argparse"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

// Class is the class every range Instance this module constructs belongs
// to.
var Class = objects.NewClass("range")

// payload is the Payload a Class Instance carries.
type payload struct {
	start, stop, step int32
}

// Of extracts the (start, stop, step) triple from a range Instance, for
// natives or tests that need to inspect one.
func Of(o value.Heaper) (start, stop, step int32, ok bool) {
	inst, isInst := o.(*objects.Instance)
	if !isInst || inst.Class != Class {
		return 0, 0, 0, false
	}
	p, isPayload := inst.Payload.(*payload)
	if !isPayload {
		return 0, 0, 0, false
	}
	return p.start, p.stop, p.step, true
}

// Len reports how many values a range yields, per the usual
// ceil((stop-start)/step) rule; 0 for a step that can never reach stop.
func Len(start, stop, step int32) int64 {
	if step == 0 {
		return 0
	}
	if step > 0 {
		if stop <= start {
			return 0
		}
		return (int64(stop) - int64(start) + int64(step) - 1) / int64(step)
	}
	if stop >= start {
		return 0
	}
	return (int64(start) - int64(stop) - int64(step) - 1) / -int64(step)
}

// New implements range(start, stop=None, step=1): one argument is treated
// as stop with start defaulting to 0, mirroring the two-call-shape
// convention range() bindings conventionally support. Format is "i|i?i"
// (the '?' on stop records whether it was supplied), names ["a", "stop",
// "step"].
func New(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var a, stop, step int32
	var stopPresent bool
	step = 1

	stopBind := argparse.Int32Arg(&stop).WithPresence(&stopPresent)
	ok := argparse.NewBuilder(false).
		Arg('i', "a", argparse.Int32Arg(&a)).
		Optional().
		Arg('i', "stop", stopBind, '?').
		Arg('i', "step", argparse.Int32Arg(&step)).
		Parse(th, "range", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}

	start := a
	if !stopPresent {
		stop = a
		start = 0
	}
	if step == 0 {
		th.RaiseError(vmerr.New(vmerr.ValueError, "range() argument step must not be zero"))
		return value.None, false
	}

	inst := Class.New(&payload{start: start, stop: stop, step: step})
	v.Heap().Alloc(inst)
	return inst.Value(), true
}
