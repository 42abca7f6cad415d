// Package modgc is the "gc" native module spec §6 names as an illustration
// of the argument-parser contract: three functions — collect, pause, resume
// — each a thin argparse.Parse call in front of a pkg/vm.VM method.
//
// © 2025 glimmer authors. MIT License.
package modgc

import (
	"github.com/glimmer-lang/corevm/pkg/argparse"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

// Collect implements gc.collect(): no arguments, runs a collection on th's
// behalf and returns the number of objects swept-free as an Integer.
func Collect(v *vm.VM, th *vmthread.Thread, args []value.Value) (value.Value, bool) {
	if !argparse.Parse(th, "collect", args, nil, nil, "", nil, nil) {
		return value.None, false
	}
	before := v.Heap().Count()
	if err := v.Collect(th); err != nil {
		th.RaiseError(err)
		return value.None, false
	}
	freed := before - v.Heap().Count()
	return value.Integer(int64(freed)), true
}

// Pause implements gc.pause(): suspends reclamation until a matching resume.
func Pause(v *vm.VM, th *vmthread.Thread, args []value.Value) (value.Value, bool) {
	if !argparse.Parse(th, "pause", args, nil, nil, "", nil, nil) {
		return value.None, false
	}
	v.PauseGC()
	return value.None, true
}

// Resume implements gc.resume(): undoes one Pause call.
func Resume(v *vm.VM, th *vmthread.Thread, args []value.Value) (value.Value, bool) {
	if !argparse.Parse(th, "resume", args, nil, nil, "", nil, nil) {
		return value.None, false
	}
	v.ResumeGC()
	return value.None, true
}
