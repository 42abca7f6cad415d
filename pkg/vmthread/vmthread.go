// Package vmthread provides the minimal per-VM-thread state spec §1/§5
// require as a collaborator: "each interpreter thread owns its own value
// stack and its own current-exception slot". There is no bytecode execution
// here — that is explicitly out of scope (spec §1) — only the stack and
// exception slot the core's hashing and argument-parsing paths read and
// write.
//
// © 2025 glimmer authors. MIT License.
package vmthread

import (
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

// Thread owns a value stack and an exception slot. It implements
// value.Thread.
type Thread struct {
	stack []value.Value
	exc   *vmerr.Error

	// Main identifies the thread authorised to request a GC collection
	// (spec §5: "collect requests are honoured only from the designated
	// main thread; others raise ValueError").
	Main bool
}

// New constructs an empty thread. Exactly one Thread in a process should be
// constructed with Main: true.
func New(isMain bool) *Thread {
	return &Thread{Main: isMain}
}

// Push implements value.Thread.
func (t *Thread) Push(v value.Value) { t.stack = append(t.stack, v) }

// Pop implements value.Thread. Panics on an empty stack, matching the core's
// assumption that hash/float-coerce re-entrant calls always balance their
// own pushes (an empty pop is a core bug, not a user-facing error).
func (t *Thread) Pop() value.Value {
	n := len(t.stack) - 1
	v := t.stack[n]
	t.stack = t.stack[:n]
	return v
}

// StackLen reports the current stack depth.
func (t *Thread) StackLen() int { return len(t.stack) }

// RaiseError implements value.Thread: places err in the exception slot.
func (t *Thread) RaiseError(err *vmerr.Error) { t.exc = err }

// Exception returns the current exception, or nil if none is pending.
func (t *Thread) Exception() *vmerr.Error { return t.exc }

// ClearException resets the exception slot. Callers must check Exception
// rather than relying solely on a function's boolean/pointer return value
// when ambiguity exists (spec §6 "Error channel").
func (t *Thread) ClearException() { t.exc = nil }

// Stack returns a read-only view of the live value stack, used as a GC root
// set contributor (spec §5(a): "objects referenced by any thread's value
// stack are roots").
func (t *Thread) Stack() []value.Value { return t.stack }

// IsMain reports whether this is the designated main thread, the only one
// pkg/heap.Collect honours (spec §5).
func (t *Thread) IsMain() bool { return t.Main }
