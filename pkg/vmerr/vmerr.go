// Package vmerr defines the error kinds the core is allowed to raise.
//
// The core never catches; it only raises (spec §7). Every raise site places
// an *Error into the current thread's exception slot (see pkg/value.Thread)
// and returns a failure indicator. The message templates callers pass to New
// (pkg/argparse/errors.go, pkg/value/hash.go) are part of the stable
// contract described in spec §4.5 and §4.1 — do not reword them.
//
// © 2025 glimmer authors. MIT License.
package vmerr

import "fmt"

// Kind distinguishes the small set of error kinds the core can raise.
type Kind uint8

const (
	// TypeError is raised by hash (unhashable value) and by the argument
	// parser (wrong argument type, unexpected keyword, multiple values for
	// one argument, unknown format directive).
	TypeError Kind = iota
	// ValueError is raised by parser callers for semantic failures; the core
	// only surfaces the facility, callers choose the message.
	ValueError
	// ArgumentError is raised by the parser on positional arity mismatch.
	ArgumentError
	// NotImplementedError is raised by collaborators for declined features.
	NotImplementedError
)

func (k Kind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case ValueError:
		return "ValueError"
	case ArgumentError:
		return "ArgumentError"
	case NotImplementedError:
		return "NotImplementedError"
	default:
		return "Error"
	}
}

// Error is the error value placed into a thread's exception slot.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an *Error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Newf is an alias kept for call sites that read better without the kind
// spelled at the call site twice; it forwards to New.
func Newf(kind Kind, format string, args ...any) *Error { return New(kind, format, args...) }
