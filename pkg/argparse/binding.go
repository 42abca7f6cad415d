// binding.go implements the per-directive output descriptors that replace
// the C-shaped variadic tail of spec §4.5's parse(...) entry point, per
// spec §9's own suggestion: "in statically typed targets it is natural to
// replace the variadic tail with a descriptor array or builder-style
// binding helper that yields typed accessors. The grammar itself is the
// invariant; its carrier is not."
//
// Each constructor here corresponds to one format-string type letter (spec
// §4.5) and returns a *Binding the caller can chain '?'/'!'/'#' behaviour
// onto before passing the whole slice to Parse.
//
// © 2025 glimmer authors. MIT License.
package argparse

import (
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

// Binding is one output descriptor, built by one of the type-letter
// constructors below and optionally decorated with WithPresence/
// WithInstanceOf/WithLength.
type Binding struct {
	decode func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error

	presence    *bool
	instanceOf  *objects.Class
	length      *int
	varArgs     *varArgsDest // non-nil only for the '*' directive
}

type varArgsDest struct {
	count *int
	items *[]value.Value
}

// WithPresence arranges for the '?' modifier to record whether the argument
// was actually supplied (spec §4.5: "also write an int 'was-present'
// flag" — rendered here as a bool, Go's native truthiness type).
func (b *Binding) WithPresence(dest *bool) *Binding {
	b.presence = dest
	return b
}

// WithInstanceOf arranges for the '!' modifier to enforce that the argument
// is an instance of c, raising TypeError otherwise (spec §4.5).
func (b *Binding) WithInstanceOf(c *objects.Class) *Binding {
	b.instanceOf = c
	return b
}

// WithLength arranges for the '#' modifier (only meaningful after 'z'/'s')
// to also write the byte length of the decoded string (spec §4.5).
func (b *Binding) WithLength(dest *int) *Binding {
	b.length = dest
	return b
}

func wrongType(methodName, argName, expected string, got value.Value) *vmerr.Error {
	return vmerr.New(vmerr.TypeError, "%s() argument %s expects %s, not '%s'",
		methodName, argName, expected, value.TypeOf(got).Name)
}

// ObjectArg binds format letter 'O': a heap object pointer, or nil for None.
func ObjectArg(dest *value.Heaper) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		if v.IsNone() {
			*dest = nil
			return nil
		}
		o, ok := v.AsObject()
		if !ok {
			return wrongType(methodName, argName, "object", v)
		}
		*dest = o
		return nil
	}}
}

// ValueArg binds format letter 'V': any Value, untyped.
func ValueArg(dest *value.Value) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		*dest = v
		return nil
	}}
}

func stringOf(v value.Value) (*objects.String, bool) {
	o, ok := v.AsObject()
	if !ok {
		return nil, false
	}
	s, ok := o.(*objects.String)
	return s, ok
}

// NullableStringArg binds format letter 'z': a nullable string pointer;
// None maps to a nil destination.
func NullableStringArg(dest **objects.String) *Binding {
	b := &Binding{}
	b.decode = func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		if v.IsNone() {
			*dest = nil
			return nil
		}
		s, ok := stringOf(v)
		if !ok {
			return wrongType(methodName, argName, "str or None", v)
		}
		*dest = s
		if b.length != nil {
			*b.length = s.Len()
		}
		return nil
	}
	return b
}

// StringArg binds format letter 's': a non-nullable string pointer.
func StringArg(dest **objects.String) *Binding {
	b := &Binding{}
	b.decode = func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		s, ok := stringOf(v)
		if !ok {
			return wrongType(methodName, argName, "str", v)
		}
		*dest = s
		if b.length != nil {
			*b.length = s.Len()
		}
		return nil
	}
	return b
}

// CodepointArg binds format letter 'C': a single-codepoint string, yielded
// as an int.
func CodepointArg(dest *int) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		s, ok := stringOf(v)
		if !ok || s.RuneLen() != 1 {
			return wrongType(methodName, argName, "a single character str", v)
		}
		for _, r := range s.String() {
			*dest = int(r)
			break
		}
		return nil
	}}
}

// PredicateArg binds format letter 'p': a truthiness predicate, yielded as
// an int (1 truthy, 0 falsy). Never fails.
func PredicateArg(dest *int) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		if value.IsFalsy(v) {
			*dest = 0
		} else {
			*dest = 1
		}
		return nil
	}}
}

// FloatArg binds format letters 'f'/'d': non-floats are coerced by invoking
// the type's float-conversion method (spec §4.5).
func FloatArg(dest *float64) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		td := value.TypeOf(v)
		if td == nil || td.Float == nil {
			return wrongType(methodName, argName, "float", v)
		}
		f, ok := td.Float(th, v)
		if !ok {
			return wrongType(methodName, argName, "float", v)
		}
		*dest = f
		return nil
	}}
}

// intArg is the shared implementation behind every fixed-width integer
// letter. It does not range-check: spec §9 leaves the choice open and
// DESIGN.md records that out-of-range values silently truncate, matching
// the described source behaviour.
func intArg(expected string, write func(raw int64)) *Binding {
	return &Binding{decode: func(th value.Thread, methodName, argName string, v value.Value) *vmerr.Error {
		if v.Kind() != value.KindInteger {
			return wrongType(methodName, argName, expected, v)
		}
		write(v.AsInt())
		return nil
	}}
}

// Int8Arg binds format letter 'b'.
func Int8Arg(dest *int8) *Binding {
	return intArg("int", func(raw int64) { *dest = int8(raw) })
}

// Int16Arg binds format letter 'h'.
func Int16Arg(dest *int16) *Binding {
	return intArg("int", func(raw int64) { *dest = int16(raw) })
}

// UInt16Arg binds format letter 'H'.
func UInt16Arg(dest *uint16) *Binding {
	return intArg("int", func(raw int64) { *dest = uint16(raw) })
}

// Int32Arg binds format letter 'i'.
func Int32Arg(dest *int32) *Binding {
	return intArg("int", func(raw int64) { *dest = int32(raw) })
}

// UInt32Arg binds format letter 'I'.
func UInt32Arg(dest *uint32) *Binding {
	return intArg("int", func(raw int64) { *dest = uint32(raw) })
}

// Int64Arg binds format letter 'l' ("long").
func Int64Arg(dest *int64) *Binding {
	return intArg("int", func(raw int64) { *dest = raw })
}

// ULongArg binds format letter 'k' ("unsigned long").
func ULongArg(dest *uint64) *Binding {
	return intArg("int", func(raw int64) { *dest = uint64(raw) })
}

// LongLongArg binds format letter 'L' ("long long").
func LongLongArg(dest *int64) *Binding {
	return intArg("int", func(raw int64) { *dest = raw })
}

// ULongLongArg binds format letter 'K' ("unsigned long long").
func ULongLongArg(dest *uint64) *Binding {
	return intArg("int", func(raw int64) { *dest = uint64(raw) })
}

// SizeArg binds format letter 'n' (signed size type).
func SizeArg(dest *int64) *Binding {
	return intArg("int", func(raw int64) { *dest = raw })
}

// USizeArg binds format letter 'N' (unsigned size type).
func USizeArg(dest *uint64) *Binding {
	return intArg("int", func(raw int64) { *dest = uint64(raw) })
}

// StarArg binds the '*' directive: captures the remaining positionals as
// (count, items) and forces optional mode for the rest of the format
// string (spec §4.5).
func StarArg(count *int, items *[]value.Value) *Binding {
	return &Binding{varArgs: &varArgsDest{count: count, items: items}}
}
