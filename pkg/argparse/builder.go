// builder.go provides Builder, the incremental-construction sugar promised
// for native bindings that assemble their format string and binding list
// across several lines instead of one literal call (SPEC_FULL §4
// "Supplemented features"). It is pure convenience over Parse: every method
// just appends to the same (format, names, bindings) triple Parse consumes.
//
// © 2025 glimmer authors. MIT License.
package argparse

import (
	"strings"

	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
)

// Builder accumulates a format string, an argument-name list, and a binding
// list, then hands them to Parse.
type Builder struct {
	format   strings.Builder
	names    []string
	bindings []*Binding
}

// NewBuilder starts a builder for one parse call. skipSelf mirrors
// the leading '.' directive (spec §4.5): set it when args[0] is an implicit
// receiver the caller should not see as a declared argument.
func NewBuilder(skipSelf bool) *Builder {
	b := &Builder{}
	if skipSelf {
		b.format.WriteByte('.')
	}
	return b
}

// Optional emits '|': every directive added after this call is optional.
func (b *Builder) Optional() *Builder {
	b.format.WriteByte('|')
	return b
}

// KeywordOnly emits '$': forbids supplying the remaining directives
// positionally.
func (b *Builder) KeywordOnly() *Builder {
	b.format.WriteByte('$')
	return b
}

// AllowExtraKwargs emits '~': leftover keyword arguments are tolerated.
func (b *Builder) AllowExtraKwargs() *Builder {
	b.format.WriteByte('~')
	return b
}

// Arg appends one type-letter directive with optional '?'/'!' modifiers.
func (b *Builder) Arg(letter byte, name string, bind *Binding, modifiers ...byte) *Builder {
	b.format.WriteByte(letter)
	for _, m := range modifiers {
		b.format.WriteByte(m)
	}
	b.names = append(b.names, name)
	b.bindings = append(b.bindings, bind)
	return b
}

// Star appends the '*' directive, capturing remaining positionals.
func (b *Builder) Star(name string, count *int, items *[]value.Value) *Builder {
	b.format.WriteByte('*')
	b.names = append(b.names, name)
	b.bindings = append(b.bindings, StarArg(count, items))
	return b
}

// Name overrides the method name reported in error messages (the ':NAME'
// directive), which must be the final thing appended.
func (b *Builder) Name(name string) *Builder {
	b.format.WriteByte(':')
	b.format.WriteString(name)
	return b
}

// Parse runs the accumulated format/names/bindings against args/kwargs,
// exactly like calling Parse directly.
func (b *Builder) Parse(th value.Thread, methodName string, args []value.Value, kwargs *objects.Dict, retain *objects.List) bool {
	return Parse(th, methodName, args, kwargs, retain, b.format.String(), b.names, b.bindings)
}
