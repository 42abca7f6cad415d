// Package argparse implements the native argument parser spec §4.5
// describes: a format-string grammar drives marshalling of a native call's
// positional and keyword arguments into typed Go destinations, with the
// same reference-retention discipline spec §9 requires ("values pulled out
// of a keyword dict and not otherwise rooted must be retained for the
// duration of the call").
//
// Grounded on the teacher's loader/loaderfunc split (pkg/loader.go,
// pkg/loaderfunc.go): a small declarative driver walking a format
// description and invoking per-kind callbacks, the same shape this package's
// Parse gives the per-directive Binding.decode closures.
//
// © 2025 glimmer authors. MIT License.
package argparse

import (
	"strings"

	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
)

// Parse implements spec §4.5's parse(...): it walks format left to right,
// consuming one Binding per type-letter directive (in lockstep with names),
// pulling positional arguments from args and falling back to kwargs by name.
// kwargs and retain may be nil when the native method declared no '~'/kwargs
// support; names and bindings must have one entry per type-letter directive
// plus one for a trailing '*' directive, if present.
//
// On success it returns true. On failure it raises into th and returns
// false — callers should treat a false return as "an exception is already
// pending", never inspect a return value for the failure reason.
func Parse(th value.Thread, methodName string, args []value.Value, kwargs *objects.Dict, retain *objects.List, format string, names []string, bindings []*Binding) bool {
	p := &parser{
		th:         th,
		methodName: methodName,
		args:       args,
		kwargs:     kwargs,
		retain:     retain,
		names:      names,
		bindings:   bindings,
	}
	if err := p.run(format); err != nil {
		th.RaiseError(err)
		return false
	}
	return true
}

type parser struct {
	th         value.Thread
	methodName string
	args       []value.Value
	kwargs     *objects.Dict
	retain     *objects.List
	names      []string
	bindings   []*Binding

	iarg     int // cursor into args
	slot     int // cursor into names/bindings
	optional bool
	starSeen bool
	// noMorePositionals records the '$' directive: every directive from
	// here on must be satisfied by keyword, never by a positional arg
	// (spec §4.5).
	noMorePositionals bool
	// tildeSeen records the '~' directive: leftover keyword arguments are
	// tolerated rather than raising (spec §4.5).
	tildeSeen   bool
	declared    int // count of fixed (non-'*') positional directives
	selfSkipped int // 1 if a leading '.' consumed self out of args, else 0
}

func isModifier(c byte) bool { return c == '?' || c == '!' || c == '#' }

func (p *parser) run(format string) *vmerr.Error {
	pos := 0
	if pos < len(format) && format[pos] == '.' {
		p.iarg = 1
		p.selfSkipped = 1
		pos++
	}
	for pos < len(format) {
		c := format[pos]
		switch c {
		case ':':
			p.methodName = format[pos+1:]
			pos = len(format)
		case '|':
			p.optional = true
			pos++
		case '$':
			p.noMorePositionals = true
			pos++
		case '~':
			p.tildeSeen = true
			pos++
		case '*':
			p.captureStar()
			pos++
		default:
			next, err := p.directive(format, pos)
			if err != nil {
				return err
			}
			pos = next
		}
	}
	return p.postChecks()
}

// captureStar implements the '*' directive: slurp every remaining positional
// into the next Binding's (count, items) pair and switch to optional mode
// for whatever follows (spec §4.5).
func (p *parser) captureStar() {
	b := p.bindings[p.slot]
	p.slot++
	rest := p.args[p.iarg:]
	if b.varArgs != nil {
		*b.varArgs.count = len(rest)
		*b.varArgs.items = rest
	}
	p.iarg = len(p.args)
	p.optional = true
	p.starSeen = true
}

// directive implements one type-letter directive plus its trailing
// modifiers, per spec §4.5's per-argument algorithm.
func (p *parser) directive(format string, pos int) (int, *vmerr.Error) {
	if !strings.ContainsRune("OVzsbhHiIlkLKnNCfdp", rune(format[pos])) {
		return pos, vmerr.New(vmerr.TypeError, "%s() unknown format directive '%c'", p.methodName, format[pos])
	}
	pos++ // consume the letter itself; we don't need it, the Binding does the decoding
	hasPresence, hasBang := false, false
	for pos < len(format) && isModifier(format[pos]) {
		switch format[pos] {
		case '?':
			hasPresence = true
		case '!':
			hasBang = true
		}
		// '#' (extra length output) is carried structurally via
		// Binding.WithLength rather than parsed here.
		pos++
	}

	name := p.names[p.slot]
	bind := p.bindings[p.slot]
	p.slot++
	p.declared++

	arg, err := p.fetch(name)
	if err != nil {
		return pos, err
	}
	present := !arg.IsKwargsEmpty()

	if hasPresence && bind.presence != nil {
		*bind.presence = present
	}
	if hasBang && present {
		if bind.instanceOf == nil {
			panic("argparse: '!' modifier requires Binding.WithInstanceOf")
		}
		if !objects.IsInstanceOf(arg, bind.instanceOf) {
			return pos, wrongType(p.methodName, name, bind.instanceOf.Name, arg)
		}
	}
	if !present {
		return pos, nil
	}
	if err := bind.decode(p.th, p.methodName, name, arg); err != nil {
		return pos, err
	}
	return pos, nil
}

// fetch implements spec §4.5's source selection: positional first, then a
// keyword lookup (with reference retention), then — if still missing —
// either the Kwargs(0) absent-marker (optional mode) or a missing-argument
// TypeError.
func (p *parser) fetch(name string) (value.Value, *vmerr.Error) {
	if !p.noMorePositionals && p.iarg < len(p.args) {
		v := p.args[p.iarg]
		p.iarg++
		return v, nil
	}
	if p.kwargs != nil {
		key := objects.NewString(name).Value()
		if v, ok, err := p.kwargs.Table().Get(p.th, key); err == nil && ok {
			if p.retain != nil {
				p.retain.Append(v)
			}
			p.kwargs.Table().Delete(p.th, key)
			return v, nil
		}
	}
	if p.optional {
		return value.KwargsEmpty, nil
	}
	return value.Value{}, missingArg(p.methodName, name)
}

// postChecks implements spec §4.5's post-loop checks: leftover positionals
// are an arity ArgumentError; leftover kwargs (absent '~') are a TypeError
// naming the first offending key.
func (p *parser) postChecks() *vmerr.Error {
	if p.iarg < len(p.args) {
		adjective := "exactly"
		if p.optional {
			adjective = "at most"
		}
		return arityError(p.methodName, adjective, p.declared, len(p.args)-p.selfSkipped)
	}
	if p.kwargs != nil && p.kwargs.Len() > 0 && !p.tildeSeen {
		return p.leftoverKwargError()
	}
	return nil
}

func (p *parser) leftoverKwargError() *vmerr.Error {
	var bad *vmerr.Error
	p.kwargs.Table().Iterate(func(k, v value.Value) bool {
		o, ok := k.AsObject()
		s, isStr := o.(*objects.String)
		keyName := "?"
		if ok && isStr {
			keyName = s.String()
		}
		if declaredName(p.names, keyName) {
			bad = duplicateArg(p.methodName, keyName)
		} else {
			bad = unexpectedKwarg(p.methodName, keyName)
		}
		return false // one error is enough
	})
	return bad
}

func declaredName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
