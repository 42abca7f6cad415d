// Package objects provides the concrete heap object kinds the core's
// collaborators need to exercise pkg/value, pkg/table and pkg/argparse end
// to end: strings (with the intern-ready header contract spec §3.4
// requires), dicts (the kwargs carrier spec §4.5 assumes), lists (the
// reference-retention list and *-capture carrier), and a minimal class/
// instance pair so "O!" instance-of checks and "unhashable object" have
// something real to point at.
//
// None of this is the bytecode compiler or execution loop spec §1 scopes
// out — it is the thin object layer those collaborators would hand the core,
// grounded on the teacher's entry/shard split (metadata struct + behaviour
// methods in the same package, spec_full §4).
//
// © 2025 glimmer authors. MIT License.
package objects

import (
	"hash/fnv"

	"github.com/glimmer-lang/corevm/pkg/value"
)

// String is a heap string: a byte buffer plus a cached codepoint length, per
// spec §3.4. Interned strings are constructed with VALID_HASH set at
// construction (spec "Cached hashes on heap objects").
type String struct {
	header value.Header
	bytes  []byte
	runes  int // codepoint length, for UTF-8-aware native bindings
}

var stringType = value.TypeDescriptor{
	Name: "str",
	Hash: func(th value.Thread, v value.Value) (uint32, bool) {
		o, _ := v.AsObject()
		s := o.(*String)
		return fnvHash(s.bytes), true
	},
	Equals: func(a, b value.Value) bool {
		ao, _ := a.AsObject()
		bo, _ := b.AsObject()
		sa, sb := ao.(*String), bo.(*String)
		if len(sa.bytes) != len(sb.bytes) {
			return false
		}
		for i := range sa.bytes {
			if sa.bytes[i] != sb.bytes[i] {
				return false
			}
		}
		return true
	},
	IsFalsy: func(v value.Value) bool {
		o, _ := v.AsObject()
		return len(o.(*String).bytes) == 0
	},
}

func fnvHash(b []byte) uint32 {
	h := fnv.New32a()
	h.Write(b)
	return h.Sum32()
}

// NewString constructs an interned-ready string with its hash already
// computed and VALID_HASH set, per spec §3.4/§9: "Strings are constructed
// with hash pre-computed and VALID_HASH set".
func NewString(s string) *String {
	str := &String{
		header: value.NewHeader(value.ObjString, &stringType),
		bytes:  []byte(s),
		runes:  countRunes(s),
	}
	str.header.MarkHash(fnvHash(str.bytes))
	return str
}

func countRunes(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// Header implements value.Heaper.
func (s *String) Header() *value.Header { return &s.header }

// StringBytes implements table.StringKeyer.
func (s *String) StringBytes() []byte { return s.bytes }

// String returns the Go string view (read-only per spec §3.4).
func (s *String) String() string { return string(s.bytes) }

// Len returns the byte length.
func (s *String) Len() int { return len(s.bytes) }

// RuneLen returns the codepoint length.
func (s *String) RuneLen() int { return s.runes }

// Value wraps s as a value.Value.
func (s *String) Value() value.Value { return value.Object(s) }
