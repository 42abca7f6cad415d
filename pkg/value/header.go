// header.go implements the heap-object header every Heaper begins with
// (spec §3.2/§4.2): a kind tag, a flags bitfield with one public bit
// (FlagValidHash), a cached hash, and GC-private bits the collector alone
// mutates.
//
// We keep Header and its vtable (TypeDescriptor) in this package rather than
// a separate one: spec §9 asks for the vtable to be "a vtable-like value,
// not inheritance", and TypeDescriptor.Hash/Equals/IsFalsy must operate on
// Value, so splitting Header into its own package would just reintroduce the
// same import edge under a different name.
//
// © 2025 glimmer authors. MIT License.
package value

import "github.com/glimmer-lang/corevm/pkg/vmerr"

// ObjKind distinguishes heap object kinds (strings, instances, closures,
// dicts, lists, classes, …). Distinct from Kind, which only ever reads
// KindObject for anything living on the heap.
type ObjKind uint8

const (
	ObjString ObjKind = iota
	ObjDict
	ObjList
	ObjTuple
	ObjClass
	ObjInstance
	ObjClosure
	ObjBoundMethod
	ObjNative
	ObjModule
)

// Flags is the header's bitfield. Only FlagValidHash is part of the public
// contract; any other bit is reserved for future use by the core.
type Flags uint8

const (
	// FlagValidHash indicates Header.hash is authoritative.
	FlagValidHash Flags = 1 << iota
)

// Header is embedded (by value, as the first field) in every heap object.
// GC-private bits (gcMark, gcNext) are exported only through the narrow
// accessor methods pkg/heap needs; the rest of the core treats them as
// opaque, per spec §3.2.
type Header struct {
	Type  *TypeDescriptor
	Obj   ObjKind
	flags Flags
	hash  uint32

	gcMark uint8
	gcNext Heaper
}

// NewHeader constructs a zeroed header for a freshly allocated object of the
// given kind and type descriptor. Allocators call this before threading the
// object into the GC's heap (spec §3.2 "Lifecycle").
func NewHeader(kind ObjKind, td *TypeDescriptor) Header {
	return Header{Type: td, Obj: kind}
}

// HasValidHash reports whether the cached hash is authoritative.
func (h *Header) HasValidHash() bool { return h.flags&FlagValidHash != 0 }

// CachedHash returns the cached hash. Only meaningful when HasValidHash.
func (h *Header) CachedHash() uint32 { return h.hash }

// MarkHash sets hash and the valid-hash flag. Intended for constructors of
// inherently hashable objects (interned strings, frozen tuples) per spec
// §4.2's mark_hash.
func (h *Header) MarkHash(hash uint32) {
	h.hash = hash
	h.flags |= FlagValidHash
}

// HeaderHash implements spec §4.2's header_hash: if the cached hash is
// valid, return it; otherwise invoke the type's hash method, cache the
// result, set the flag, and return it. th is threaded through because a
// general object's hash method may re-enter the interpreter (spec §9
// "Re-entrancy during hashing").
func HeaderHash(th Thread, o Heaper) (uint32, *vmerr.Error) {
	h := o.Header()
	if h.HasValidHash() {
		return h.hash, nil
	}
	if h.Type == nil || h.Type.Hash == nil {
		return 0, unhashable(h.Type)
	}
	hv, ok := h.Type.Hash(th, Object(o))
	if !ok {
		return 0, unhashable(h.Type)
	}
	h.MarkHash(hv)
	return hv, nil
}

// GCNext/SetGCNext and GCMark/SetGCMark are the only header fields pkg/heap
// is allowed to touch; every other package must treat them as opaque (spec
// §3.2 "GC-private bits … opaque to the core").
func (h *Header) GCNext() Heaper       { return h.gcNext }
func (h *Header) SetGCNext(n Heaper)   { h.gcNext = n }
func (h *Header) GCMark() uint8        { return h.gcMark }
func (h *Header) SetGCMark(mark uint8) { h.gcMark = mark }
