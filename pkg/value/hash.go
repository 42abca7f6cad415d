// hash.go implements spec §3.1/§4.1/§4.3: a uniform hash(value) -> uint32
// dispatching on kind, delegating to a general object's type-supplied hash
// method. It also defines TypeDescriptor, the vtable spec §9 asks for
// ("model it as a vtable-like value, not via inheritance"), and Thread, the
// narrow collaborator contract spec §1 requires of the VM ("a current-thread
// exception slot, a value stack").
//
// © 2025 glimmer authors. MIT License.
package value

import "github.com/glimmer-lang/corevm/pkg/vmerr"

// Thread is the collaborator surface the core requires (spec §1, §5): a
// value stack (so a hash/equals/float-coerce method that re-enters the
// interpreter has somewhere to push its argument) and a current-thread
// exception slot. pkg/vmthread provides the concrete implementation; this
// package only depends on the interface, not the implementation, to avoid
// an import cycle (vmthread's stack holds Values).
type Thread interface {
	Push(Value)
	Pop() Value
	RaiseError(*vmerr.Error)
}

// TypeDescriptor is the capability vtable attached to every type, immediate
// or heap. Hash/Equals/IsFalsy/Float are nil for types that do not support
// the capability (e.g. Hash is nil for an unhashable object type).
type TypeDescriptor struct {
	Name string

	// Hash computes a value's hash. For heap objects this may re-enter the
	// interpreter (native method call); ok=false signals "no hash method"
	// and causes HeaderHash/Hash to raise TypeError.
	Hash func(th Thread, v Value) (h uint32, ok bool)

	// Equals compares two values of this type. Only ever called when both
	// operands share this descriptor.
	Equals func(a, b Value) bool

	// IsFalsy reports user-defined truthiness. Nil means "never falsy".
	IsFalsy func(v Value) bool

	// Float coerces a value to float64 for the argument parser's 'f'/'d'
	// directives (spec §4.5: "non-floats are coerced by invoking the type's
	// float-conversion method").
	Float func(th Thread, v Value) (f float64, ok bool)

	// Trace visits every Value a heap object of this type directly holds
	// (e.g. a dict's entries, a list's items). Nil for types with no Value
	// children (strings, classes). Used by pkg/heap's mark phase — not named
	// in spec.md, which treats the collector as an external component (spec
	// §5), but required for that component to be anything but a stub.
	Trace func(v Value, visit func(Value))
}

var (
	noneType    = TypeDescriptor{Name: "NoneType"}
	boolType    = TypeDescriptor{Name: "bool"}
	intType     = TypeDescriptor{
		Name:  "int",
		Float: func(_ Thread, v Value) (float64, bool) { return float64(v.AsInt()), true },
	}
	floatType = TypeDescriptor{
		Name:  "float",
		Float: func(_ Thread, v Value) (float64, bool) { return v.AsFloat(), true },
	}
	handlerType = TypeDescriptor{Name: "handler"}
	kwargsType  = TypeDescriptor{Name: "kwargs"}
)

func unhashable(td *TypeDescriptor) *vmerr.Error {
	name := "object"
	if td != nil {
		name = td.Name
	}
	return vmerr.New(vmerr.TypeError, "unhashable type: '%s'", name)
}

// Hash implements spec §4.1/§4.3. Hashing of Boolean/Integer/None/Handler/
// Kwargs reinterprets the payload as uint32; Floating truncates the numeric
// value through int64 to uint32, so an integral Floating within int64 range
// hashes like the Integer of the same value and 2.5 hashes like 2 (Equals
// never treats the two kinds as equal, see DESIGN.md); Object dispatches to
// HeaderHash.
func Hash(th Thread, v Value) (uint32, *vmerr.Error) {
	switch v.kind {
	case KindNone, KindBoolean, KindInteger, KindHandler, KindKwargs:
		return uint32(v.bitsRaw()), nil
	case KindFloating:
		return uint32(int64(v.AsFloat())), nil
	case KindObject:
		o, ok := v.AsObject()
		if !ok || o == nil {
			return 0, unhashable(nil)
		}
		return HeaderHash(th, o)
	default:
		return 0, unhashable(nil)
	}
}
