// class.go provides a minimal Class/Instance pair: enough for the argument
// parser's '!' modifier ("read a class pointer from varargs and enforce
// instance-of", spec §4.5) and for type_of(instance) to return a class's own
// descriptor (spec §4.1: "for objects it is the descriptor stored with the
// object, an attribute of the object's class").
//
// © 2025 glimmer authors. MIT License.
package objects

import "github.com/glimmer-lang/corevm/pkg/value"

// Class is a minimal class object: a name and the TypeDescriptor instances
// of this class will carry in their header.
type Class struct {
	header value.Header
	Name   string
	// InstanceType is installed as the header.Type of every Instance created
	// via New. Native bindings populate Hash/Equals/IsFalsy as needed.
	InstanceType *value.TypeDescriptor
}

var classType = value.TypeDescriptor{Name: "type"}

// NewClass constructs a class with its own instance-type descriptor.
func NewClass(name string) *Class {
	c := &Class{Name: name}
	c.header = value.NewHeader(value.ObjClass, &classType)
	c.InstanceType = &value.TypeDescriptor{Name: name}
	return c
}

func (c *Class) Header() *value.Header { return &c.header }

// Value wraps c as a value.Value.
func (c *Class) Value() value.Value { return value.Object(c) }

// New constructs an Instance of this class carrying the given payload.
func (c *Class) New(payload any) *Instance {
	return &Instance{
		header:  value.NewHeader(value.ObjInstance, c.InstanceType),
		Class:   c,
		Payload: payload,
	}
}

// Instance is a bare instance of a Class, carrying an opaque native payload.
// Real bytecode-backed instances would carry a field table instead; the core
// only needs something IsInstanceOf and the hash/equals dispatch can see.
type Instance struct {
	header  value.Header
	Class   *Class
	Payload any
}

func (i *Instance) Header() *value.Header { return &i.header }

// Value wraps i as a value.Value.
func (i *Instance) Value() value.Value { return value.Object(i) }

// IsInstanceOf reports whether v is an Instance whose class is exactly c.
// Used by pkg/argparse's '!' modifier.
func IsInstanceOf(v value.Value, c *Class) bool {
	o, ok := v.AsObject()
	if !ok {
		return false
	}
	inst, ok := o.(*Instance)
	if !ok {
		return false
	}
	return inst.Class == c
}
