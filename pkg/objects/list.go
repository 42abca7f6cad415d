// list.go wraps a plain Go slice as a heap object. Lists serve two roles in
// the core: the argument parser's reference-retention list (spec §4.5,
// §9 "Reference retention during parsing") and the '*' directive's captured
// positional tail (spec §4.5).
//
// © 2025 glimmer authors. MIT License.
package objects

import "github.com/glimmer-lang/corevm/pkg/value"

type List struct {
	header value.Header
	items  []value.Value
}

var listType = value.TypeDescriptor{
	Name: "list",
	IsFalsy: func(v value.Value) bool {
		o, _ := v.AsObject()
		return len(o.(*List).items) == 0
	},
	Trace: func(v value.Value, visit func(value.Value)) {
		o, _ := v.AsObject()
		for _, item := range o.(*List).items {
			visit(item)
		}
	},
}

// NewList constructs an empty list with the given capacity hint.
func NewList(capHint int) *List {
	return &List{
		header: value.NewHeader(value.ObjList, &listType),
		items:  make([]value.Value, 0, capHint),
	}
}

func (l *List) Header() *value.Header { return &l.header }

// Append adds v to the end of the list. Used by the argument parser to
// retain kwargs-extracted values for the duration of a native call.
func (l *List) Append(v value.Value) { l.items = append(l.items, v) }

// Items returns the backing slice read-only.
func (l *List) Items() []value.Value { return l.items }

// Len reports the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns the i'th item.
func (l *List) At(i int) value.Value { return l.items[i] }

// Value wraps l as a value.Value.
func (l *List) Value() value.Value { return value.Object(l) }
