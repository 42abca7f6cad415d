// dict.go wraps pkg/table.Table as a heap object: the kwargs carrier spec
// §4.5 assumes ("argv[argc] is a dict"). Dict values are unhashable by
// default (no Hash capability on dictType), matching ordinary dynamic-
// language semantics.
//
// © 2025 glimmer authors. MIT License.
package objects

import (
	"github.com/glimmer-lang/corevm/pkg/table"
	"github.com/glimmer-lang/corevm/pkg/value"
)

type Dict struct {
	header value.Header
	table  *table.Table
}

var dictType = value.TypeDescriptor{
	Name: "dict",
	IsFalsy: func(v value.Value) bool {
		o, _ := v.AsObject()
		return o.(*Dict).table.Len() == 0
	},
	Trace: func(v value.Value, visit func(value.Value)) {
		o, _ := v.AsObject()
		o.(*Dict).table.Iterate(func(k, val value.Value) bool {
			visit(k)
			visit(val)
			return true
		})
	},
}

// NewDict constructs an empty dict.
func NewDict() *Dict {
	return &Dict{
		header: value.NewHeader(value.ObjDict, &dictType),
		table:  table.New(),
	}
}

func (d *Dict) Header() *value.Header { return &d.header }

// Table exposes the backing table for natives and the argument parser that
// need direct Get/Delete/Iterate access to kwargs.
func (d *Dict) Table() *table.Table { return d.table }

// Value wraps d as a value.Value.
func (d *Dict) Value() value.Value { return value.Object(d) }

// Len reports the number of live entries.
func (d *Dict) Len() int { return d.table.Len() }
