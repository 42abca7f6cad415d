// Package modtime is the "time" native module spec §6 names as a consumer
// of the argument parser: strftime/strptime/time/sleep, the format "s|O!"
// spec.md's own literal example names, plus the 'f' directive the other
// three native modules don't exercise.
//
// The format-string -> Go reference-time layout translation is memoized per
// distinct format via singleflight, directly grounded on the teacher's
// pkg/loader.go loaderGroup: concurrent native calls compiling the same
// rarely-changing format string collapse onto one compile instead of racing
// redundant work.
//
// © 2025 glimmer authors. MIT License.
package modtime

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/glimmer-lang/corevm/pkg/argparse"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
	"github.com/glimmer-lang/corevm/pkg/vmerr"
	"github.com/glimmer-lang/corevm/pkg/vmthread"
)

// TupleClass is the class every struct_time-like value this module produces
// or consumes belongs to; the 'O!' directive enforces membership in it.
var TupleClass = objects.NewClass("struct_time")

// tuple is the Payload a TupleClass Instance carries: the broken-down
// fields the strftime/strptime tuple protocol exposes.
type tuple struct {
	year, month, day, hour, min, sec int
}

func newTupleValue(t time.Time) value.Value {
	return TupleClass.New(&tuple{
		year: t.Year(), month: int(t.Month()), day: t.Day(),
		hour: t.Hour(), min: t.Minute(), sec: t.Second(),
	}).Value()
}

func tupleOf(o value.Heaper) (*tuple, bool) {
	inst, ok := o.(*objects.Instance)
	if !ok || inst.Class != TupleClass {
		return nil, false
	}
	tp, ok := inst.Payload.(*tuple)
	return tp, ok
}

func (t *tuple) asTime() time.Time {
	return time.Date(t.year, time.Month(t.month), t.day, t.hour, t.min, t.sec, 0, time.UTC)
}

// layoutCache memoizes the %-directive format -> Go reference-time layout
// translation per distinct format string.
type layoutCache struct {
	g     singleflight.Group
	mu    sync.RWMutex
	table map[string]string
}

func newLayoutCache() *layoutCache {
	return &layoutCache{table: make(map[string]string)}
}

func (lc *layoutCache) compile(format string) string {
	lc.mu.RLock()
	layout, ok := lc.table[format]
	lc.mu.RUnlock()
	if ok {
		return layout
	}

	v, _, _ := lc.g.Do(format, func() (any, error) {
		layout := translateFormat(format)
		lc.mu.Lock()
		lc.table[format] = layout
		lc.mu.Unlock()
		return layout, nil
	})
	return v.(string)
}

var directives = map[byte]string{
	'Y': "2006", 'y': "06", 'm': "01", 'd': "02",
	'H': "15", 'M': "04", 'S': "05", 'p': "PM",
	'Z': "MST", 'z': "-0700",
}

// translateFormat rewrites a strftime-style format ("%Y-%m-%d") into a Go
// reference-time layout. Directives this table doesn't know pass through
// literally, including the '%' itself.
func translateFormat(format string) string {
	out := make([]byte, 0, len(format))
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			if layout, ok := directives[format[i+1]]; ok {
				out = append(out, layout...)
				i++
				continue
			}
		}
		out = append(out, format[i])
	}
	return string(out)
}

// Module bundles the native functions against one shared layout cache.
type Module struct {
	layouts *layoutCache
}

func New() *Module {
	return &Module{layouts: newLayoutCache()}
}

// Strftime implements strftime(format, t=None): format t (or the current
// time, if t is omitted) per format. An explicit None for t fails the 'O!'
// instance check and raises TypeError. Format is "s|O!" (spec §6's own
// literal example, names ["format", "t"]).
func (m *Module) Strftime(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var format *objects.String
	var tupleObj value.Heaper
	ok := argparse.NewBuilder(false).
		Arg('s', "format", argparse.StringArg(&format)).
		Optional().
		Arg('O', "t", argparse.ObjectArg(&tupleObj).WithInstanceOf(TupleClass), '!').
		Parse(th, "strftime", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}

	when := time.Now().UTC()
	if tupleObj != nil {
		tp, valid := tupleOf(tupleObj)
		if !valid {
			th.RaiseError(vmerr.New(vmerr.TypeError, "strftime() argument t expects struct_time, not '%s'", tupleObj.Header().Type.Name))
			return value.None, false
		}
		when = tp.asTime()
	}

	layout := m.layouts.compile(format.String())
	result := objects.NewString(when.Format(layout))
	v.Heap().Alloc(result)
	return result.Value(), true
}

// Strptime implements strptime(s, format): parse s against format, returning
// a struct_time. Format is "ss".
func (m *Module) Strptime(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var s, format *objects.String
	ok := argparse.NewBuilder(false).
		Arg('s', "string", argparse.StringArg(&s)).
		Arg('s', "format", argparse.StringArg(&format)).
		Parse(th, "strptime", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}

	layout := m.layouts.compile(format.String())
	t, err := time.Parse(layout, s.String())
	if err != nil {
		th.RaiseError(vmerr.New(vmerr.ValueError, "strptime() data '%s' does not match format '%s'", s.String(), format.String()))
		return value.None, false
	}

	result := newTupleValue(t)
	if o, ok := result.AsObject(); ok {
		v.Heap().Alloc(o)
	}
	return result, true
}

// Time implements time(): seconds since the Unix epoch as a float. Format is
// "" (no arguments).
func (m *Module) Time(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	ok := argparse.Parse(th, "time", args, kwargs, nil, "", nil, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}
	now := time.Now()
	return value.Floating(float64(now.UnixNano()) / 1e9), true
}

// Sleep implements sleep(seconds): blocks the calling goroutine for the
// given duration. Format is "f" (coerces ints via the float-conversion
// vtable entry, same as any other float argument).
func (m *Module) Sleep(v *vm.VM, th *vmthread.Thread, args []value.Value, kwargs *objects.Dict) (value.Value, bool) {
	var seconds float64
	ok := argparse.NewBuilder(false).
		Arg('f', "seconds", argparse.FloatArg(&seconds)).
		Parse(th, "sleep", args, kwargs, nil)
	if !ok {
		v.NoteParseFailure()
		return value.None, false
	}
	if seconds < 0 {
		th.RaiseError(vmerr.New(vmerr.ValueError, "sleep() argument seconds must be non-negative"))
		return value.None, false
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return value.None, true
}
