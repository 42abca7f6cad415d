package modtime_test

import (
	"strings"
	"testing"
	"time"

	"github.com/glimmer-lang/corevm/pkg/natives/modtime"
	"github.com/glimmer-lang/corevm/pkg/objects"
	"github.com/glimmer-lang/corevm/pkg/value"
	"github.com/glimmer-lang/corevm/pkg/vm"
)

func str(v *vm.VM, s string) *objects.String {
	o := objects.NewString(s)
	v.Heap().Alloc(o)
	return o
}

func TestStrftimeWithOmittedTupleUsesNow(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	args := []value.Value{str(v, "%Y").Value()}
	result, ok := m.Strftime(v, th, args, nil)
	if !ok {
		t.Fatalf("strftime() raised: %v", th.Exception())
	}
	o, _ := result.AsObject()
	got := o.(*objects.String).String()
	want := time.Now().UTC().Format("2006")
	if got != want {
		t.Fatalf("strftime(%%Y) = %q, want %q", got, want)
	}
}

func TestStrptimeThenStrftimeRoundTrips(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	parseArgs := []value.Value{str(v, "2024-03-05").Value(), str(v, "%Y-%m-%d").Value()}
	tupleVal, ok := m.Strptime(v, th, parseArgs, nil)
	if !ok {
		t.Fatalf("strptime() raised: %v", th.Exception())
	}

	formatArgs := []value.Value{str(v, "%Y-%m-%d").Value(), tupleVal}
	out, ok := m.Strftime(v, th, formatArgs, nil)
	if !ok {
		t.Fatalf("strftime() raised: %v", th.Exception())
	}
	o, _ := out.AsObject()
	if got := o.(*objects.String).String(); got != "2024-03-05" {
		t.Fatalf("round trip = %q, want %q", got, "2024-03-05")
	}
}

func TestStrftimeRejectsWrongInstanceClass(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	notATuple := objects.NewList(0)
	v.Heap().Alloc(notATuple)

	args := []value.Value{str(v, "%Y").Value(), notATuple.Value()}
	_, ok := m.Strftime(v, th, args, nil)
	if ok {
		t.Fatal("strftime() should reject a 't' that is not a struct_time")
	}
	if !strings.Contains(th.Exception().Error(), "TypeError") {
		t.Fatalf("expected TypeError, got %v", th.Exception())
	}
}

func TestStrptimeMismatchRaisesValueError(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	args := []value.Value{str(v, "not-a-date").Value(), str(v, "%Y-%m-%d").Value()}
	_, ok := m.Strptime(v, th, args, nil)
	if ok {
		t.Fatal("strptime() should fail on mismatched input")
	}
	if !strings.Contains(th.Exception().Error(), "ValueError") {
		t.Fatalf("expected ValueError, got %v", th.Exception())
	}
}

func TestTimeReturnsFloatingSecondsSinceEpoch(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	before := float64(time.Now().Unix())
	result, ok := m.Time(v, th, nil, nil)
	if !ok {
		t.Fatalf("time() raised: %v", th.Exception())
	}
	if result.Kind() != value.KindFloating {
		t.Fatalf("time() kind = %v, want Floating", result.Kind())
	}
	if result.AsFloat() < before-1 {
		t.Fatalf("time() = %v, looks stale", result.AsFloat())
	}
}

func TestSleepBlocksForApproximatelyTheRequestedDuration(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	start := time.Now()
	_, ok := m.Sleep(v, th, []value.Value{value.Floating(0.01)}, nil)
	if !ok {
		t.Fatalf("sleep() raised: %v", th.Exception())
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatal("sleep() returned suspiciously fast")
	}
}

func TestSleepRejectsNegativeDuration(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	_, ok := m.Sleep(v, th, []value.Value{value.Floating(-1)}, nil)
	if ok {
		t.Fatal("sleep() should reject a negative duration")
	}
}

func TestLayoutCacheIsConcurrencySafe(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	m := modtime.New()

	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			_, ok := m.Strftime(v, th, []value.Value{str(v, "%Y-%m-%d").Value()}, nil)
			done <- ok
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
