package vm_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glimmer-lang/corevm/pkg/vm"
)

func TestNewThreadRootsItsStack(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)

	d := v.NewDict()
	th.Push(d.Value())
	g := v.NewList(0) // garbage: never rooted

	if v.Heap().Count() != 2 {
		t.Fatalf("Count() = %d, want 2 before collection", v.Heap().Count())
	}
	if err := v.Collect(th); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v.Heap().Count() != 1 {
		t.Fatalf("Count() = %d, want 1 after collecting unrooted %v", v.Heap().Count(), g)
	}
}

func TestCollectFromNonMainThreadRaises(t *testing.T) {
	v := vm.New()
	th := v.NewThread(false)
	if err := v.Collect(th); err == nil {
		t.Fatal("Collect from a non-main thread should raise")
	}
}

func TestRegisterDebugHandlersExposesSnapshot(t *testing.T) {
	v := vm.New()
	v.NewThread(true)
	v.NewDict()

	mux := http.NewServeMux()
	v.RegisterDebugHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/debug/corevm/snapshot", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegisterDebugHandlersExposesHeapTableAndGC(t *testing.T) {
	v := vm.New()
	th := v.NewThread(true)
	v.Intern(th, "hello")

	mux := http.NewServeMux()
	v.RegisterDebugHandlers(mux)

	for _, path := range []string{"/debug/corevm/heap", "/debug/corevm/gc", "/debug/corevm/table/intern"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestRegisterDebugHandlersExposesMetricsOnlyWhenEnabled(t *testing.T) {
	v := vm.New(vm.WithMetrics(prometheus.NewRegistry()))
	mux := http.NewServeMux()
	v.RegisterDebugHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with metrics enabled", rec.Code)
	}
}
