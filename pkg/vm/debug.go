// debug.go adapts the teacher's examples/basic/main.go debug endpoints
// (`/debug/arena-cache/snapshot`, `/metrics`) into a reusable registration
// helper: any binary embedding a VM can call RegisterDebugHandlers once
// instead of hand-rolling the same routes; cmd/corevm-inspect and
// cmd/corevm-snapshot-store read them over HTTP.
//
// © 2025 glimmer authors. MIT License.
package vm

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterDebugHandlers mounts the diagnostic surface cmd/corevm-inspect
// fans out against: /debug/corevm/snapshot (a combined JSON heap/intern
// summary), /debug/corevm/heap (object count and completed collection
// cycles), /debug/corevm/table/intern (the intern table's capacity/count/
// load factor), /debug/corevm/gc (pause state), and, if metrics were
// enabled via WithMetrics, /metrics (Prometheus exposition format).
func (vm *VM) RegisterDebugHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/debug/corevm/snapshot", func(w http.ResponseWriter, r *http.Request) {
		snap := map[string]any{
			"heap_objects":     vm.heap.Count(),
			"interned_strings": vm.intern.Len(),
		}
		writeJSON(w, snap)
	})

	mux.HandleFunc("/debug/corevm/heap", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"objects":     vm.heap.Count(),
			"collections": vm.heap.Collections(),
		})
	})

	mux.HandleFunc("/debug/corevm/gc", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"paused": vm.heap.Paused(),
		})
	})

	mux.HandleFunc("/debug/corevm/table/intern", func(w http.ResponseWriter, r *http.Request) {
		capacity, count, loadFactor := vm.intern.Stats()
		writeJSON(w, map[string]any{
			"capacity":    capacity,
			"count":       count,
			"load_factor": loadFactor,
		})
	})

	if vm.cfg.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(vm.cfg.registry, promhttp.HandlerOpts{}))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
