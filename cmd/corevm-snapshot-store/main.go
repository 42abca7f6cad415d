package main

// corevm-snapshot-store archives successive /debug/corevm/snapshot JSON
// captures into an embedded Badger store, keyed by a capture sequence number
// that restarts at 1 with each process, so a developer can
// later diff heap/table growth across runs. It is a standalone companion
// tool around the runtime core, not part of it: the core's own Non-goals
// exclude persistence of Values, but archiving the diagnostic snapshots a
// running process exposes over HTTP is tooling, exactly as the teacher's
// disk_eject example is an application built around the cache rather than
// part of the cache itself.
//
// Run:
//   go run ./cmd/corevm-snapshot-store -db ./snapshots -listen :7070
// Then in another terminal:
//   curl -X POST "localhost:7070/capture?target=http://localhost:6060"
//   curl "localhost:7070/history?limit=10"
//
// © 2025 glimmer authors. MIT License.

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	badger "github.com/dgraph-io/badger/v4"
)

func main() {
	dbPath := flag.String("db", "./snapshots", "Badger database directory")
	listen := flag.String("listen", ":7070", "listen address")
	flag.Parse()

	bdb, err := badger.Open(badger.DefaultOptions(*dbPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("badger: %v", err)
	}
	defer bdb.Close()

	store := &snapshotStore{db: bdb}

	mux := http.NewServeMux()
	mux.HandleFunc("/capture", store.handleCapture)
	mux.HandleFunc("/history", store.handleHistory)

	log.Printf("corevm-snapshot-store listening on %s, archiving to %s\n", *listen, *dbPath)
	log.Fatal(http.ListenAndServe(*listen, mux))
}

type snapshotStore struct {
	db  *badger.DB
	seq uint64
}

// handleCapture fetches /debug/corevm/snapshot from ?target=<base-url> and
// persists the raw JSON body keyed by a monotonically increasing sequence
// number, mirroring the teacher's eject-on-write Badger usage but driven by
// an explicit capture request instead of a cache eviction callback.
func (s *snapshotStore) handleCapture(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		http.Error(w, "missing target", http.StatusBadRequest)
		return
	}

	res, err := http.Get(target + "/debug/corevm/snapshot")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.seq++
	key := []byte(fmt.Sprintf("snap:%020d", s.seq))
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, body)
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "captured snapshot %d\n", s.seq)
}

// handleHistory returns the last ?limit= captured snapshots, newest first.
func (s *snapshotStore) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var snapshots []json.RawMessage
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte("snap:")
		seekKey := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(snapshots) < limit; it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				raw := make([]byte, len(v))
				copy(raw, v)
				snapshots = append(snapshots, json.RawMessage(raw))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshots)
}
