package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridwise/layoutkit/pkg/cache"
	"github.com/gridwise/layoutkit/pkg/graph"
)

// snapshotNamespace scopes stored snapshots in the shared cache.
const snapshotNamespace = "api"

// maxSnapshotBytes caps uploaded snapshot bodies.
const maxSnapshotBytes = 64 << 20

// handleSnapshotPut validates and stores a snapshot under a name.
func (s *Server) handleSnapshotPut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error(), "")
		return
	}
	snap, err := graph.UnmarshalSnapshot(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot: "+err.Error(), "")
		return
	}
	if err := snap.Validate(); err != nil {
		writeOpError(w, err)
		return
	}

	key := s.keyer.SnapshotKey(snapshotNamespace, name)
	if err := s.runner.Cache.Set(r.Context(), key, data, cache.TTLSnapshot); err != nil {
		writeError(w, http.StatusInternalServerError, "store snapshot: "+err.Error(), "")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"name":  name,
		"nodes": snap.NodeCount,
		"edges": len(snap.Edges),
	})
}

// handleSnapshotGet returns a stored snapshot.
func (s *Server) handleSnapshotGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := s.loadSnapshot(r, name)
	if err != nil {
		writeError(w, http.StatusNotFound, "snapshot "+name+" not found", "")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleSnapshotDelete drops a stored snapshot.
func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	key := s.keyer.SnapshotKey(snapshotNamespace, name)
	if err := s.runner.Cache.Delete(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, "delete snapshot: "+err.Error(), "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSnapshot fetches a named snapshot from the cache.
func (s *Server) loadSnapshot(r *http.Request, name string) (*graph.Snapshot, error) {
	key := s.keyer.SnapshotKey(snapshotNamespace, name)
	data, hit, err := s.runner.Cache.Get(r.Context(), key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, fmt.Errorf("snapshot %s: not found", name)
	}
	return graph.UnmarshalSnapshot(data)
}
