package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/pipeline"
)

// opRequest is the JSON body shared by all operation endpoints. Exactly
// one of Snapshot or SnapshotRef must be set. Positions is required by
// the routes endpoint only.
type opRequest struct {
	Snapshot    *graph.Snapshot   `json:"snapshot,omitempty"`
	SnapshotRef string            `json:"snapshot_ref,omitempty"`
	Positions   []graph.Position  `json:"positions,omitempty"`
	Options     *pipeline.Options `json:"options,omitempty"`
}

// opResponse wraps a result with its cache provenance.
type opResponse struct {
	Result *graph.Result `json:"result"`
	Cached bool          `json:"cached"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleOp returns the handler for one snapshot-only operation.
func (s *Server) handleOp(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, snap, opts, ok := s.decodeRequest(w, r)
		if !ok {
			return
		}

		var result *graph.Result
		var cached bool
		var err error
		switch op {
		case pipeline.OpForce:
			result, cached, err = s.runner.ForceWithCacheInfo(r.Context(), snap, opts)
		case pipeline.OpCommunities:
			result, cached, err = s.runner.CommunitiesWithCacheInfo(r.Context(), snap, opts)
		case pipeline.OpCircular:
			result, cached, err = s.runner.CircularWithCacheInfo(r.Context(), snap, opts)
		case pipeline.OpSpectral:
			result, cached, err = s.runner.SpectralWithCacheInfo(r.Context(), snap, opts)
		default:
			writeError(w, http.StatusNotFound, "unknown operation "+op, "")
			return
		}
		if err != nil {
			writeOpError(w, err)
			return
		}

		result.RunID = uuid.NewString()
		writeJSON(w, http.StatusOK, opResponse{Result: result, Cached: cached})
	}
}

// handleRoutes routes edges over the placement carried in the request.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	req, snap, opts, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if len(req.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "routes needs positions", string(errors.ErrCodeInvalidInput))
		return
	}

	result, cached, err := s.runner.RoutesWithCacheInfo(r.Context(), snap, req.Positions, opts)
	if err != nil {
		writeOpError(w, err)
		return
	}

	result.RunID = uuid.NewString()
	writeJSON(w, http.StatusOK, opResponse{Result: result, Cached: cached})
}

// decodeRequest parses the body and resolves the snapshot, inline or by
// reference. On failure it writes the error response and returns ok=false.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*opRequest, *graph.Snapshot, pipeline.Options, bool) {
	var req opRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), "")
		return nil, nil, pipeline.Options{}, false
	}

	snap := req.Snapshot
	if snap == nil && req.SnapshotRef != "" {
		stored, err := s.loadSnapshot(r, req.SnapshotRef)
		if err != nil {
			writeError(w, http.StatusNotFound, "snapshot "+req.SnapshotRef+" not found", "")
			return nil, nil, pipeline.Options{}, false
		}
		snap = stored
	}
	if snap == nil {
		writeError(w, http.StatusBadRequest, "snapshot or snapshot_ref required", string(errors.ErrCodeInvalidInput))
		return nil, nil, pipeline.Options{}, false
	}
	if err := snap.Validate(); err != nil {
		writeOpError(w, err)
		return nil, nil, pipeline.Options{}, false
	}

	opts := pipeline.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
		opts.SetDefaults()
	}
	opts.Logger = s.logger
	return &req, snap, opts, true
}

// writeOpError maps engine errors onto HTTP status codes.
func writeOpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ""
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput):
		status = http.StatusBadRequest
		code = string(errors.ErrCodeInvalidInput)
	case errors.Is(err, errors.ErrCodeNonConvergence):
		status = http.StatusUnprocessableEntity
		code = string(errors.ErrCodeNonConvergence)
	}
	writeError(w, status, err.Error(), code)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
