package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridwise/layoutkit/pkg/graph"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(context.Background(), Config{CacheDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func testSnapshot() *graph.Snapshot {
	return &graph.Snapshot{
		NodeCount: 3,
		Edges: []graph.Edge{
			{From: 0, To: 1}, {From: 1, To: 2}, {From: 0, To: 2},
		},
		Sizes: []graph.Size{{W: 30, H: 10}, {W: 30, H: 10}, {W: 30, H: 10}},
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	handler := testServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestForceEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	rec := postJSON(t, handler, "/api/v1/force", opRequest{Snapshot: testSnapshot()})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp opResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("First run should not be cached")
	}
	if resp.Result.Kind != graph.KindForce {
		t.Errorf("Kind should be %q, got %q", graph.KindForce, resp.Result.Kind)
	}
	if len(resp.Result.Positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(resp.Result.Positions))
	}
	if resp.Result.RunID == "" {
		t.Error("RunID should be assigned")
	}

	// Same request again hits the cache but gets a fresh run id.
	rec = postJSON(t, handler, "/api/v1/force", opRequest{Snapshot: testSnapshot()})
	var second opResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("Repeat run should be cached")
	}
	if second.Result.RunID == resp.Result.RunID {
		t.Error("Each run should get its own RunID")
	}
}

func TestForceEndpointRejectsEmptyBody(t *testing.T) {
	handler := testServer(t).Handler()

	rec := postJSON(t, handler, "/api/v1/force", opRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestForceEndpointRejectsBadEdges(t *testing.T) {
	handler := testServer(t).Handler()

	snap := &graph.Snapshot{
		NodeCount: 2,
		Edges:     []graph.Edge{{From: 0, To: 5}},
	}
	rec := postJSON(t, handler, "/api/v1/force", opRequest{Snapshot: snap})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Out-of-range edge should be rejected, got %d", rec.Code)
	}
}

func TestRoutesEndpointNeedsPositions(t *testing.T) {
	handler := testServer(t).Handler()

	rec := postJSON(t, handler, "/api/v1/routes", opRequest{Snapshot: testSnapshot()})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without positions, got %d", rec.Code)
	}
}

func TestRoutesEndpoint(t *testing.T) {
	handler := testServer(t).Handler()

	req := opRequest{
		Snapshot: &graph.Snapshot{
			NodeCount: 2,
			Edges:     []graph.Edge{{From: 0, To: 1}},
			Sizes:     []graph.Size{{W: 30, H: 10}, {W: 30, H: 10}},
		},
		Positions: []graph.Position{{X: 0, Y: 0}, {X: 100, Y: 0}},
	}
	rec := postJSON(t, handler, "/api/v1/routes", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp opResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Kind != graph.KindRoutes {
		t.Errorf("Kind should be %q, got %q", graph.KindRoutes, resp.Result.Kind)
	}
	if len(resp.Result.Routes) != 1 {
		t.Errorf("Expected 1 route, got %d", len(resp.Result.Routes))
	}
}

func TestSnapshotStoreAndReference(t *testing.T) {
	handler := testServer(t).Handler()

	// Store the snapshot under a name.
	data, err := graph.MarshalSnapshot(testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/snapshots/triangle", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Fetch it back.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/triangle", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	snap, err := graph.UnmarshalSnapshot(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if snap.NodeCount != 3 {
		t.Errorf("Stored snapshot should round trip, got %d nodes", snap.NodeCount)
	}

	// Run an operation by reference.
	opRec := postJSON(t, handler, "/api/v1/communities", opRequest{SnapshotRef: "triangle"})
	if opRec.Code != http.StatusOK {
		t.Fatalf("Expected 200 by reference, got %d: %s", opRec.Code, opRec.Body.String())
	}

	// Delete and confirm the reference is gone.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/snapshots/triangle", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	opRec = postJSON(t, handler, "/api/v1/communities", opRequest{SnapshotRef: "triangle"})
	if opRec.Code != http.StatusNotFound {
		t.Fatalf("Deleted snapshot reference should 404, got %d", opRec.Code)
	}
}

func TestSnapshotPutRejectsGarbage(t *testing.T) {
	handler := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/snapshots/bad", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}
