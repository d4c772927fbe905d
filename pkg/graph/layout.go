package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Result - Unified Output Format
// =============================================================================

// Result kinds.
const (
	KindForce       = "force"
	KindCommunities = "communities"
	KindRoutes      = "routes"
	KindCircular    = "circular"
	KindSpectral    = "spectral"
)

// Result is the unified serialization format for engine outputs.
//
// This is a discriminated union type - check Kind to determine which
// fields are populated:
//
//	Force / Spectral ("force", "spectral"):
//	  - Positions: per-node coordinates
//
//	Communities ("communities"):
//	  - Communities: per-node community index
//	  - Levels: number of coarsening levels the driver ran
//
//	Routes ("routes"):
//	  - Positions: per-node coordinates after channel resizing
//	  - Routes: per-edge orthogonal polylines
//
//	Circular ("circular"):
//	  - Order: node visit order around the circle
//	  - Cost: crossing-sweep cost of the order
type Result struct {
	// Discriminator
	Kind string `json:"kind"`

	// Run identity, assigned by the host surface (CLI/API).
	RunID string `json:"run_id,omitempty"`

	Positions   []Position  `json:"positions,omitempty"`
	Communities []int       `json:"communities,omitempty"`
	Levels      int         `json:"levels,omitempty"`
	Routes      []Polyline  `json:"routes,omitempty"`
	Order       []int       `json:"order,omitempty"`
	Cost        float64     `json:"cost,omitempty"`
}

// Position is a node coordinate pair.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polyline is one routed edge as a sequence of axis-aligned segments.
type Polyline struct {
	Edge   int        `json:"edge"` // index into the snapshot's edge list
	Points []Position `json:"points"`
}

// IsForce returns true for force-directed results.
func (r *Result) IsForce() bool { return r.Kind == KindForce }

// IsRoutes returns true for orthogonal routing results.
func (r *Result) IsRoutes() bool { return r.Kind == KindRoutes }

// =============================================================================
// Result Serialization
// =============================================================================

// MarshalResult converts a Result to indented JSON bytes.
func MarshalResult(r *Result) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// UnmarshalResult decodes JSON bytes into a Result.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &r, nil
}

// WriteResultFile writes a Result to a JSON file with 0644 permissions.
func WriteResultFile(r *Result, path string) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadResultFile reads a JSON file and returns the decoded Result.
func ReadResultFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalResult(data)
}
