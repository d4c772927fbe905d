package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gridwise/layoutkit/pkg/graph"
)

// WriteJSON encodes a named graph as JSON and writes it to w.
// The output round-trips through [ReadJSON].
func WriteJSON(n *Named, w io.Writer) error {
	out := namedGraph{
		Nodes:  make([]namedNode, n.Snapshot.NodeCount),
		Edges:  make([]namedEdge, len(n.Snapshot.Edges)),
		Hidden: n.Snapshot.Hidden,
	}

	for i := range out.Nodes {
		nd := namedNode{ID: n.Names[i]}
		if i < len(n.Snapshot.Sizes) {
			nd.W = n.Snapshot.Sizes[i].W
			nd.H = n.Snapshot.Sizes[i].H
		}
		out.Nodes[i] = nd
	}
	for i, e := range n.Snapshot.Edges {
		out.Edges[i] = namedEdge{
			From:      n.Names[e.From],
			To:        n.Names[e.To],
			Tag:       e.Tag,
			Curvature: e.Curvature,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a named graph to a JSON file at path.
func ExportJSON(n *Named, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(n, f)
}

// LabelPositions maps a positional result back onto node names.
// The returned map holds one entry per node; nodes beyond the result's
// positions are skipped.
func LabelPositions(names []string, result *graph.Result) map[string]graph.Position {
	out := make(map[string]graph.Position, len(result.Positions))
	for i, p := range result.Positions {
		if i < len(names) {
			out[names[i]] = p
		}
	}
	return out
}
