package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gridwise/layoutkit/pkg/graph"
)

// Named pairs a positional snapshot with the node names it was built
// from. Names[i] is the id of node index i.
type Named struct {
	Snapshot *graph.Snapshot
	Names    []string
}

// Index returns the node index for a name, or -1 if unknown.
func (n *Named) Index(name string) int {
	for i, id := range n.Names {
		if id == name {
			return i
		}
	}
	return -1
}

type namedGraph struct {
	Nodes  []namedNode `json:"nodes"`
	Edges  []namedEdge `json:"edges"`
	Hidden []int       `json:"hidden,omitempty"`
}

type namedNode struct {
	ID string  `json:"id"`
	W  float64 `json:"w,omitempty"`
	H  float64 `json:"h,omitempty"`
}

type namedEdge struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Tag       int     `json:"tag,omitempty"`
	Curvature float64 `json:"curvature,omitempty"`
}

// ReadJSON decodes a named JSON graph from r into a positional snapshot.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "w": 80, "h": 30}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Each node must have an "id" field; "w" and "h" give its footprint and
// are required for routing. Each edge references node ids and may carry a
// "tag" and "curvature". A top-level "hidden" array lists excluded tags.
//
// ReadJSON returns an error if the JSON is malformed, a node id repeats,
// or an edge references an unknown id. Node indices follow the order of
// the nodes array.
func ReadJSON(r io.Reader) (*Named, error) {
	var data namedGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	index := make(map[string]int, len(data.Nodes))
	names := make([]string, len(data.Nodes))
	sizes := make([]graph.Size, 0, len(data.Nodes))
	sized := false
	for i, n := range data.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: missing id", i)
		}
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("node %s: duplicate id", n.ID)
		}
		index[n.ID] = i
		names[i] = n.ID
		sizes = append(sizes, graph.Size{W: n.W, H: n.H})
		if n.W != 0 || n.H != 0 {
			sized = true
		}
	}

	snap := &graph.Snapshot{
		NodeCount: len(data.Nodes),
		Hidden:    graph.NewTagSet(data.Hidden...),
	}
	if sized {
		snap.Sizes = sizes
	}
	for _, e := range data.Edges {
		from, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %s", e.From, e.To, e.From)
		}
		to, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %s", e.From, e.To, e.To)
		}
		snap.Edges = append(snap.Edges, graph.Edge{
			From:      from,
			To:        to,
			Tag:       e.Tag,
			Curvature: e.Curvature,
		})
	}

	return &Named{Snapshot: snap, Names: names}, nil
}

// ImportJSON reads a named JSON graph file at path.
func ImportJSON(path string) (*Named, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadGraphFile reads either format from path: a positional snapshot
// (with a "node_count" field) or a named graph (with a "nodes" array).
// Names is nil for positional input.
func ReadGraphFile(path string) (*graph.Snapshot, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	var probe struct {
		NodeCount *int            `json:"node_count"`
		Nodes     json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if probe.NodeCount == nil && probe.Nodes != nil {
		named, err := ReadJSON(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return named.Snapshot, named.Names, nil
	}

	snap, err := graph.UnmarshalSnapshot(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil, nil
}
