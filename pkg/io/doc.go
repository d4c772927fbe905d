// Package io provides JSON import and export for named graphs.
//
// # Overview
//
// The engine works with positional snapshots: nodes are the integers
// [0, NodeCount). Hosts usually have named nodes. This package bridges
// the two, converting a named JSON graph into a graph.Snapshot plus the
// name index, and back.
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "app", "w": 80, "h": 30},
//	    {"id": "lib-a", "w": 64, "h": 30}
//	  ],
//	  "edges": [
//	    {"from": "app", "to": "lib-a", "tag": 1}
//	  ],
//	  "hidden": [3]
//	}
//
// Node indices follow the order of the nodes array, so positions in a
// computed result line up with it. Sizes are optional for placement
// operations but required for routing.
//
// # Import
//
// Use [ImportJSON] to read a named graph from a file path, or [ReadJSON]
// to read from any io.Reader:
//
//	named, err := io.ImportJSON("deps.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Force(ctx, named.Snapshot, opts)
//
// [ReadGraphFile] accepts either format: a positional snapshot (detected
// by its "node_count" field) or a named graph.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON] for the reverse conversion, and
// [LabelPositions] to key a result's positions by node name.
package io
