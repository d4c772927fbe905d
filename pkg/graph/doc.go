// Package graph provides the boundary types shared by every layout algorithm.
//
// This package defines the wire format for layoutkit's inputs and outputs,
// used for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between hosts and the
// computation packages:
//
//   - [Snapshot], [Edge]: borrowed-immutable input handed to the engine
//   - [Result]: discriminated output union (positions, communities, routes)
//
// Node identity is positional: nodes are the integers [0, NodeCount) and
// edges refer to nodes by index. Hosts own the mapping from indices to
// their own identifiers, which keeps the engine free of string handling.
//
// # Snapshot Serialization
//
// Snapshots use a compact index-based JSON format:
//
//	{
//	  "node_count": 3,
//	  "edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2, "tag": 4}],
//	  "hidden": [4]
//	}
//
// Common operations:
//
//	snap, _ := graph.ReadSnapshotFile("graph.json")  // File → Snapshot
//	data, _ := graph.MarshalSnapshot(snap)           // Snapshot → []byte
//	edges := snap.VisibleEdges()                     // hidden tags filtered
//
// # Result Serialization
//
// Results are discriminated by Kind:
//
//	res, _ := graph.UnmarshalResult(data)
//	if res.IsForce() {
//	    // Use res.Positions
//	} else if res.IsRoutes() {
//	    // Use res.Positions and res.Routes
//	}
//
// # Structural Helpers
//
// [Components] splits a snapshot into connected components via union-find,
// and [DegreeCentrality] with [Normalize] produces per-node importance
// weights in [0, 1]. Both treat edges as undirected.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
