// Package pkg provides the core libraries of the layoutkit graph layout engine.
//
// # Overview
//
// Layoutkit places the nodes of a graph, groups them, and routes the edges
// between them. The pkg directory is organized into four main areas:
//
//  1. [graph] - Boundary types (snapshots, results) and their serialization
//  2. [layout] - Placement and routing algorithms (force, circular, spectral, ortho)
//  3. [community] - Louvain community detection
//  4. [pipeline] - Orchestration and caching shared by CLI and API
//
// # Architecture
//
// The typical data flow through layoutkit:
//
//	Host graph (named or positional JSON)
//	         ↓
//	    [graph] package (snapshot validation)
//	         ↓
//	    [layout/force] or [layout/spectral] (node placement)
//	         ↓
//	    [layout/ortho] (orthogonal edge routing)
//	         ↓
//	    JSON result (positions, routes, communities, orders)
//
// # Quick Start
//
// Place a graph and route its edges:
//
//	import (
//	    "context"
//	    "github.com/gridwise/layoutkit/pkg/graph"
//	    "github.com/gridwise/layoutkit/pkg/pipeline"
//	)
//
//	snap, _ := graph.ReadSnapshotFile("graph.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	opts := pipeline.DefaultOptions()
//
//	placed, _ := runner.Force(context.Background(), snap, opts)
//	routed, _ := runner.Routes(context.Background(), snap, placed.Positions, opts)
//
// # Main Packages
//
// ## Boundary Types
//
// [graph] - Snapshot (positional nodes, tagged edges, footprints) and the
// Result union carrying positions, communities, routes, or orders.
//
// [io] - Named JSON graphs for hosts with string node ids, converted to
// and from positional snapshots.
//
// ## Algorithms
//
// [layout/force] - Barnes-Hut force-directed placement with annealing,
// parallel per-node force evaluation, and local gravity wells.
//
// [layout/ortho] - Orthogonal edge routing through the free channels
// between node rectangles: channel graph construction, BFS pathfinding,
// slot assignment, and channel resizing.
//
// [layout/circular] - Genetic search for circular node orders with few
// edge crossings.
//
// [layout/spectral] - Placement by Laplacian eigenvectors (gonum).
//
// [community] - Louvain modularity optimization with graph coarsening.
//
// ## Support
//
// [geom] - Vectors and rectangles shared by every algorithm.
//
// [layout/quadtree] - The spatial index behind Barnes-Hut approximation.
//
// [cache] - Content-addressed result caching with file, Redis, and null
// backends behind one interface.
//
// [errors] - Coded errors shared across the engine.
//
// [observability] - Pluggable hooks the algorithms report progress to.
//
// [pipeline] - Runner tying it all together: options, TOML tuning files,
// cache keys, logging. Used by both the CLI and the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/ortho/... # Specific package
//	go test -run Example           # Examples only
//
// [graph]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/graph
// [io]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/io
// [layout]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout/force
// [layout/ortho]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout/ortho
// [layout/circular]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout/circular
// [layout/spectral]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout/spectral
// [community]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/community
// [geom]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/geom
// [layout/quadtree]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/layout/quadtree
// [cache]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/cache
// [errors]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/gridwise/layoutkit/pkg/pipeline
package pkg
