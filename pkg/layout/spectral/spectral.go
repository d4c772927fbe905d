// Package spectral places nodes by the low eigenvectors of the graph
// Laplacian. The second and third smallest eigenvectors give coordinates
// that keep strongly connected regions together, which makes a good seed
// layout before force refinement.
package spectral

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridwise/layoutkit/pkg/errors"
	"github.com/gridwise/layoutkit/pkg/geom"
	"github.com/gridwise/layoutkit/pkg/graph"
	"github.com/gridwise/layoutkit/pkg/observability"
)

// scale maps the normalized coordinates onto screen distance.
const scale = 800.0

// zeroTol classifies an eigenvalue as the trivial constant mode.
const zeroTol = 1e-9

// Layout repositions the given nodes by a 2D spectral embedding and returns
// a copy of positions with those nodes moved. Edges with a hidden tag or an
// endpoint outside the node set are ignored; direction is ignored. Fewer
// than two nodes is a no-op. A failed eigen-decomposition returns a
// non-convergence error so the caller can fall back to another layout.
func Layout(ctx context.Context, nodes []int, positions []geom.Vec2, edges []graph.Edge, hidden graph.TagSet) ([]geom.Vec2, error) {
	out := make([]geom.Vec2, len(positions))
	copy(out, positions)
	n := len(nodes)
	if n < 2 {
		return out, nil
	}
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, "spectral", n)

	indexOf := make(map[int]int, n)
	for i, node := range nodes {
		indexOf[node] = i
	}

	adj := mat.NewSymDense(n, nil)
	for _, e := range edges {
		if hidden.Contains(e.Tag) {
			continue
		}
		i, iok := indexOf[e.From]
		j, jok := indexOf[e.To]
		if iok && jok && i != j {
			adj.SetSym(i, j, 1.0)
		}
	}

	coords, err := coordsFromLaplacian(laplacian(adj), 2)
	if err != nil {
		observability.Layout().OnLayoutComplete(ctx, "spectral", time.Since(start), err)
		return nil, err
	}
	rescale(coords, 1.0)

	for i, node := range nodes {
		out[node] = geom.V(coords.At(i, 0)*scale, coords.At(i, 1)*scale)
	}
	observability.Layout().OnLayoutComplete(ctx, "spectral", time.Since(start), nil)
	return out, nil
}

// laplacian builds the unnormalized Laplacian L = D - A.
func laplacian(adj *mat.SymDense) *mat.SymDense {
	n := adj.SymmetricDim()
	lap := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		degree := 0.0
		for j := 0; j < n; j++ {
			degree += adj.At(i, j)
		}
		lap.SetSym(i, i, degree)
		for j := i + 1; j < n; j++ {
			lap.SetSym(i, j, -adj.At(i, j))
		}
	}
	return lap
}

// coordsFromLaplacian returns an n x dim matrix of node coordinates built
// from the eigenvectors after the (approximately zero) constant modes.
// Disconnected graphs have one zero mode per component; they are all
// skipped so the first informative axes are used.
func coordsFromLaplacian(lap *mat.SymDense, dim int) (*mat.Dense, error) {
	n := lap.SymmetricDim()
	if dim <= 0 || dim >= n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dim must be in [1, %d), got %d", n, dim)
	}

	var es mat.EigenSym
	if ok := es.Factorize(lap, true); !ok {
		return nil, errors.New(errors.ErrCodeNonConvergence, "eigen-decomposition of %dx%d laplacian did not converge", n, n)
	}

	// Eigenvalues come back in ascending order.
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	start := 0
	for start < n && math.Abs(values[start]) <= zeroTol {
		start++
	}
	if start == n {
		// fully degenerate spectrum, anything but the first column works
		start = 1
	}
	if start+dim > n {
		if 1+dim <= n {
			start = 1
		} else {
			return nil, errors.New(errors.ErrCodeNonConvergence, "only %d eigenvectors for %d requested axes", n, dim)
		}
	}

	coords := mat.NewDense(n, dim, nil)
	for d := 0; d < dim; d++ {
		for i := 0; i < n; i++ {
			coords.Set(i, d, vectors.At(i, start+d))
		}
	}
	return coords, nil
}

// rescale centers each coordinate axis on zero and scales uniformly so the
// largest absolute coordinate becomes scale.
func rescale(pos *mat.Dense, scale float64) {
	n, d := pos.Dims()
	for j := 0; j < d; j++ {
		mean := 0.0
		for i := 0; i < n; i++ {
			mean += pos.At(i, j)
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			pos.Set(i, j, pos.At(i, j)-mean)
		}
	}

	lim := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			lim = math.Max(lim, math.Abs(pos.At(i, j)))
		}
	}
	if lim > 0 {
		pos.Scale(scale/lim, pos)
	}
}
