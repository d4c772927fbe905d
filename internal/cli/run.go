package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridwise/layoutkit/pkg/graph"
	graphio "github.com/gridwise/layoutkit/pkg/io"
	"github.com/gridwise/layoutkit/pkg/pipeline"
)

// opFlags are the flags shared by every engine operation command.
type opFlags struct {
	output  string
	tuning  string
	noCache bool
	seed    uint64
	hidden  []int
}

// register adds the shared flags to cmd.
func (f *opFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.<op>.json)")
	cmd.Flags().StringVar(&f.tuning, "tuning", "", "TOML tuning file")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default: tuning file or 42)")
	cmd.Flags().IntSliceVar(&f.hidden, "hide", nil, "edge tags to exclude")
}

// options builds the pipeline options from the tuning file and flag
// overrides.
func (f *opFlags) options() (pipeline.Options, error) {
	opts, err := loadTuning(f.tuning)
	if err != nil {
		return pipeline.Options{}, err
	}
	if f.seed != 0 {
		opts.Seed = f.seed
		opts.Community.Seed = f.seed
		opts.Circular.Seed = f.seed
	}
	opts.Hidden = append(opts.Hidden, f.hidden...)
	return opts, nil
}

// outputPath returns the explicit output path or derives one from the
// input file and operation name.
func (f *opFlags) outputPath(input, op string) string {
	if f.output != "" {
		return f.output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + op + ".json"
}

// forceCommand creates the force-directed placement command.
func (c *CLI) forceCommand() *cobra.Command {
	var flags opFlags
	var iterations int

	cmd := &cobra.Command{
		Use:   "force [graph.json]",
		Short: "Compute a force-directed node placement",
		Long: `Compute a force-directed node placement.

Nodes are scattered from the seed and settle under Barnes-Hut repulsion,
edge attraction, and local gravity wells until movement dies down. The
result is deterministic for a given graph, seed, and tuning.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if iterations > 0 {
				opts.MaxIterations = iterations
			}
			return c.runOp(cmd.Context(), pipeline.OpForce, args[0], opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 0, "annealing iteration cap (default: 1000)")

	return cmd
}

// communitiesCommand creates the community detection command.
func (c *CLI) communitiesCommand() *cobra.Command {
	var flags opFlags
	var resolution float64

	cmd := &cobra.Command{
		Use:   "communities [graph.json]",
		Short: "Detect communities with the Louvain method",
		Long: `Detect communities with the Louvain method.

Each node is assigned a community index. Resolution above 1.0 favors
more, smaller communities; below 1.0 favors fewer, larger ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if resolution > 0 {
				opts.Community.Resolution = resolution
			}
			return c.runOp(cmd.Context(), pipeline.OpCommunities, args[0], opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "community resolution (default: 1.0)")

	return cmd
}

// circularCommand creates the circular ordering command.
func (c *CLI) circularCommand() *cobra.Command {
	var flags opFlags
	var generations int

	cmd := &cobra.Command{
		Use:   "circular [graph.json]",
		Short: "Search for a circular node order with few crossings",
		Long: `Search for a circular node order with few crossings.

A genetic search evolves visit orders seeded from randomized depth-first
traversals. The output is the best order found and its crossing cost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if generations > 0 {
				opts.Circular.Generations = generations
			}
			return c.runOp(cmd.Context(), pipeline.OpCircular, args[0], opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&generations, "generations", 0, "genetic search generations (default: 100)")

	return cmd
}

// spectralCommand creates the spectral placement command.
func (c *CLI) spectralCommand() *cobra.Command {
	var flags opFlags

	cmd := &cobra.Command{
		Use:   "spectral [graph.json]",
		Short: "Place nodes by graph Laplacian eigenvectors",
		Long: `Place nodes by graph Laplacian eigenvectors.

The two smallest non-trivial eigenvectors become the coordinate axes.
Fails with a non-convergence error on graphs where the eigen-solve does
not settle; use force as a fallback.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			return c.runOp(cmd.Context(), pipeline.OpSpectral, args[0], opts, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

// runOp loads the snapshot, runs one engine operation, and writes the
// result file.
func (c *CLI) runOp(ctx context.Context, op, input string, opts pipeline.Options, flags opFlags) error {
	snap, _, err := graphio.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s...", op))
	spinner.Start()

	var result *graph.Result
	var cacheHit bool
	switch op {
	case pipeline.OpForce:
		result, cacheHit, err = runner.ForceWithCacheInfo(ctx, snap, opts)
	case pipeline.OpCommunities:
		result, cacheHit, err = runner.CommunitiesWithCacheInfo(ctx, snap, opts)
	case pipeline.OpCircular:
		result, cacheHit, err = runner.CircularWithCacheInfo(ctx, snap, opts)
	case pipeline.OpSpectral:
		result, cacheHit, err = runner.SpectralWithCacheInfo(ctx, snap, opts)
	default:
		spinner.Stop()
		return fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("%s failed", op))
		return fmt.Errorf("compute %s: %w", op, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	result.RunID = uuid.NewString()
	outputPath := flags.outputPath(input, op)
	if err := graph.WriteResultFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("%s complete", titleCase(op))
	printFile(outputPath)
	printStats(snap.NodeCount, len(snap.Edges), cacheHit)
	if op == pipeline.OpForce || op == pipeline.OpSpectral {
		printNewline()
		printNextStep("Route edges", fmt.Sprintf("layoutkit route %s --layout %s", input, outputPath))
	}

	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
