package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridwise/layoutkit/pkg/graph"
	graphio "github.com/gridwise/layoutkit/pkg/io"
	"github.com/gridwise/layoutkit/pkg/pipeline"
)

// routeCommand creates the orthogonal edge routing command.
func (c *CLI) routeCommand() *cobra.Command {
	var flags opFlags
	var layoutFile string

	cmd := &cobra.Command{
		Use:   "route [graph.json]",
		Short: "Route edges orthogonally over a node placement",
		Long: `Route edges orthogonally over a node placement.

Edges are routed through the free channels between node rectangles and
come out as axis-aligned polylines that never cross a node. Channels
grow to fit the routes passing through them, so the final node positions
can differ from the input placement; the output contains both.

Positions come from a previous force or spectral result file given with
--layout. Without --layout a force placement is computed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args[0], layoutFile, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&layoutFile, "layout", "", "result file with node positions (default: compute force)")

	return cmd
}

// runRoute resolves the placement, routes the edges, and writes output.
func (c *CLI) runRoute(cmd *cobra.Command, input, layoutFile string, flags opFlags) error {
	ctx := cmd.Context()

	snap, _, err := graphio.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	opts, err := flags.options()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	var placed []graph.Position
	if layoutFile != "" {
		prior, err := graph.ReadResultFile(layoutFile)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", layoutFile, err)
		}
		if len(prior.Positions) == 0 {
			return fmt.Errorf("layout %s carries no positions (kind %q)", layoutFile, prior.Kind)
		}
		placed = prior.Positions
	} else {
		printInfo("No layout given, computing force placement first")
		spinner := newSpinnerWithContext(ctx, "Computing force...")
		spinner.Start()
		forced, err := runner.Force(ctx, snap, opts)
		if err != nil {
			spinner.StopWithError("Force failed")
			return fmt.Errorf("compute force: %w", err)
		}
		spinner.Stop()
		placed = forced.Positions
	}

	spinner := newSpinnerWithContext(ctx, "Routing edges...")
	spinner.Start()
	result, cacheHit, err := runner.RoutesWithCacheInfo(ctx, snap, placed, opts)
	if err != nil {
		spinner.StopWithError("Routing failed")
		return fmt.Errorf("route edges: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	result.RunID = uuid.NewString()
	outputPath := flags.outputPath(input, pipeline.OpRoutes)
	if err := graph.WriteResultFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Routing complete")
	printFile(outputPath)
	printStats(snap.NodeCount, len(result.Routes), cacheHit)

	return nil
}
