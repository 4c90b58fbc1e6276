package edgetrace

import (
	"context"
	"fmt"
	"io"
)

// Relaxation parameters. Alpha is the per-edge step size and Epsilon the
// convergence threshold on the largest method level observed in a pass.
const (
	Alpha   = 0.125
	Epsilon = 0.001

	DefaultMaxIterations = 1000
	DefaultTopN          = 10
)

// level is the amount of diff "novelty" a method contributes. A method that
// is present and reachable in the paired graph contributes nothing; an
// absent or unreachable one contributes its accumulated value.
func level(m *Method) float64 {
	if m.Equivalent != nil && m.Equivalent.Reachability != Unreachable {
		return 0
	}
	return m.Value
}

// Relax runs the iterative diff relaxation over the graph's edges in
// insertion order. Value flows from higher-level targets toward lower-level
// sources, accumulating in the edge and the source while depleting from the
// target. The loop exits when the largest level seen in a pass drops to
// Epsilon, the iteration cap is hit, or ctx is cancelled; cancellation
// leaves the state of the last completed iteration and is not an error.
// Returns the number of completed iterations.
func (cg *CallGraph) Relax(ctx context.Context, maxIterations int, progress io.Writer) int {
	max := 1.0
	i := 0

	for max > Epsilon && i < maxIterations && ctx.Err() == nil {
		max = 0

		for _, e := range cg.Edges {
			lt := level(e.Target)
			ls := level(e.Source)

			if lt > max {
				max = lt
			}
			if ls > max {
				max = ls
			}

			delta := Alpha * (lt - ls)
			if delta > 0 {
				e.Value += delta
				e.Target.Value -= delta
				e.Source.Value += delta
			}
		}

		i++
		if i%100 == 0 || i == maxIterations {
			fmt.Fprintf(progress, "Iteration %d, max %g\n", i, max)
		}
	}

	fmt.Fprintf(progress, "Done, %d iterations.\n", i)
	return i
}

// Diff runs the difference pipeline over two prepared graphs: purge edges
// sourced at unreachable supergraph methods, link equivalents, purge edges
// already covered by the subgraph, then relax. Both graphs must have their
// edges built and reachability computed. Returns the iteration count.
func Diff(ctx context.Context, sup, sub *CallGraph, maxIterations int, progress io.Writer) int {
	sup.PrintSummary(progress)
	sub.PrintSummary(progress)

	fmt.Fprintln(progress, "Purging unreachable edges")
	sup.PurgeUnreachableEdges()
	sup.PrintSummary(progress)
	sub.PrintSummary(progress)

	LinkEquivalents(sup, sub)
	sup.PurgeCommonEdges()

	fmt.Fprintln(progress, "Starting difference algorithm")
	return sup.Relax(ctx, maxIterations, progress)
}

// DiffDirs loads the supergraph from supDir and the subgraph from subDir,
// prepares both (devirtualizing the supergraph only), and runs Diff.
// The returned supergraph carries the relaxed values; the subgraph is
// reachable through its Other link.
func DiffDirs(ctx context.Context, supDir, subDir string, maxIterations int, progress io.Writer) (*CallGraph, int, error) {
	sup, err := Load(supDir, "Supergraph", progress)
	if err != nil {
		return nil, 0, fmt.Errorf("load supergraph: %w", err)
	}
	sub, err := Load(subDir, "Subgraph", progress)
	if err != nil {
		return nil, 0, fmt.Errorf("load subgraph: %w", err)
	}

	sup.Devirtualize()

	sup.BuildEdges()
	sub.BuildEdges()

	sup.ComputeReachability()
	sub.ComputeReachability()

	sup.Tally()
	sub.Tally()

	iterations := Diff(ctx, sup, sub, maxIterations, progress)
	return sup, iterations, nil
}
