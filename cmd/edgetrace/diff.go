package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/mv02/edgetrace"
	"github.com/mv02/edgetrace/internal/config"
	"github.com/mv02/edgetrace/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagDB  string
	flagOut string
)

var diffCmd = &cobra.Command{
	Use:   "diff DIR1 DIR2 [max_iterations] [top_n]",
	Short: "Diff two call-graph directories and rank the edges unique to the first",
	Long: "Loads the supergraph from DIR1 and the subgraph from DIR2, runs the " +
		"reachability and relaxation pipeline, and emits the top-ranked edges " +
		"unique to the supergraph. Interrupting the run keeps the state of the " +
		"last completed iteration.",
	Args: cobra.RangeArgs(2, 4),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&flagDB, "db", "", "also export the diffed supergraph to a SQLite database at this path")
	diffCmd.Flags().StringVar(&flagOut, "out", "", "also write the supergraph's methods.csv into this directory")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return outputError("diff", err)
	}

	maxIterations := cfg.MaxIterations
	if len(args) >= 3 {
		maxIterations, err = parseIntArg(args[2], "max_iterations")
		if err != nil {
			return outputError("diff", err)
		}
	}
	topN := cfg.TopN
	if len(args) == 4 {
		topN, err = parseIntArg(args[3], "top_n")
		if err != nil {
			return outputError("diff", err)
		}
	}

	// Ctrl-C cancels the relaxation cooperatively; the partial result is
	// still ranked and exported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sup, iterations, err := edgetrace.DiffDirs(ctx, args[0], args[1], maxIterations, os.Stderr)
	if err != nil {
		return outputError("diff", err)
	}

	ranked := sup.TopEdges(topN)

	if db := firstNonEmpty(flagDB, cfg.Database); db != "" {
		if err := exportDB(db, sup, ranked); err != nil {
			return outputError("diff", err)
		}
	}
	if out := firstNonEmpty(flagOut, cfg.OutputDir); out != "" {
		if err := sup.SaveMethods(out, os.Stderr); err != nil {
			return outputError("diff", err)
		}
	}

	result := CLIDiffResult{
		Supergraph: graphStats(sup),
		Subgraph:   graphStats(sup.Other),
		Iterations: iterations,
		TopEdges:   cliEdges(ranked),
	}

	if flagFormat == "text" {
		if topN > 0 {
			fmt.Fprintf(os.Stdout, "\nTop %d edges:\n", topN)
			formatEdgesText(os.Stdout, result.TopEdges)
		}
		return nil
	}
	return outputResult(CLIResult{Command: "diff", Data: result})
}

// loadConfig resolves the run configuration: built-in defaults, overridden
// by --config, overridden by explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if !cmd.Flags().Changed("format") && !cmd.InheritedFlags().Changed("format") {
		if err := validateFormat(cfg.Format); err != nil {
			return nil, err
		}
		flagFormat = cfg.Format
	}
	return cfg, nil
}

// exportDB saves the diffed graph and its ranking to a SQLite database.
func exportDB(dbPath string, sup *edgetrace.CallGraph, ranked []*edgetrace.Edge) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	if _, err := s.SaveGraph(sup, ranked); err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// graphStats converts a graph's tallies to the CLI envelope form.
func graphStats(cg *edgetrace.CallGraph) CLIGraphStats {
	return CLIGraphStats{
		Name:                cg.Name,
		Methods:             cg.MethodCount,
		Unreachable:         cg.UnreachableCount,
		SpuriouslyReachable: cg.SpuriouslyReachableCount,
		TrulyReachable:      cg.TrulyReachableCount,
		Edges:               cg.EdgeCount,
		SpuriousEdges:       cg.SpuriousCount,
		NonspuriousEdges:    cg.NonspuriousCount,
	}
}

// cliEdges converts ranked edges to the CLI envelope form.
func cliEdges(ranked []*edgetrace.Edge) []CLIEdge {
	edges := make([]CLIEdge, 0, len(ranked))
	for i, e := range ranked {
		edges = append(edges, CLIEdge{
			Rank:     i + 1,
			Value:    e.Value,
			Source:   e.Source.ShortForm(),
			Target:   e.Target.ShortForm(),
			Spurious: e.IsSpurious,
		})
	}
	return edges
}

// parseIntArg parses a positional argument as a non-negative integer with a
// clear error.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// outputResult marshals a CLIResult to stdout as indented JSON.
func outputResult(result CLIResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as
// a CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}
