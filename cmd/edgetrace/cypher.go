package main

import (
	"fmt"
	"os"

	"github.com/mv02/edgetrace"
	"github.com/spf13/cobra"
)

var cypherCmd = &cobra.Command{
	Use:   "cypher DIR1 DIR2 SOURCE TARGET [depth]",
	Short: "Emit a Neo4j Cypher query for one diffed edge",
	Long: "Loads and prepares both graphs, finds the supergraph edge between the " +
		"methods with the given qualified names, and prints a Cypher query " +
		"matching it. A positive depth extends the match with a path through " +
		"methods absent from the subgraph.",
	Args: cobra.RangeArgs(4, 5),
	RunE: runCypher,
}

func runCypher(cmd *cobra.Command, args []string) error {
	depth := 0
	if len(args) == 5 {
		var err error
		depth, err = parseIntArg(args[4], "depth")
		if err != nil {
			return outputError("cypher", err)
		}
	}

	sup, err := edgetrace.Load(args[0], "Supergraph", os.Stderr)
	if err != nil {
		return outputError("cypher", fmt.Errorf("load supergraph: %w", err))
	}
	sub, err := edgetrace.Load(args[1], "Subgraph", os.Stderr)
	if err != nil {
		return outputError("cypher", fmt.Errorf("load subgraph: %w", err))
	}

	sup.Devirtualize()
	sup.BuildEdges()
	sub.BuildEdges()
	sup.ComputeReachability()
	sub.ComputeReachability()
	edgetrace.LinkEquivalents(sup, sub)

	source, ok := sup.Methods[args[2]]
	if !ok {
		return outputError("cypher", fmt.Errorf("no method %q in supergraph", args[2]))
	}
	target, ok := sup.Methods[args[3]]
	if !ok {
		return outputError("cypher", fmt.Errorf("no method %q in supergraph", args[3]))
	}

	for _, e := range sup.Edges {
		if e.Source == source && e.Target == target {
			if flagFormat == "json" {
				return outputResult(CLIResult{Command: "cypher", Data: e.Cypher(depth)})
			}
			fmt.Fprint(os.Stdout, e.Cypher(depth))
			return nil
		}
	}
	return outputError("cypher", fmt.Errorf("no edge %s -> %s in supergraph", args[2], args[3]))
}
