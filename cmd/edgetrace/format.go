package main

import (
	"fmt"
	"io"
)

// formatEdgesText renders ranked edges one per line:
// [<value>] <src_type>.<src_name>(<src_params>) -> <tgt_type>.<tgt_name>(<tgt_params>)
func formatEdgesText(w io.Writer, edges []CLIEdge) {
	for _, e := range edges {
		fmt.Fprintf(w, "[%.4g] %s -> %s\n", e.Value, e.Source, e.Target)
	}
}
