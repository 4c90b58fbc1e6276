package edgetrace

import (
	"fmt"
	"io"
	"sort"
)

// TopEdges returns the n highest-valued edges whose source has an equivalent
// in the paired graph. Edges whose caller is unknown to the other analysis
// are not actionable diffs and are skipped. Ties sort by ascending edge id
// so the order is deterministic.
func (cg *CallGraph) TopEdges(n int) []*Edge {
	ranked := make([]*Edge, len(cg.Edges))
	copy(ranked, cg.Edges)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].ID < ranked[j].ID
	})

	top := make([]*Edge, 0, n)
	for _, e := range ranked {
		if len(top) == n {
			break
		}
		if e.Source.Equivalent == nil {
			continue
		}
		top = append(top, e)
	}
	return top
}

// PrintTopEdges writes the ranked edge list, one line per edge.
func (cg *CallGraph) PrintTopEdges(w io.Writer, n int) {
	for _, e := range cg.TopEdges(n) {
		fmt.Fprintln(w, e)
	}
}
