package edgetrace

import (
	"fmt"
	"io"
)

// CallGraph owns the methods, invoke sites and edges of one static call
// graph. Methods are keyed by qualified name; invokes and edges keep their
// insertion order, which later stages depend on.
type CallGraph struct {
	Name    string
	Methods map[string]*Method
	Invokes []*Invoke
	Edges   []*Edge

	MethodCount              int
	UnreachableCount         int
	SpuriouslyReachableCount int
	TrulyReachableCount      int
	EdgeCount                int
	SpuriousCount            int
	NonspuriousCount         int

	// Other is the paired graph after equivalence linking, or nil.
	Other *CallGraph
}

// NewCallGraph creates an empty named graph.
func NewCallGraph(name string) *CallGraph {
	return &CallGraph{
		Name:    name,
		Methods: make(map[string]*Method),
	}
}

// Devirtualize promotes every virtual invoke with exactly one resolved
// target to a direct invoke, so statically monomorphic call sites produce
// non-spurious edges. Returns the number of promoted invokes.
func (cg *CallGraph) Devirtualize() int {
	count := 0
	for _, inv := range cg.Invokes {
		if !inv.IsDirect && len(inv.Targets) == 1 {
			inv.IsDirect = true
			count++
		}
	}
	return count
}

// BuildEdges materializes the deduplicated edge set from the invoke sites.
// Invokes are walked in insertion order and each resolved target proposes an
// edge (invoke.Method, target); the first occurrence of a (source, target)
// pair wins. Edges from virtual invokes are marked spurious.
func (cg *CallGraph) BuildEdges() {
	seen := make(map[[2]int]bool)
	id := 0

	for _, inv := range cg.Invokes {
		for _, target := range inv.Targets {
			key := [2]int{inv.Method.ID, target.ID}
			if seen[key] {
				continue
			}
			seen[key] = true

			cg.Edges = append(cg.Edges, &Edge{
				ID:         id,
				Source:     inv.Method,
				Target:     target,
				IsSpurious: !inv.IsDirect,
			})
			id++
			cg.EdgeCount++
		}
	}
}

// ComputeReachability runs the fixed-point propagation over the edge list.
// Entry points seed at TrulyReachable; each pass applies the monotonic
// lattice rule per edge until a pass produces no change. A method whose
// reachability is strictly raised gets its value seeded to 1 for the later
// relaxation.
func (cg *CallGraph) ComputeReachability() {
	for _, m := range cg.Methods {
		if m.IsEntryPoint && m.Reachability < TrulyReachable {
			m.Reachability = TrulyReachable
		}
	}

	for changed := true; changed; {
		changed = false

		for _, e := range cg.Edges {
			var proposed Reachability
			switch e.Source.Reachability {
			case TrulyReachable:
				if e.IsSpurious {
					proposed = SpuriouslyReachable
				} else {
					proposed = TrulyReachable
				}
			case SpuriouslyReachable:
				proposed = SpuriouslyReachable
			default:
				continue
			}

			if proposed > e.Target.Reachability {
				e.Target.Reachability = proposed
				e.Target.Value = 1
				changed = true
			}
		}
	}
}

// Tally recomputes the method and edge counters. Informational; later stages
// keep the counters consistent themselves.
func (cg *CallGraph) Tally() {
	cg.MethodCount = 0
	cg.UnreachableCount = 0
	cg.SpuriouslyReachableCount = 0
	cg.TrulyReachableCount = 0
	cg.EdgeCount = 0
	cg.SpuriousCount = 0
	cg.NonspuriousCount = 0

	for _, m := range cg.Methods {
		cg.MethodCount++
		switch m.Reachability {
		case TrulyReachable:
			cg.TrulyReachableCount++
		case SpuriouslyReachable:
			cg.SpuriouslyReachableCount++
		default:
			cg.UnreachableCount++
		}
	}

	for _, e := range cg.Edges {
		cg.EdgeCount++
		if e.IsSpurious {
			cg.SpuriousCount++
		} else {
			cg.NonspuriousCount++
		}
	}
}

// ReachableCount is the number of methods reachable at any lattice level.
func (cg *CallGraph) ReachableCount() int {
	return cg.SpuriouslyReachableCount + cg.TrulyReachableCount
}

// PrintSummary writes the one-line graph summary used as progress output.
func (cg *CallGraph) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s: %d methods (%d reachable), %d edges\n",
		cg.Name, cg.MethodCount, cg.ReachableCount(), cg.EdgeCount)
}

// PurgeUnreachableEdges removes every edge sourced at an unreachable method,
// preserving insertion order among survivors and keeping the edge counters
// consistent. Idempotent.
func (cg *CallGraph) PurgeUnreachableEdges() {
	cg.purgeEdges(func(e *Edge) bool {
		return e.Source.Reachability == Unreachable
	})
}

// PurgeCommonEdges removes every edge whose target has an equivalent that is
// reachable in the paired graph: such targets are already covered by the
// other analysis and carry no diff signal. Requires equivalence links.
// Idempotent.
func (cg *CallGraph) PurgeCommonEdges() {
	cg.purgeEdges(func(e *Edge) bool {
		eq := e.Target.Equivalent
		return eq != nil && eq.Reachability != Unreachable
	})
}

// purgeEdges filters the edge list in place, dropping edges for which drop
// returns true and decrementing the counters accordingly.
func (cg *CallGraph) purgeEdges(drop func(*Edge) bool) {
	kept := cg.Edges[:0]
	for _, e := range cg.Edges {
		if !drop(e) {
			kept = append(kept, e)
			continue
		}
		cg.EdgeCount--
		if e.IsSpurious {
			cg.SpuriousCount--
		} else {
			cg.NonspuriousCount--
		}
	}
	// Clear the tail so dropped edges don't linger in the backing array.
	for i := len(kept); i < len(cg.Edges); i++ {
		cg.Edges[i] = nil
	}
	cg.Edges = kept
}

// LinkEquivalents cross-links methods of the two graphs that share a
// qualified name. Links are symmetric; methods without a counterpart keep a
// nil Equivalent. Also wires the Other back-references of both graphs.
func LinkEquivalents(g1, g2 *CallGraph) {
	for _, m1 := range g1.Methods {
		if m2, ok := g2.Methods[m1.QualifiedName]; ok {
			m1.Equivalent = m2
			m2.Equivalent = m1
		}
	}
	g1.Other = g2
	g2.Other = g1
}
