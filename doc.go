// Package edgetrace compares two static call graphs of the same program — a
// supergraph (a larger, typically whole-program analysis) and a subgraph (a
// smaller analysis, e.g. conservative reachability from known entry points)
// — and ranks the call edges unique to the supergraph by how likely they
// represent genuinely reachable but unanalyzed behavior.
//
// # Pipeline
//
// A run walks both graphs through the same preparation, then diffs:
//
//  1. Load: parse the three call-tree tables (methods, invokes, targets)
//     into an in-memory entity graph, resolving cross-references by id.
//  2. Devirtualize (supergraph only): promote statically monomorphic
//     virtual invokes to direct ones.
//  3. Build edges: materialize the deduplicated edge set from invoke sites;
//     edges from virtual invokes are spurious.
//  4. Reachability: fixed-point propagation over the
//     Unreachable < SpuriouslyReachable < TrulyReachable lattice, seeded at
//     entry points.
//  5. Purge and link: drop supergraph edges sourced at unreachable methods,
//     cross-link methods of the two graphs by qualified name, then drop
//     edges whose target the subgraph already covers.
//  6. Relax: iteratively distribute value along the remaining supergraph
//     edges until convergence, an iteration cap, or cancellation.
//  7. Rank: emit the top-N edges by value whose caller exists in both
//     graphs.
//
// # Usage
//
// Load and diff two graph directories, then rank:
//
//	sup, iterations, err := edgetrace.DiffDirs(ctx, dir1, dir2, 1000, os.Stderr)
//	if err != nil { ... }
//	sup.PrintTopEdges(os.Stdout, 10)
//
// The individual stages ([Load], [CallGraph.BuildEdges],
// [CallGraph.ComputeReachability], [LinkEquivalents], [Diff], ...) are
// exported for callers that need finer control.
package edgetrace
