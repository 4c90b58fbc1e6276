package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mv02/edgetrace"
)

// SaveGraph writes one graph with its methods, edges and ranked positions in
// a single transaction. ranked is the ordered ranking emission; edges
// outside it get a NULL rank. Returns the new graph row id.
func (s *Store) SaveGraph(cg *edgetrace.CallGraph, ranked []*edgetrace.Edge) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO graphs (name, method_count, unreachable_count,
			spuriously_reachable_count, truly_reachable_count,
			edge_count, spurious_count, nonspurious_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cg.Name, cg.MethodCount, cg.UnreachableCount,
		cg.SpuriouslyReachableCount, cg.TrulyReachableCount,
		cg.EdgeCount, cg.SpuriousCount, cg.NonspuriousCount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert graph: %w", err)
	}
	graphID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("graph id: %w", err)
	}

	methodStmt, err := tx.Prepare(
		`INSERT INTO methods (graph_id, method_id, name, declared_type,
			parameters, return_type, display, flags, qualified_name,
			is_entry_point, reachability, value, present_in_other)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare method insert: %w", err)
	}
	defer methodStmt.Close()

	for _, m := range cg.Methods {
		if _, err := methodStmt.Exec(
			graphID, m.ID, m.Name, m.DeclaredType, m.Params, m.ReturnType,
			m.Display, m.Flags, m.QualifiedName, m.IsEntryPoint,
			int(m.Reachability), m.Value, m.Equivalent != nil,
		); err != nil {
			return 0, fmt.Errorf("insert method %s: %w", m.QualifiedName, err)
		}
	}

	rankOf := make(map[int]int, len(ranked))
	for i, e := range ranked {
		rankOf[e.ID] = i + 1
	}

	edgeStmt, err := tx.Prepare(
		`INSERT INTO edges (graph_id, source_method_id, target_method_id,
			is_spurious, value, rank)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range cg.Edges {
		var rank any
		if r, ok := rankOf[e.ID]; ok {
			rank = r
		}
		if _, err := edgeStmt.Exec(
			graphID, e.Source.ID, e.Target.ID, e.IsSpurious, e.Value, rank,
		); err != nil {
			return 0, fmt.Errorf("insert edge %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return graphID, nil
}

// GraphByName loads the tallies of the most recently saved graph with the
// given name. Returns nil with no error when absent.
func (s *Store) GraphByName(name string) (*edgetrace.CallGraph, error) {
	row := s.db.QueryRow(
		`SELECT name, method_count, unreachable_count,
			spuriously_reachable_count, truly_reachable_count,
			edge_count, spurious_count, nonspurious_count
		 FROM graphs WHERE name = ? ORDER BY id DESC LIMIT 1`, name)

	cg := &edgetrace.CallGraph{}
	err := row.Scan(&cg.Name, &cg.MethodCount, &cg.UnreachableCount,
		&cg.SpuriouslyReachableCount, &cg.TrulyReachableCount,
		&cg.EdgeCount, &cg.SpuriousCount, &cg.NonspuriousCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("graph by name: %w", err)
	}
	return cg, nil
}
