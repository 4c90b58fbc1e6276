package store

import (
	"path/filepath"
	"testing"

	"github.com/mv02/edgetrace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

// diffedGraph builds a small already-diffed graph: a -> b with an equivalent
// for a in a paired graph.
func diffedGraph() (*edgetrace.CallGraph, []*edgetrace.Edge) {
	cg := edgetrace.NewCallGraph("Supergraph")
	a := edgetrace.NewMethod(0, "a", "App", "", "void", "App.a", "", true)
	b := edgetrace.NewMethod(1, "b", "App", "", "void", "App.b", "", false)
	cg.Methods[a.QualifiedName] = a
	cg.Methods[b.QualifiedName] = b

	other := edgetrace.NewCallGraph("Subgraph")
	oa := edgetrace.NewMethod(0, "a", "App", "", "void", "App.a", "", true)
	other.Methods[oa.QualifiedName] = oa
	edgetrace.LinkEquivalents(cg, other)

	a.Reachability = edgetrace.TrulyReachable
	b.Reachability = edgetrace.SpuriouslyReachable
	b.Value = 0.25

	e := &edgetrace.Edge{ID: 0, Source: a, Target: b, IsSpurious: true, Value: 1.5}
	cg.Edges = []*edgetrace.Edge{e}
	cg.Tally()
	return cg, []*edgetrace.Edge{e}
}

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"graphs", "methods", "edges"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestMigrate_WALMode(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	var mode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestSaveGraph(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	cg, ranked := diffedGraph()
	graphID, err := s.SaveGraph(cg, ranked)
	require.NoError(t, err)
	require.Positive(t, graphID)

	var methodCount int
	require.NoError(t, s.db.QueryRow(
		"SELECT COUNT(*) FROM methods WHERE graph_id = ?", graphID).Scan(&methodCount))
	assert.Equal(t, 2, methodCount)

	// The method with an equivalent is marked present.
	var present bool
	require.NoError(t, s.db.QueryRow(
		"SELECT present_in_other FROM methods WHERE graph_id = ? AND qualified_name = ?",
		graphID, "App.a()::void").Scan(&present))
	assert.True(t, present)
	require.NoError(t, s.db.QueryRow(
		"SELECT present_in_other FROM methods WHERE graph_id = ? AND qualified_name = ?",
		graphID, "App.b()::void").Scan(&present))
	assert.False(t, present)

	// The ranked edge carries its 1-based position.
	var rank int
	var value float64
	require.NoError(t, s.db.QueryRow(
		"SELECT rank, value FROM edges WHERE graph_id = ?", graphID).Scan(&rank, &value))
	assert.Equal(t, 1, rank)
	assert.InDelta(t, 1.5, value, 1e-9)
}

func TestSaveGraph_UnrankedEdgeHasNullRank(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	cg, _ := diffedGraph()
	graphID, err := s.SaveGraph(cg, nil)
	require.NoError(t, err)

	var rank *int
	require.NoError(t, s.db.QueryRow(
		"SELECT rank FROM edges WHERE graph_id = ?", graphID).Scan(&rank))
	assert.Nil(t, rank)
}

func TestGraphByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	cg, ranked := diffedGraph()
	_, err := s.SaveGraph(cg, ranked)
	require.NoError(t, err)

	got, err := s.GraphByName("Supergraph")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cg.MethodCount, got.MethodCount)
	assert.Equal(t, cg.EdgeCount, got.EdgeCount)
	assert.Equal(t, cg.SpuriousCount, got.SpuriousCount)

	missing, err := s.GraphByName("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveGraph_TwoGraphs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	cg, ranked := diffedGraph()
	id1, err := s.SaveGraph(cg, ranked)
	require.NoError(t, err)
	id2, err := s.SaveGraph(cg.Other, nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	var graphCount int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM graphs").Scan(&graphCount))
	assert.Equal(t, 2, graphCount)
}
