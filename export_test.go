package edgetrace

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveMethods(t *testing.T) {
	t.Parallel()

	cg := NewCallGraph("Supergraph")
	addMethod(cg, NewMethod(0, "a", "App", "int", "void", "App.a", "static", true))
	addMethod(cg, NewMethod(1, "b", "App", "", "void", "App.b", "", false))

	other := NewCallGraph("Subgraph")
	addMethod(other, NewMethod(0, "a", "App", "int", "void", "App.a", "static", true))
	LinkEquivalents(cg, other)

	dir := t.TempDir()
	require.NoError(t, cg.SaveMethods(dir, io.Discard))

	data, err := os.ReadFile(filepath.Join(dir, "methods.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Id,Name,Type,Parameters,Return,Display,Flags,IsEntryPoint,PresentInOther", lines[0])
	assert.Contains(t, lines, "0,a,App,int,void,App.a,static,true,true")
	assert.Contains(t, lines, "1,b,App,,void,App.b,,false,false")
}

func TestSaveMethods_BadDirectory(t *testing.T) {
	t.Parallel()

	cg := NewCallGraph("Supergraph")
	err := cg.SaveMethods(filepath.Join(t.TempDir(), "missing"), io.Discard)
	require.Error(t, err)
}

func TestInvokeDescribe(t *testing.T) {
	t.Parallel()

	a := NewMethod(0, "a", "App", "", "void", "", "", true)
	b := NewMethod(1, "b", "App", "", "void", "", "", false)
	c := NewMethod(2, "c", "App", "", "void", "", "", false)

	direct := &Invoke{ID: 3, Method: a, Target: b, IsDirect: true, Targets: []*Method{b}}
	assert.Equal(t, "Invoke 3 (direct): App.a() -> App.b()", direct.Describe())

	virtual := &Invoke{ID: 4, Method: a, Target: b, IsDirect: false, Targets: []*Method{b, c}}
	got := virtual.Describe()
	assert.Contains(t, got, "Invoke 4 (virtual, 2 targets): App.a() -> App.b()")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  * -> App.b()::void", lines[1])
	assert.Equal(t, "    -> App.c()::void", lines[2])
}
