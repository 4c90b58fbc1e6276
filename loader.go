package edgetrace

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/mv02/edgetrace/internal/tabular"
)

// Input table file names, all siblings in one graph directory.
const (
	MethodsFile = "call_tree_methods.csv"
	InvokesFile = "call_tree_invokes.csv"
	TargetsFile = "call_tree_targets.csv"
)

// Load reads the three call-tree tables under dir into a new graph named
// name, resolving cross-references by integer id. Progress notices are
// written to progress. Only the entities are loaded; edge building and
// reachability are separate steps so the caller can devirtualize first.
func Load(dir, name string, progress io.Writer) (*CallGraph, error) {
	cg := NewCallGraph(name)

	// Dense id-indexed lookups, alive only for the duration of the load.
	var methodsByID []*Method
	var invokesByID []*Invoke

	if err := loadMethods(dir, cg, &methodsByID, progress); err != nil {
		return nil, err
	}
	if err := loadInvokes(dir, cg, methodsByID, &invokesByID, progress); err != nil {
		return nil, err
	}
	if err := loadTargets(dir, methodsByID, invokesByID, progress); err != nil {
		return nil, err
	}

	return cg, nil
}

func loadMethods(dir string, cg *CallGraph, byID *[]*Method, progress io.Writer) error {
	path := filepath.Join(dir, MethodsFile)
	fmt.Fprintf(progress, "Opening file %s\n", path)

	r, err := tabular.Open(path)
	if err != nil {
		return &LoadError{File: path, Err: err}
	}
	defer r.Close()

	for {
		fields, ok := r.Next()
		if !ok {
			break
		}

		// A 7-field row means the Flags column is empty: shift IsEntryPoint
		// back into place.
		if len(fields) == 7 {
			fields = append(fields[:6], "", fields[6])
		}
		if len(fields) != 8 {
			return &LoadError{File: path, Row: r.Row(),
				Err: fmt.Errorf("expected 7 or 8 fields, got %d", len(fields))}
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("method id: %w", err)}
		}

		params := fields[3]
		if params == "empty" {
			params = ""
		}

		m := NewMethod(id, fields[1], fields[2], params, fields[4],
			fields[5], fields[6], fields[7] == "true")
		cg.Methods[m.QualifiedName] = m
		putIndexed(byID, id, m)
	}

	if err := r.Err(); err != nil {
		return &LoadError{File: path, Row: r.Row(), Err: err}
	}
	return nil
}

func loadInvokes(dir string, cg *CallGraph, methodsByID []*Method, byID *[]*Invoke, progress io.Writer) error {
	path := filepath.Join(dir, InvokesFile)
	fmt.Fprintf(progress, "Opening file %s\n", path)

	r, err := tabular.Open(path)
	if err != nil {
		return &LoadError{File: path, Err: err}
	}
	defer r.Close()

	for {
		fields, ok := r.Next()
		if !ok {
			break
		}
		if len(fields) != 5 {
			return &LoadError{File: path, Row: r.Row(),
				Err: fmt.Errorf("expected 5 fields, got %d", len(fields))}
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("invoke id: %w", err)}
		}
		methodID, err := strconv.Atoi(fields[1])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("method id: %w", err)}
		}
		targetID, err := strconv.Atoi(fields[3])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("target id: %w", err)}
		}

		method := getIndexed(methodsByID, methodID)
		if method == nil {
			return &InconsistentGraphError{File: path, Row: r.Row(), Kind: "method", ID: methodID}
		}
		target := getIndexed(methodsByID, targetID)
		if target == nil {
			return &InconsistentGraphError{File: path, Row: r.Row(), Kind: "method", ID: targetID}
		}

		inv := &Invoke{
			ID:       id,
			Method:   method,
			Target:   target,
			Bci:      fields[2],
			IsDirect: fields[4] == "true",
		}
		cg.Invokes = append(cg.Invokes, inv)
		putIndexed(byID, id, inv)
	}

	if err := r.Err(); err != nil {
		return &LoadError{File: path, Row: r.Row(), Err: err}
	}
	return nil
}

func loadTargets(dir string, methodsByID []*Method, invokesByID []*Invoke, progress io.Writer) error {
	path := filepath.Join(dir, TargetsFile)
	fmt.Fprintf(progress, "Opening file %s\n", path)

	r, err := tabular.Open(path)
	if err != nil {
		return &LoadError{File: path, Err: err}
	}
	defer r.Close()

	for {
		fields, ok := r.Next()
		if !ok {
			break
		}
		if len(fields) != 2 {
			return &LoadError{File: path, Row: r.Row(),
				Err: fmt.Errorf("expected 2 fields, got %d", len(fields))}
		}

		invokeID, err := strconv.Atoi(fields[0])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("invoke id: %w", err)}
		}
		targetID, err := strconv.Atoi(fields[1])
		if err != nil {
			return &LoadError{File: path, Row: r.Row(), Err: fmt.Errorf("target method id: %w", err)}
		}

		inv := getIndexed(invokesByID, invokeID)
		if inv == nil {
			return &InconsistentGraphError{File: path, Row: r.Row(), Kind: "invoke", ID: invokeID}
		}
		target := getIndexed(methodsByID, targetID)
		if target == nil {
			return &InconsistentGraphError{File: path, Row: r.Row(), Kind: "method", ID: targetID}
		}

		inv.AddTarget(target)
	}

	if err := r.Err(); err != nil {
		return &LoadError{File: path, Row: r.Row(), Err: err}
	}
	return nil
}

// putIndexed stores v at index id, growing the slice with nils as needed.
func putIndexed[T any](s *[]*T, id int, v *T) {
	if id < 0 {
		return
	}
	for len(*s) <= id {
		*s = append(*s, nil)
	}
	(*s)[id] = v
}

// getIndexed returns the value at index id, or nil when out of range.
func getIndexed[T any](s []*T, id int) *T {
	if id < 0 || id >= len(s) {
		return nil
	}
	return s[id]
}
