package edgetrace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// SaveMethods writes the graph's method table to methods.csv under dir,
// annotating each method with whether an equivalent exists in the paired
// graph. Row order follows map iteration and is unspecified.
func (cg *CallGraph) SaveMethods(dir string, progress io.Writer) error {
	path := filepath.Join(dir, "methods.csv")
	fmt.Fprintf(progress, "Opening file %s\n", path)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save methods: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Id,Name,Type,Parameters,Return,Display,Flags,IsEntryPoint,PresentInOther")
	for _, m := range cg.Methods {
		fmt.Fprintf(w, "%d,%s,%s,%s,%s,%s,%s,%s,%s\n",
			m.ID, m.Name, m.DeclaredType, m.Params, m.ReturnType, m.Display, m.Flags,
			strconv.FormatBool(m.IsEntryPoint), strconv.FormatBool(m.Equivalent != nil))
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("save methods: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save methods: %w", err)
	}
	return nil
}

// Describe renders the invoke site for diagnostics: direct sites as a single
// caller -> target line, polymorphic sites with their resolved target list.
// The nominal target is starred in the list.
func (inv *Invoke) Describe() string {
	kind := "direct"
	if !inv.IsDirect {
		kind = fmt.Sprintf("virtual, %d targets", len(inv.Targets))
	}
	s := fmt.Sprintf("Invoke %d (%s): %s -> %s",
		inv.ID, kind, inv.Method.ShortForm(), inv.Target.ShortForm())

	if len(inv.Targets) > 1 {
		for _, t := range inv.Targets {
			marker := " "
			if t.ID == inv.Target.ID {
				marker = "*"
			}
			s += fmt.Sprintf("\n  %s -> %s", marker, t.QualifiedName)
		}
	}
	return s
}
