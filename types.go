package edgetrace

import "fmt"

// Reachability classifies a method by how an entry point can reach it.
// The values form a lattice: Unreachable < SpuriouslyReachable < TrulyReachable.
type Reachability int

const (
	// Unreachable means no path from an entry point reaches the method.
	Unreachable Reachability = iota
	// SpuriouslyReachable means every path from an entry point crosses at
	// least one spurious (virtual-dispatch) edge.
	SpuriouslyReachable
	// TrulyReachable means a path of only direct edges reaches the method.
	TrulyReachable
)

func (r Reachability) String() string {
	switch r {
	case TrulyReachable:
		return "truly reachable"
	case SpuriouslyReachable:
		return "spuriously reachable"
	default:
		return "unreachable"
	}
}

// Method is one program method of a call graph. The ID is only meaningful
// during loading, where it resolves cross-references between the input
// tables; QualifiedName is the identity used everywhere else.
type Method struct {
	ID            int
	Name          string
	DeclaredType  string
	Params        string
	ReturnType    string
	Display       string
	Flags         string
	QualifiedName string
	IsEntryPoint  bool

	Reachability Reachability
	Value        float64

	// Equivalent points to the method with the same qualified name in the
	// paired graph, or nil. The link is symmetric and non-owning.
	Equivalent *Method
}

// NewMethod builds a Method and derives its qualified name.
func NewMethod(id int, name, declaredType, params, returnType, display, flags string, isEntryPoint bool) *Method {
	return &Method{
		ID:            id,
		Name:          name,
		DeclaredType:  declaredType,
		Params:        params,
		ReturnType:    returnType,
		Display:       display,
		Flags:         flags,
		QualifiedName: declaredType + "." + name + "(" + params + "):" + flags + ":" + returnType,
		IsEntryPoint:  isEntryPoint,
	}
}

// ShortForm renders the method as "Type.Name(Params)".
func (m *Method) ShortForm() string {
	return fmt.Sprintf("%s.%s(%s)", m.DeclaredType, m.Name, m.Params)
}

// Invoke is a single call site inside a caller method. Target is the nominal
// (static) target from the invokes table; Targets are the resolved targets
// appended from the targets table, in file order.
type Invoke struct {
	ID       int
	Method   *Method
	Target   *Method
	Bci      string
	IsDirect bool
	Targets  []*Method
}

// AddTarget appends a resolved call target.
func (inv *Invoke) AddTarget(m *Method) {
	inv.Targets = append(inv.Targets, m)
}

// Edge is a directed call-graph edge materialized from invoke sites. At most
// one edge exists per (Source.ID, Target.ID) pair within a graph.
type Edge struct {
	ID         int
	Source     *Method
	Target     *Method
	IsSpurious bool
	Value      float64
}

// String renders the edge as "[value] src -> tgt" using the 4-significant-digit
// form the ranked output prints.
func (e *Edge) String() string {
	return fmt.Sprintf("[%.4g] %s -> %s", e.Value, e.Source.ShortForm(), e.Target.ShortForm())
}
