package edgetrace

import "fmt"

// Cypher returns a Neo4j query matching this method by its four-attribute
// key. The literal shape of the query is relied on by downstream tooling.
func (m *Method) Cypher() string {
	return fmt.Sprintf(
		"MATCH (m:Method {Type: '%s', Name: '%s', Parameters: '%s', Return: '%s'}) RETURN m\n",
		m.DeclaredType, m.Name, m.Params, m.ReturnType)
}

// Cypher returns a Neo4j query matching this edge as (m1)-[:CALLS]->(m2).
// With depth > 0 the query additionally matches a variable-length path from
// the callee through methods absent from the other graph.
func (e *Edge) Cypher(depth int) string {
	if depth > 0 {
		return fmt.Sprintf(
			"MATCH (m1:Method {Type: '%s', Name: '%s', Parameters: '%s', Return: '%s'})\n"+
				"-[:CALLS]->(m2:Method {Type: '%s', Name: '%s', Parameters: '%s', Return: '%s'})\n"+
				"MATCH path = (m2)-[:CALLS]->{0,%d}(:Method {PresentInOther: 'false'})\n"+
				"WHERE ALL(m IN nodes(path) WHERE m.PresentInOther = 'false')\n"+
				"RETURN m1, m2, path\n",
			e.Source.DeclaredType, e.Source.Name, e.Source.Params, e.Source.ReturnType,
			e.Target.DeclaredType, e.Target.Name, e.Target.Params, e.Target.ReturnType,
			depth)
	}
	return fmt.Sprintf(
		"MATCH (m1:Method {Type: '%s', Name: '%s', Parameters: '%s', Return: '%s'})\n"+
			"-[:CALLS]->(m2:Method {Type: '%s', Name: '%s', Parameters: '%s', Return: '%s'})\n"+
			"RETURN m1, m2\n",
		e.Source.DeclaredType, e.Source.Name, e.Source.Params, e.Source.ReturnType,
		e.Target.DeclaredType, e.Target.Name, e.Target.Params, e.Target.ReturnType)
}
