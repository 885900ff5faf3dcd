package trackview

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
)

// NodeQuery is a compiled boolean expression over anim node attributes.
// The expression sees these variables:
//
//	name      string   node name
//	type      string   node type ("Entity", "Director", ...)
//	disabled  bool
//	selected  bool
//	hidden    bool
//	expanded  bool
//	depth     int      1 for top-level nodes
//	entity    string   bound entity id, "" when none
//	tracks    int      number of tracks directly on the node
//	keys      int      number of keys on those tracks and their sub-tracks
//
// For example: `type == "Entity" && keys > 0`.
type NodeQuery struct {
	source  string
	program *vm.Program
}

func queryEnv(n *AnimNode) map[string]any {
	entity := ""
	if n.entityID != uuid.Nil {
		entity = n.entityID.String()
	}
	tracks, keys := 0, 0
	for _, c := range n.children {
		if t, ok := c.(*Track); ok {
			tracks++
			keys += t.AllKeys().KeyCount()
		}
	}
	depth := 0
	for p := Node(n); p != nil && p.Kind() != KindSequence; p = p.Parent() {
		depth++
	}
	return map[string]any{
		"name":     n.name,
		"type":     n.nodeType.String(),
		"disabled": n.IsDisabled(),
		"selected": n.selected,
		"hidden":   n.hidden,
		"expanded": n.expanded,
		"depth":    depth,
		"entity":   entity,
		"tracks":   tracks,
		"keys":     keys,
	}
}

var queryEnvShape = map[string]any{
	"name": "", "type": "", "disabled": false, "selected": false, "hidden": false,
	"expanded": false, "depth": 0, "entity": "", "tracks": 0, "keys": 0,
}

// CompileNodeQuery compiles source. Unknown variables and non-boolean
// results are compile errors.
func CompileNodeQuery(source string) (*NodeQuery, error) {
	if source == "" {
		return nil, fmt.Errorf("trackview: node query must not be empty")
	}
	program, err := expr.Compile(source, expr.Env(queryEnvShape), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("trackview: compile node query %q: %w", source, err)
	}
	return &NodeQuery{source: source, program: program}, nil
}

// String returns the query source.
func (q *NodeQuery) String() string { return q.source }

// Match evaluates the query for n.
func (q *NodeQuery) Match(n *AnimNode) (bool, error) {
	out, err := expr.Run(q.program, queryEnv(n))
	if err != nil {
		return false, fmt.Errorf("trackview: run node query %q on '%s': %w", q.source, n.name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// FindNodes returns the anim nodes below the sequence root matching source,
// in tree order.
func (s *Sequence) FindNodes(source string) (AnimNodeBundle, error) {
	var b AnimNodeBundle
	q, err := CompileNodeQuery(source)
	if err != nil {
		return b, err
	}
	for _, a := range s.AllAnimNodes().Nodes() {
		ok, err := q.Match(a)
		if err != nil {
			return AnimNodeBundle{}, err
		}
		if ok {
			b.Append(a)
		}
	}
	return b, nil
}

// SelectNodes makes the nodes matching source the node selection and returns
// how many were selected. The selection is unchanged on error.
func (s *Sequence) SelectNodes(source string) (int, error) {
	found, err := s.FindNodes(source)
	if err != nil {
		return 0, err
	}
	batch := s.BeginNotifications()
	defer batch.End()
	for _, a := range s.AllAnimNodes().Nodes() {
		a.SetSelected(found.Contains(a))
	}
	return found.Count(), nil
}
