package ir

import (
	"sort"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/pkg/errors"
)

type Role int

const (
	_              = 0
	RoleInput Role = iota
	RoleState
	RoleOutput
	RoleDeleted
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleState:
		return "state"
	case RoleOutput:
		return "output"
	case RoleDeleted:
		return "deleted"
	}
	return "invalid"
}

// Node is one version of a switch. Its expression never changes after creation.
type Node struct {
	ID     int
	Switch string
	Role   Role
	Expr   expr.Expression
	Prev   []int
	Next   []int
}

// Edge connects two node versions. Update edges link a switch version to its
// successor and are bookkeeping only; every other edge carries the operation
// that created its target.
type Edge struct {
	From   int
	To     int
	Update bool
	Op     Operation
}

func (e Edge) Label() string {
	if e.Update {
		return "UPDATE:" + e.Op.Dst
	}
	return e.Op.String()
}

// Graph is the versioned dependency graph of one primitive.
// Nodes are sorted by ID and IDs follow construction order, which is a topological order.
type Graph struct {
	Nodes []Node
	Edges []Edge
	// switches in declaration order
	Switches []string
	// declared output tags, exposed or not
	Tags []string
	// latest node id per switch
	Table map[string]int
	// output tag -> switch
	Outputs map[string]string
	nextID  int
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	i := sort.Search(len(g.Nodes), func(i int) bool { return g.Nodes[i].ID >= id })
	if i < len(g.Nodes) && g.Nodes[i].ID == id {
		return &g.Nodes[i], true
	}
	return nil, false
}

func (g *Graph) mustNode(id int) *Node {
	n, ok := g.Node(id)
	if !ok {
		panic("unexpected: node not found")
	}
	return n
}

// Latest returns the current version of a switch.
func (g *Graph) Latest(sw string) (*Node, bool) {
	id, ok := g.Table[sw]
	if !ok {
		return nil, false
	}
	return g.Node(id)
}

// Output returns the node currently exposed under tag.
func (g *Graph) Output(tag string) (*Node, bool) {
	sw, ok := g.Outputs[tag]
	if !ok {
		return nil, false
	}
	return g.Latest(sw)
}

// OutputTags lists the exposed tags in sorted order.
func (g *Graph) OutputTags() []string {
	res := make([]string, 0, len(g.Outputs))
	for tag := range g.Outputs {
		res = append(res, tag)
	}
	sort.Strings(res)
	return res
}

func (g *Graph) addNode(sw string, role Role, e expr.Expression) *Node {
	g.Nodes = append(g.Nodes, Node{
		ID:     g.nextID,
		Switch: sw,
		Role:   role,
		Expr:   e,
	})
	g.nextID++
	g.Table[sw] = g.nextID - 1
	return &g.Nodes[len(g.Nodes)-1]
}

func (g *Graph) addEdge(from, to int, update bool, op Operation) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Update: update, Op: op})
	f := g.mustNode(from)
	f.Next = append(f.Next, to)
	t := g.mustNode(to)
	t.Prev = append(t.Prev, from)
}

// Build replays ops over the given switches. Every switch starts as an input
// node holding the variable of the same name. Tags must be among tags.
func Build(eng *expr.Engine, switches []string, tags []string, ops []Operation) (*Graph, error) {
	g := &Graph{
		Nodes:    make([]Node, 0, len(switches)+len(ops)),
		Switches: append([]string(nil), switches...),
		Tags:     append([]string(nil), tags...),
		Table:    make(map[string]int, len(switches)),
		Outputs:  make(map[string]string),
	}
	for _, sw := range switches {
		if _, ok := g.Table[sw]; ok {
			return nil, errors.Errorf("duplicate switch %q", sw)
		}
		g.addNode(sw, RoleInput, eng.Var(sw))
	}
	declared := make(map[string]bool, len(tags))
	for _, tag := range tags {
		declared[tag] = true
	}

	for i, op := range ops {
		switch op.Type {
		case OpReset:
			if _, ok := g.Table[op.Dst]; !ok {
				return nil, errors.Wrapf(ErrReference, "operation %d %q: unknown switch %q", i, op, op.Dst)
			}
			n := g.addNode(op.Dst, RoleInput, eng.False())
			g.addEdge(n.ID, n.ID, false, op)
		case OpTransfer:
			src, ok := g.Latest(op.Src)
			if !ok {
				return nil, errors.Wrapf(ErrReference, "operation %d %q: uninitialized switch %q", i, op, op.Src)
			}
			prev, ok := g.Latest(op.Dst)
			if !ok {
				return nil, errors.Wrapf(ErrReference, "operation %d %q: uninitialized switch %q", i, op, op.Dst)
			}
			role := RoleState
			if op.Tag != "" {
				if !declared[op.Tag] {
					return nil, errors.Wrapf(ErrReference, "operation %d %q: undeclared output tag %q", i, op, op.Tag)
				}
				role = RoleOutput
				g.Outputs[op.Tag] = op.Dst
			}
			srcID, prevID := src.ID, prev.ID
			// the pass gate charges dst while src is low and keeps any earlier charge
			e := src.Expr.Not().Or(prev.Expr)
			n := g.addNode(op.Dst, role, e)
			g.addEdge(prevID, n.ID, true, op)
			g.addEdge(srcID, n.ID, false, op)
		default:
			return nil, errors.Wrapf(ErrParse, "operation %d: unknown type %d", i, op.Type)
		}
	}
	return g, nil
}

// Operations re-linearizes the non-update edges in their original order.
func (g *Graph) Operations() []Operation {
	res := make([]Operation, 0, len(g.Edges))
	for _, e := range g.Edges {
		if !e.Update {
			res = append(res, e.Op)
		}
	}
	return res
}
