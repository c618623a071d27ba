package ir

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of g: sorted unique ids,
// symmetric adjacency without dangling references, edges pointing forward
// in id order (resets are the only self loops), and table entries that exist.
func (g *Graph) Validate() error {
	for i := 1; i < len(g.Nodes); i++ {
		if g.Nodes[i].ID <= g.Nodes[i-1].ID {
			return fmt.Errorf("node %d: id %d is not increasing", i, g.Nodes[i].ID)
		}
	}
	for _, n := range g.Nodes {
		for _, p := range n.Prev {
			pn, ok := g.Node(p)
			if !ok {
				return fmt.Errorf("node %d: predecessor %d is not found", n.ID, p)
			}
			if !contains(pn.Next, n.ID) {
				return fmt.Errorf("node %d: predecessor %d does not list it as successor", n.ID, p)
			}
		}
		for _, s := range n.Next {
			sn, ok := g.Node(s)
			if !ok {
				return fmt.Errorf("node %d: successor %d is not found", n.ID, s)
			}
			if !contains(sn.Prev, n.ID) {
				return fmt.Errorf("node %d: successor %d does not list it as predecessor", n.ID, s)
			}
		}
	}
	for i, e := range g.Edges {
		if _, ok := g.Node(e.From); !ok {
			return fmt.Errorf("edge %d %q: source %d is not found", i, e.Label(), e.From)
		}
		if _, ok := g.Node(e.To); !ok {
			return fmt.Errorf("edge %d %q: target %d is not found", i, e.Label(), e.To)
		}
		if e.From == e.To {
			if e.Update || e.Op.Type != OpReset {
				return fmt.Errorf("edge %d %q: self loop on a non reset", i, e.Label())
			}
		} else if e.From > e.To {
			return fmt.Errorf("edge %d %q: points backwards from %d to %d", i, e.Label(), e.From, e.To)
		}
	}
	for sw, id := range g.Table {
		n, ok := g.Node(id)
		if !ok {
			return fmt.Errorf("switch %s: latest node %d is not found", sw, id)
		}
		if n.Switch != sw {
			return fmt.Errorf("switch %s: latest node %d belongs to %s", sw, id, n.Switch)
		}
	}
	for tag, sw := range g.Outputs {
		if _, ok := g.Table[sw]; !ok {
			return fmt.Errorf("output %s: switch %s is not found", tag, sw)
		}
	}
	return nil
}

func contains(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Print writes a readable dump of g: nodes with their role and expression, then edges.
func (g *Graph) Print() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d nodes, %d edges, cost %d\n", len(g.Nodes), len(g.Edges), g.OperationStep())
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "v%d %s.%s = %s\n", n.ID, n.Switch, n.Role, n.Expr)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "v%d -> v%d [%s]\n", e.From, e.To, e.Label())
	}
	for _, tag := range g.OutputTags() {
		fmt.Fprintf(&sb, "%s: %s\n", tag, g.Outputs[tag])
	}
	return sb.String()
}
