package ir

import "github.com/PolyhedraZK/ApproxSwitchCompiler/expr"

// Prune returns the subgraph that the outputs in keep depend on.
// It follows a simple strategy:
// 1. mark the latest node of every kept output as used
// 2. if a node is used, mark all its predecessors as used
// Edges survive only if both endpoints are used, and adjacency lists are
// filtered so that no kept node references a removed one. A switch whose
// latest version was removed is pointed at a fresh deleted node holding false.
func (g *Graph) Prune(eng *expr.Engine, keep []string) *Graph {
	isUsed := make(map[int]bool, len(g.Nodes))
	var markUsed func(id int)
	markUsed = func(id int) {
		if isUsed[id] {
			return
		}
		isUsed[id] = true
		for _, p := range g.mustNode(id).Prev {
			markUsed(p)
		}
	}
	for _, tag := range keep {
		if n, ok := g.Output(tag); ok {
			markUsed(n.ID)
		}
	}

	res := &Graph{
		Nodes:    make([]Node, 0, len(isUsed)),
		Switches: g.Switches,
		Tags:     g.Tags,
		Table:    make(map[string]int, len(g.Table)),
		Outputs:  make(map[string]string, len(keep)),
		nextID:   g.nextID,
	}
	filter := func(ids []int) []int {
		out := make([]int, 0, len(ids))
		for _, id := range ids {
			if isUsed[id] {
				out = append(out, id)
			}
		}
		return out
	}
	for _, n := range g.Nodes {
		if !isUsed[n.ID] {
			continue
		}
		res.Nodes = append(res.Nodes, Node{
			ID:     n.ID,
			Switch: n.Switch,
			Role:   n.Role,
			Expr:   n.Expr,
			Prev:   filter(n.Prev),
			Next:   filter(n.Next),
		})
	}
	for _, e := range g.Edges {
		if isUsed[e.From] && isUsed[e.To] {
			res.Edges = append(res.Edges, e)
		}
	}
	for _, tag := range keep {
		if sw, ok := g.Outputs[tag]; ok {
			res.Outputs[tag] = sw
		}
	}

	for _, sw := range g.Switches {
		id := g.Table[sw]
		if isUsed[id] {
			res.Table[sw] = id
		} else {
			res.addNode(sw, RoleDeleted, eng.False())
		}
	}
	return res
}
