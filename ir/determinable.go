package ir

type determinableChecker struct {
	g            *Graph
	determinable map[int]bool
}

// Undetermined lists the exposed output tags, sorted, whose value may depend
// on the initial charge of a switch that is not among inputs. It follows the
// edges, not the expressions, so an output is flagged even if the dependency
// folds away.
func (g *Graph) Undetermined(inputs []string) []string {
	dc := determinableChecker{
		g:            g,
		determinable: make(map[int]bool, len(g.Nodes)),
	}
	dc.run(inputs)
	res := []string{}
	for _, tag := range g.OutputTags() {
		n, _ := g.Output(tag)
		if !dc.determinable[n.ID] {
			res = append(res, tag)
		}
	}
	return res
}

// IsAllOutputsDeterminable reports whether every exposed output is a function
// of the input switches alone.
func (g *Graph) IsAllOutputsDeterminable(inputs []string) bool {
	return len(g.Undetermined(inputs)) == 0
}

func (dc *determinableChecker) run(inputs []string) {
	isInput := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		isInput[in] = true
	}
	for _, n := range dc.g.Nodes {
		switch {
		case len(n.Prev) == 0:
			// initial version, or a deleted placeholder holding false
			dc.determinable[n.ID] = n.Role == RoleDeleted || isInput[n.Switch]
		case n.Role == RoleInput:
			// reset, its only predecessor is itself
			dc.determinable[n.ID] = true
		default:
			d := true
			for _, p := range n.Prev {
				if !dc.determinable[p] {
					d = false
				}
			}
			dc.determinable[n.ID] = d
		}
	}
}
