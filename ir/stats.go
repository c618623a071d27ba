package ir

type Stats struct {
	// number of switch activations, the cost minimized by approximation
	OperationStep int
	// number of resets among them
	NbReset int
	// number of transfers among them
	NbTransfer int
	// number of node versions, including the initial inputs
	NbNode int
	// number of bookkeeping update edges
	NbUpdate int
	// length of the longest dependency chain ending at an exposed output
	Depth int
}

// OperationStep counts the non-update edges.
func (g *Graph) OperationStep() int {
	n := 0
	for _, e := range g.Edges {
		if !e.Update {
			n++
		}
	}
	return n
}

func (g *Graph) GetStats() Stats {
	r := Stats{NbNode: len(g.Nodes)}
	for _, e := range g.Edges {
		switch {
		case e.Update:
			r.NbUpdate++
		case e.Op.Type == OpReset:
			r.NbReset++
		default:
			r.NbTransfer++
		}
	}
	r.OperationStep = r.NbReset + r.NbTransfer

	// ids are topological, so one forward pass settles every depth
	depth := make(map[int]int, len(g.Nodes))
	for _, n := range g.Nodes {
		d := 0
		for _, p := range n.Prev {
			if p != n.ID && depth[p]+1 > d {
				d = depth[p] + 1
			}
		}
		depth[n.ID] = d
	}
	for _, tag := range g.OutputTags() {
		if n, ok := g.Output(tag); ok && depth[n.ID] > r.Depth {
			r.Depth = depth[n.ID]
		}
	}
	return r
}
