package multiplier

import (
	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/pkg/errors"
)

// Levels returns the evaluation order grouped by depth in the connection
// graph. Level 0 holds the instances fed by no connection (the AND gates);
// every later instance sits one level after its deepest source. Within a
// level instances keep declaration order.
func (m *Multiplier) Levels() ([][]string, error) {
	if m.levels != nil {
		return m.levels, nil
	}
	indeg := make(map[string]int, len(m.ids))
	succ := make(map[string][]string, len(m.ids))
	for _, c := range m.conns {
		indeg[c.Dst.Instance]++
		succ[c.Src.Instance] = append(succ[c.Src.Instance], c.Dst.Instance)
	}

	levels := [][]string{}
	done := 0
	ready := make(map[string]bool)
	for _, id := range m.ids {
		if indeg[id] == 0 {
			ready[id] = true
		}
	}
	for len(ready) > 0 {
		cur := make([]string, 0, len(ready))
		for _, id := range m.ids {
			if ready[id] {
				cur = append(cur, id)
			}
		}
		ready = make(map[string]bool)
		for _, id := range cur {
			for _, s := range succ[id] {
				indeg[s]--
				if indeg[s] == 0 {
					ready[s] = true
				}
			}
		}
		levels = append(levels, cur)
		done += len(cur)
	}
	if done != len(m.ids) {
		stuck := []string{}
		for _, id := range m.ids {
			if indeg[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, errors.Wrapf(ErrCyclicWiring, "%d instances never become ready: %v", len(stuck), stuck)
	}
	m.levels = levels
	return levels, nil
}

// Order is the flattened evaluation order.
func (m *Multiplier) Order() ([]string, error) {
	levels, err := m.Levels()
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(m.ids))
	for _, l := range levels {
		res = append(res, l...)
	}
	return res, nil
}

type Stats struct {
	NbInstance    map[component.Kind]int
	NbConnection  int
	NbDrop        int
	NbApproximate int
	OperationStep int

	// instances per topological level
	Levels []int
}

func (m *Multiplier) Stats() (Stats, error) {
	levels, err := m.Levels()
	if err != nil {
		return Stats{}, err
	}
	s := Stats{
		NbInstance:    make(map[component.Kind]int),
		NbConnection:  len(m.conns),
		OperationStep: m.OperationStep(),
		Levels:        make([]int, len(levels)),
	}
	for i, l := range levels {
		s.Levels[i] = len(l)
	}
	for _, id := range m.ids {
		in := m.instances[id]
		s.NbInstance[in.Kind()]++
		s.NbDrop += len(in.Dropped())
		if in.Mode() == component.ModeApproximate {
			s.NbApproximate++
		}
	}
	return s, nil
}

func (s Stats) Depth() int {
	return len(s.Levels)
}
