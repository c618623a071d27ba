package multiplier

import (
	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/pkg/errors"
)

// Check verifies the wiring against the shape of the reduction tree:
//   - every instance has all of its inputs bound,
//   - AND gates read primary inputs only,
//   - every adder input port is fed by exactly one connection,
//   - every declared output port is consumed exactly once, by a connection
//     or as a product bit.
//
// Dropping an output does not change the wiring, so Check holds for any
// approximation of the multiplier.
func (m *Multiplier) Check() error {
	if _, err := m.Levels(); err != nil {
		return err
	}
	fedBy := make(map[PortRef]int, len(m.conns))
	consumed := make(map[PortRef]int, len(m.conns)+len(m.outputs))
	for _, c := range m.conns {
		fedBy[c.Dst]++
		consumed[c.Src]++
	}
	for _, ref := range m.outputs {
		consumed[ref]++
	}

	for _, id := range m.ids {
		in := m.instances[id]
		p := in.Primitive()
		if n := len(in.BoundInputs()); n != len(p.Inputs) {
			return errors.Wrapf(ErrStructuralInvariant, "%s: %d of %d inputs bound", id, n, len(p.Inputs))
		}
		for _, port := range p.Inputs {
			ref := PortRef{id, port}
			want := 1
			if p.Kind == component.KindAndGate {
				want = 0
			}
			if fedBy[ref] != want {
				return errors.Wrapf(ErrStructuralInvariant, "%s: %d connections into %s input, want %d", ref, fedBy[ref], p.Kind, want)
			}
		}
		for _, tag := range p.Outputs {
			ref := PortRef{id, tag}
			if consumed[ref] != 1 {
				return errors.Wrapf(ErrStructuralInvariant, "%s: output consumed %d times", ref, consumed[ref])
			}
		}
	}
	return nil
}
