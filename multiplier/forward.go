package multiplier

import (
	"fmt"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/pkg/errors"
)

func YName(k int) string {
	return fmt.Sprintf("y%d", k)
}

// incoming maps every connected input port to its source.
func (m *Multiplier) incoming() map[PortRef]PortRef {
	res := make(map[PortRef]PortRef, len(m.conns))
	for _, c := range m.conns {
		res[c.Dst] = c.Src
	}
	return res
}

// primaryValues binds a0..a7 and b0..b7. Both operands are given most
// significant bit first, so a_i is a[Width-1-i].
func primaryValues(a, b []int) (map[string]bool, error) {
	if len(a) != Width || len(b) != Width {
		return nil, errors.Errorf("operands must have %d bits, got %d and %d", Width, len(a), len(b))
	}
	values := make(map[string]bool, 2*Width)
	for k := 0; k < Width; k++ {
		x, y := a[Width-1-k], b[Width-1-k]
		if (x != 0 && x != 1) || (y != 0 && y != 1) {
			return nil, errors.Errorf("operand bit %d is not 0 or 1", Width-1-k)
		}
		values[AName(k)] = x == 1
		values[BName(k)] = y == 1
	}
	return values, nil
}

// Forward evaluates the multiplier on two operands given most significant
// bit first and returns y0..y15.
func (m *Multiplier) Forward(a, b []int) (map[string]int, error) {
	values, err := primaryValues(a, b)
	if err != nil {
		return nil, err
	}
	order, err := m.Order()
	if err != nil {
		return nil, err
	}
	into := m.incoming()
	computed := make(map[PortRef]bool, 4*len(order))
	for _, id := range order {
		in := m.instances[id]
		bits := make(map[string]bool, len(in.Primitive().Inputs))
		for _, port := range in.Primitive().Inputs {
			if src, ok := into[PortRef{id, port}]; ok {
				v, ok := computed[src]
				if !ok {
					return nil, errors.Wrapf(ErrStructuralInvariant, "%s.%s: source %s not evaluated", id, port, src)
				}
				bits[port] = v
				continue
			}
			x, ok := in.Input(port)
			if !ok {
				return nil, errors.Wrapf(ErrStructuralInvariant, "%s.%s: input not bound", id, port)
			}
			v, ok := x.Assign(values).Bool()
			if !ok {
				return nil, errors.Wrapf(ErrStructuralInvariant, "%s.%s: input depends on %v", id, port, x.Vars())
			}
			bits[port] = v
		}
		row, err := in.ForwardBits(bits)
		if err != nil {
			return nil, err
		}
		for tag, v := range row {
			computed[PortRef{id, tag}] = v
		}
	}

	res := make(map[string]int, len(m.outputs))
	for k, ref := range m.outputs {
		v, ok := computed[ref]
		if !ok {
			return nil, errors.Wrapf(ErrStructuralInvariant, "%s: %s not evaluated", YName(k), ref)
		}
		res[YName(k)] = 0
		if v {
			res[YName(k)] = 1
		}
	}
	return res, nil
}

// Multiply runs Forward on two bytes and packs the product.
func (m *Multiplier) Multiply(a, b uint8) (uint16, error) {
	y, err := m.Forward(utils.UintToBits(uint64(a), Width), utils.UintToBits(uint64(b), Width))
	if err != nil {
		return 0, err
	}
	bits := make([]int, 2*Width)
	for k := range bits {
		bits[2*Width-1-k] = y[YName(k)]
	}
	p, err := utils.BitsToUint(bits)
	if err != nil {
		return 0, err
	}
	return uint16(p), nil
}

// OutputExpressions returns every product bit as an expression over
// a0..a7 and b0..b7.
func (m *Multiplier) OutputExpressions() (map[string]expr.Expression, error) {
	order, err := m.Order()
	if err != nil {
		return nil, err
	}
	into := m.incoming()
	computed := make(map[PortRef]expr.Expression, 4*len(order))
	for _, id := range order {
		in := m.instances[id]
		args := make(map[string]expr.Expression)
		for _, port := range in.Primitive().Inputs {
			if src, ok := into[PortRef{id, port}]; ok {
				args[port] = computed[src]
			}
		}
		for tag, x := range in.Forward(args) {
			computed[PortRef{id, tag}] = x
		}
	}
	res := make(map[string]expr.Expression, len(m.outputs))
	for k, ref := range m.outputs {
		res[YName(k)] = computed[ref]
	}
	return res, nil
}
