// Package proof arithmetizes the output cones of an instance as a gnark
// circuit: NOT x is 1-x and AND is a product, so every constraint holds
// exactly when the boolean outputs do.
package proof

import (
	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/test"
	"github.com/pkg/errors"
)

type gateType int

const (
	_                  = 0
	gateConst gateType = iota
	gateInput
	gateNot
	gateAnd
)

type gate struct {
	typ gateType
	// input index for gateInput, constant value for gateConst, operands otherwise
	a, b int
}

// network is the and-inverter form of a set of output expressions,
// gates in topological order.
type network struct {
	inputs  []string
	outputs []string
	gates   []gate
	roots   []int
}

func lower(inputs, outputs []string, exprs []expr.Expression) (*network, error) {
	n := &network{inputs: inputs, outputs: outputs}
	index := make(map[string]int, len(inputs))
	for i, name := range inputs {
		index[name] = i
	}
	memo := make(map[expr.Expression]int)
	var walk func(x expr.Expression) (int, error)
	walk = func(x expr.Expression) (int, error) {
		if id, ok := memo[x]; ok {
			return id, nil
		}
		var g gate
		if v, ok := x.Bool(); ok {
			g = gate{typ: gateConst}
			if v {
				g.a = 1
			}
		} else if x.IsNegated() {
			a, err := walk(x.Positive())
			if err != nil {
				return 0, err
			}
			g = gate{typ: gateNot, a: a}
		} else if name, ok := x.Name(); ok {
			i, ok := index[name]
			if !ok {
				return 0, errors.Errorf("expression depends on %s, not an input port", name)
			}
			g = gate{typ: gateInput, a: i}
		} else {
			l, r, _ := x.Inputs()
			a, err := walk(l)
			if err != nil {
				return 0, err
			}
			b, err := walk(r)
			if err != nil {
				return 0, err
			}
			g = gate{typ: gateAnd, a: a, b: b}
		}
		n.gates = append(n.gates, g)
		memo[x] = len(n.gates) - 1
		return len(n.gates) - 1, nil
	}
	for _, x := range exprs {
		id, err := walk(x)
		if err != nil {
			return nil, err
		}
		n.roots = append(n.roots, id)
	}
	return n, nil
}

// Circuit binds the input ports In to the surviving outputs Out of one instance.
type Circuit struct {
	In  []frontend.Variable `gnark:",public"`
	Out []frontend.Variable `gnark:",public"`

	net *network `gnark:"-"`
}

func (c *Circuit) Define(api frontend.API) error {
	for _, x := range c.In {
		api.AssertIsBoolean(x)
	}
	vals := make([]frontend.Variable, len(c.net.gates))
	for i, g := range c.net.gates {
		switch g.typ {
		case gateConst:
			vals[i] = g.a
		case gateInput:
			vals[i] = c.In[g.a]
		case gateNot:
			vals[i] = api.Sub(1, vals[g.a])
		case gateAnd:
			vals[i] = api.Mul(vals[g.a], vals[g.b])
		default:
			panic("unexpected: unknown gate type")
		}
	}
	for k, r := range c.net.roots {
		api.AssertIsEqual(c.Out[k], vals[r])
	}
	return nil
}

// NewCircuit arithmetizes the surviving outputs of inst. Placeholder slots of
// dropped tags are left out.
func NewCircuit(inst *component.Instance) (*Circuit, error) {
	p := inst.Primitive()
	tags := inst.Survivors()
	exprs := make([]expr.Expression, len(tags))
	for i, tag := range tags {
		x, err := inst.Output(tag)
		if err != nil {
			return nil, err
		}
		exprs[i] = x
	}
	net, err := lower(p.Inputs, tags, exprs)
	if err != nil {
		return nil, errors.WithMessagef(err, "instance %s", inst.ID)
	}
	return &Circuit{
		In:  make([]frontend.Variable, len(p.Inputs)),
		Out: make([]frontend.Variable, len(tags)),
		net: net,
	}, nil
}

func (c *Circuit) assign(in, out map[string]bool) *Circuit {
	w := &Circuit{
		In:  make([]frontend.Variable, len(c.net.inputs)),
		Out: make([]frontend.Variable, len(c.net.outputs)),
	}
	for i, name := range c.net.inputs {
		w.In[i] = boolToInt(in[name])
	}
	for k, tag := range c.net.outputs {
		w.Out[k] = boolToInt(out[tag])
	}
	return w
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Solve reports whether the claimed outputs satisfy the circuit on in.
func Solve(c *Circuit, in, out map[string]bool) error {
	return test.IsSolved(c, c.assign(in, out), ecc.BN254.ScalarField())
}

// Check solves the circuit of inst on every row of its truth table.
func Check(inst *component.Instance) error {
	c, err := NewCircuit(inst)
	if err != nil {
		return err
	}
	for _, row := range utils.Rows(inst.Primitive().Inputs) {
		out, err := inst.ForwardBits(row)
		if err != nil {
			return err
		}
		if err := Solve(c, row, out); err != nil {
			return errors.WithMessagef(err, "instance %s row %v", inst.ID, row)
		}
	}
	return nil
}

// Count compiles the circuit of inst to R1CS over BN254 and returns the
// number of constraints.
func Count(inst *component.Instance) (int, error) {
	c, err := NewCircuit(inst)
	if err != nil {
		return 0, err
	}
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, c)
	if err != nil {
		return 0, errors.WithMessagef(err, "instance %s", inst.ID)
	}
	log := logger.Logger()
	log.Debug().
		Str("instance", inst.ID).
		Int("nbConstraints", cs.GetNbConstraints()).
		Int("nbGates", len(c.net.gates)).
		Msg("compiled instance")
	return cs.GetNbConstraints(), nil
}
