// Package checker proves properties of primitive instances with the SAT
// solver behind the expression engine.
package checker

import (
	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/pkg/errors"
)

// ErrMismatch marks an output that differs from its reference on some input.
var ErrMismatch = errors.New("output mismatch")

// Reference returns the intended function of every output of a primitive,
// over its port variables, for the given mode.
func Reference(eng *expr.Engine, kind component.Kind, mode component.Mode) (map[string]expr.Expression, error) {
	x1, x2 := eng.Var("X1"), eng.Var("X2")
	switch kind {
	case component.KindAndGate:
		return map[string]expr.Expression{"Sum": x1.And(x2)}, nil
	case component.KindHalfAdder:
		return map[string]expr.Expression{
			"Sum":  x1.Xor(x2),
			"Cout": x1.And(x2),
		}, nil
	case component.KindFullAdder:
		cin := eng.Var("Cin")
		return map[string]expr.Expression{
			"Sum":  x1.Xor(x2).Xor(cin),
			"Cout": x1.And(x2).Or(cin.And(x1.Xor(x2))),
		}, nil
	case component.KindCompressor:
		x3, x4, cin := eng.Var("X3"), eng.Var("X4"), eng.Var("Cin")
		p := x1.Xor(x2)
		cout := x1.And(x2).Or(x3.And(p))
		if mode == component.ModeApproximate {
			carry := cin.Or(x4.And(x3.And(p).Not()))
			return map[string]expr.Expression{
				"Sum":   carry.Not(),
				"Carry": carry,
				"Cout":  cout,
			}, nil
		}
		s := p.Xor(x3)
		return map[string]expr.Expression{
			"Sum":   s.Xor(x4).Xor(cin),
			"Carry": x4.And(s).Or(cin.And(s.Xor(x4))),
			"Cout":  cout,
		}, nil
	}
	return nil, errors.Errorf("no reference for %s", kind)
}

// Equivalent proves every output named in refs equal to its reference.
func Equivalent(inst *component.Instance, refs map[string]expr.Expression) error {
	for _, tag := range inst.Primitive().Outputs {
		ref, ok := refs[tag]
		if !ok {
			continue
		}
		out, err := inst.Output(tag)
		if err != nil {
			return err
		}
		if cex := out.Engine().Counterexample(out, ref); cex != nil {
			return errors.Wrapf(ErrMismatch, "%s.%s differs from %s at %v", inst.ID, tag, ref, cex)
		}
	}
	return nil
}

// Snapshot records the current output functions of the surviving outputs
// of inst.
func Snapshot(inst *component.Instance) map[string]expr.Expression {
	res := make(map[string]expr.Expression)
	for _, tag := range inst.Survivors() {
		res[tag], _ = inst.Output(tag)
	}
	return res
}

// SurvivorsPreserved proves that every output of before that inst has not
// dropped computes the same function. Placeholder slots of dropped tags are
// not compared.
func SurvivorsPreserved(before map[string]expr.Expression, inst *component.Instance) error {
	kept := make(map[string]expr.Expression)
	for _, tag := range inst.Survivors() {
		if x, ok := before[tag]; ok {
			kept[tag] = x
		}
	}
	return Equivalent(inst, kept)
}

type Row struct {
	Inputs  map[string]bool
	Outputs map[string]bool
}

// Live keeps the entries of refs whose tag inst has not dropped.
func Live(inst *component.Instance, refs map[string]expr.Expression) map[string]expr.Expression {
	res := make(map[string]expr.Expression, len(refs))
	for tag, x := range refs {
		res[tag] = x
	}
	for _, tag := range inst.Dropped() {
		delete(res, tag)
	}
	return res
}

// TruthTable evaluates inst on every input row, the first input port being
// the lowest bit of the row index.
func TruthTable(inst *component.Instance) ([]Row, error) {
	rows := utils.Rows(inst.Primitive().Inputs)
	res := make([]Row, len(rows))
	for i, in := range rows {
		out, err := inst.ForwardBits(in)
		if err != nil {
			return nil, err
		}
		res[i] = Row{Inputs: in, Outputs: out}
	}
	return res, nil
}
