package test

import (
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/ir"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// TruthTable checks every output of inst against want on all input rows.
func (a *Assert) TruthTable(inst *component.Instance, want func(in map[string]bool) map[string]bool) {
	a.t.Helper()
	for _, row := range utils.Rows(inst.Primitive().Inputs) {
		got, err := inst.ForwardBits(row)
		if err != nil {
			a.t.Fatalf("%s: %v", inst.ID, err)
		}
		for tag, w := range want(row) {
			if got[tag] != w {
				a.t.Errorf("%s %v: %s = %v, want %v", inst.ID, row, tag, got[tag], w)
			}
		}
	}
}

// Table evaluates inst on every input row.
func Table(t *testing.T, inst *component.Instance) []map[string]bool {
	t.Helper()
	rows := utils.Rows(inst.Primitive().Inputs)
	res := make([]map[string]bool, len(rows))
	for i, row := range rows {
		out, err := inst.ForwardBits(row)
		if err != nil {
			t.Fatalf("%s: %v", inst.ID, err)
		}
		res[i] = out
	}
	return res
}

// DropPreserves drops tag from inst and checks that every other surviving
// output keeps its value on every input row, that the cost did not grow and
// that the rewritten graph is consistent.
func (a *Assert) DropPreserves(inst *component.Instance, tag string) {
	a.t.Helper()
	survivors := []string{}
	for _, t := range inst.Survivors() {
		if t != tag {
			survivors = append(survivors, t)
		}
	}
	before := Table(a.t, inst)
	cost := inst.OperationStep()

	if err := inst.DropOutput(tag); err != nil {
		a.t.Fatalf("%s: drop %s: %v", inst.ID, tag, err)
	}
	if err := inst.Graph().Validate(); err != nil {
		a.t.Fatalf("%s: drop %s: %v", inst.ID, tag, err)
	}
	if inst.OperationStep() > cost {
		a.t.Errorf("%s: drop %s: cost grew from %d to %d", inst.ID, tag, cost, inst.OperationStep())
	}
	after := Table(a.t, inst)
	for i := range before {
		for _, s := range survivors {
			if before[i][s] != after[i][s] {
				a.t.Errorf("%s: drop %s: row %d output %s changed", inst.ID, tag, i, s)
			}
		}
	}
}

// ReplayAgrees checks the graph of inst against a direct concrete replay of its script.
func (a *Assert) ReplayAgrees(inst *component.Instance) {
	a.t.Helper()
	p := inst.Primitive()
	for _, row := range utils.Rows(p.Inputs) {
		init := make(map[string]bool, len(p.Switches))
		for _, sw := range p.Switches {
			init[sw] = row[sw]
		}
		levels, outputs, err := ir.Replay(inst.Operations(), init)
		if err != nil {
			a.t.Fatalf("%s: %v", inst.ID, err)
		}
		got, err := inst.ForwardBits(row)
		if err != nil {
			a.t.Fatalf("%s: %v", inst.ID, err)
		}
		for tag, sw := range outputs {
			if got[tag] != levels[sw] {
				a.t.Errorf("%s %v: %s = %v, replay gives %v", inst.ID, row, tag, got[tag], levels[sw])
			}
		}
	}
}
