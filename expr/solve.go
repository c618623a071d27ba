package expr

import (
	"sort"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const (
	sat   = 1
	unsat = -1
)

// Satisfiable reports whether some assignment makes x true, and returns one such assignment.
func (e *Engine) Satisfiable(x Expression) (bool, map[string]bool) {
	x.same(Expression{e, e.c.T})
	if v, ok := x.Bool(); ok {
		return v, map[string]bool{}
	}
	g := gini.New()
	e.c.ToCnfFrom(g, x.lit)
	g.Assume(x.lit)
	if g.Solve() != sat {
		return false, nil
	}
	model := make(map[string]bool)
	for _, name := range x.Vars() {
		model[name] = g.Value(e.vars[name])
	}
	return true, model
}

// Equivalent proves x == y for every assignment by refuting their XOR miter.
func (e *Engine) Equivalent(x, y Expression) bool {
	x.same(y)
	if x.lit == y.lit {
		return true
	}
	ok, _ := e.Satisfiable(x.Xor(y))
	return !ok
}

// Counterexample returns an assignment on which x and y differ, or nil if they are equivalent.
func (e *Engine) Counterexample(x, y Expression) map[string]bool {
	ok, model := e.Satisfiable(x.Xor(y))
	if !ok {
		return nil
	}
	return model
}

// Eval evaluates every root under values in one pass over the graph.
// Variables missing from values read as false.
func (e *Engine) Eval(values map[string]bool, roots ...Expression) []bool {
	vs := make([]bool, e.c.Len())
	vs[1] = true
	for name, v := range values {
		if m, ok := e.vars[name]; ok {
			vs[m.Var()] = v
		}
	}
	e.c.Eval(vs)
	res := make([]bool, len(roots))
	for i, r := range roots {
		r.same(Expression{e, e.c.T})
		res[i] = litValue(vs, r.lit)
	}
	return res
}

func litValue(vs []bool, m z.Lit) bool {
	v := vs[m.Var()]
	if !m.IsPos() {
		return !v
	}
	return v
}

// VarNames lists every variable ever created in e.
func (e *Engine) VarNames() []string {
	res := make([]string, 0, len(e.vars))
	for name := range e.vars {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
