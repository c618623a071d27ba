package expr

import (
	"sort"
	"strings"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Engine owns an and-inverter graph in which every Expression built from it lives.
// Expressions from different engines must never be combined.
// An Engine is not safe for concurrent use.
type Engine struct {
	c     *logic.C
	vars  map[string]z.Lit
	names map[z.Var]string
}

func NewEngine() *Engine {
	return &Engine{
		c:     logic.NewC(),
		vars:  make(map[string]z.Lit),
		names: make(map[z.Var]string),
	}
}

// Expression is an immutable boolean value. The zero value is invalid.
type Expression struct {
	e   *Engine
	lit z.Lit
}

// Var returns the variable with the given name, creating it on first use.
func (e *Engine) Var(name string) Expression {
	if m, ok := e.vars[name]; ok {
		return Expression{e, m}
	}
	m := e.c.Lit()
	e.vars[name] = m
	e.names[m.Var()] = name
	return Expression{e, m}
}

func (e *Engine) True() Expression {
	return Expression{e, e.c.T}
}

func (e *Engine) False() Expression {
	return Expression{e, e.c.F}
}

func (e *Engine) Const(b bool) Expression {
	if b {
		return e.True()
	}
	return e.False()
}

// Size is the number of nodes in the underlying graph, including dead ones.
func (e *Engine) Size() int {
	return e.c.Len()
}

func (x Expression) Engine() *Engine {
	return x.e
}

func (x Expression) Valid() bool {
	return x.e != nil
}

func (x Expression) same(y Expression) {
	if x.e == nil || y.e == nil {
		panic("unexpected: invalid expression")
	}
	if x.e != y.e {
		panic("unexpected: expressions from different engines")
	}
}

func (x Expression) Not() Expression {
	return Expression{x.e, x.lit.Not()}
}

func (x Expression) Or(y Expression) Expression {
	x.same(y)
	return Expression{x.e, x.e.c.Or(x.lit, y.lit)}
}

func (x Expression) And(y Expression) Expression {
	x.same(y)
	return Expression{x.e, x.e.c.And(x.lit, y.lit)}
}

func (x Expression) Xor(y Expression) Expression {
	x.same(y)
	return Expression{x.e, x.e.c.Xor(x.lit, y.lit)}
}

// Bool reduces x to a concrete value. ok is false if x still depends on a variable.
func (x Expression) Bool() (value bool, ok bool) {
	switch x.lit {
	case x.e.c.T:
		return true, true
	case x.e.c.F:
		return false, true
	}
	return false, false
}

func (x Expression) IsConstant() bool {
	_, ok := x.Bool()
	return ok
}

// Equal reports structural identity. Structurally different expressions
// may still be equivalent, see Engine.Equivalent.
func (x Expression) Equal(y Expression) bool {
	return x.e == y.e && x.lit == y.lit
}

// Name returns the variable name if x is a positive variable.
func (x Expression) Name() (string, bool) {
	if !x.lit.IsPos() {
		return "", false
	}
	name, ok := x.e.names[x.lit.Var()]
	return name, ok
}

func (x Expression) IsNegated() bool {
	return !x.lit.IsPos()
}

// Positive strips a top level negation.
func (x Expression) Positive() Expression {
	return Expression{x.e, x.lit.Var().Pos()}
}

// Inputs returns the two conjuncts of x if x (ignoring a top level negation) is an AND gate.
func (x Expression) Inputs() (a, b Expression, ok bool) {
	if x.IsConstant() {
		return Expression{}, Expression{}, false
	}
	l, r := x.e.c.Ins(x.lit.Var().Pos())
	if l == z.LitNull {
		return Expression{}, Expression{}, false
	}
	return Expression{x.e, l}, Expression{x.e, r}, true
}

// Vars returns the sorted names of the variables x depends on structurally.
func (x Expression) Vars() []string {
	seen := make(map[z.Var]bool)
	res := []string{}
	var walk func(m z.Lit)
	walk = func(m z.Lit) {
		if m == x.e.c.T || m == x.e.c.F {
			return
		}
		v := m.Var()
		if seen[v] {
			return
		}
		seen[v] = true
		a, b := x.e.c.Ins(v.Pos())
		if a == z.LitNull {
			res = append(res, x.e.names[v])
			return
		}
		walk(a)
		walk(b)
	}
	walk(x.lit)
	sort.Strings(res)
	return res
}

// Substitute replaces every named variable by its binding simultaneously:
// a replacement is never itself substituted again.
func (x Expression) Substitute(bind map[string]Expression) Expression {
	if len(bind) == 0 || x.IsConstant() {
		return x
	}
	repl := make(map[z.Var]z.Lit, len(bind))
	for name, y := range bind {
		x.same(y)
		if m, ok := x.e.vars[name]; ok {
			repl[m.Var()] = y.lit
		}
	}
	if len(repl) == 0 {
		return x
	}
	memo := make(map[z.Var]z.Lit)
	return Expression{x.e, x.e.rebuild(x.lit, repl, memo)}
}

// Assign substitutes constants.
func (x Expression) Assign(values map[string]bool) Expression {
	bind := make(map[string]Expression, len(values))
	for name, v := range values {
		bind[name] = x.e.Const(v)
	}
	return x.Substitute(bind)
}

func (e *Engine) rebuild(m z.Lit, repl map[z.Var]z.Lit, memo map[z.Var]z.Lit) z.Lit {
	if m == e.c.T || m == e.c.F {
		return m
	}
	v := m.Var()
	r, ok := memo[v]
	if !ok {
		if s, bound := repl[v]; bound {
			r = s
		} else if a, b := e.c.Ins(v.Pos()); a == z.LitNull {
			r = v.Pos()
		} else {
			r = e.c.And(e.rebuild(a, repl, memo), e.rebuild(b, repl, memo))
		}
		memo[v] = r
	}
	if !m.IsPos() {
		return r.Not()
	}
	return r
}

// String renders x with ~, & and |. A negated AND of two negations prints as |.
func (x Expression) String() string {
	if x.e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	x.e.render(&sb, x.lit)
	return sb.String()
}

func (e *Engine) render(sb *strings.Builder, m z.Lit) {
	switch m {
	case e.c.T:
		sb.WriteString("1")
		return
	case e.c.F:
		sb.WriteString("0")
		return
	}
	a, b := e.c.Ins(m.Var().Pos())
	if a == z.LitNull {
		if !m.IsPos() {
			sb.WriteByte('~')
		}
		sb.WriteString(e.names[m.Var()])
		return
	}
	op := " & "
	if !m.IsPos() {
		if a.IsPos() || b.IsPos() {
			sb.WriteByte('~')
		} else {
			op = " | "
			a, b = a.Not(), b.Not()
		}
	}
	sb.WriteByte('(')
	e.render(sb, a)
	sb.WriteString(op)
	e.render(sb, b)
	sb.WriteByte(')')
}
