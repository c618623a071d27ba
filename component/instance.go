package component

import (
	"sort"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/ir"
	"github.com/pkg/errors"
)

// ErrInvalidArgument marks a request naming a port or tag the instance does not have.
var ErrInvalidArgument = errors.New("invalid argument")

type Mode int

const (
	_                  = 0
	ModeExact     Mode = iota
	ModeApproximate
)

func (m Mode) String() string {
	if m == ModeApproximate {
		return "approximate"
	}
	return "exact"
}

// Instance is one placed primitive. It owns its graph; the graph is rebuilt
// from scratch whenever the operation sequence changes.
type Instance struct {
	ID   string
	prim Primitive
	eng  *expr.Engine

	mode Mode
	ops  []ir.Operation
	// the sequence convert_mode swaps in, nil if there is none
	alt   []ir.Operation
	graph *ir.Graph

	bound   map[string]expr.Expression
	dropped []string

	// concrete forward results keyed by input bit pattern, valid while closed
	closed bool
	table  map[uint32]map[string]bool
}

func New(eng *expr.Engine, id string, p Primitive) (*Instance, error) {
	in := &Instance{
		ID:    id,
		prim:  p,
		eng:   eng,
		mode:  ModeExact,
		ops:   p.Exact,
		alt:   p.Approximate,
		bound: make(map[string]expr.Expression),
	}
	if err := in.rebuild(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Instance) rebuild() error {
	g, err := ir.Build(in.eng, in.prim.Switches, in.prim.Outputs, in.ops)
	if err != nil {
		return errors.WithMessagef(err, "instance %s", in.ID)
	}
	in.graph = g
	in.table = make(map[uint32]map[string]bool)
	in.closed = g.IsAllOutputsDeterminable(in.prim.Inputs)
	return nil
}

func (in *Instance) Primitive() Primitive {
	return in.prim
}

func (in *Instance) Kind() Kind {
	return in.prim.Kind
}

func (in *Instance) Engine() *expr.Engine {
	return in.eng
}

func (in *Instance) Mode() Mode {
	return in.mode
}

func (in *Instance) Graph() *ir.Graph {
	return in.graph
}

// Operations returns the current (possibly rewritten) switch script.
func (in *Instance) Operations() []ir.Operation {
	return append([]ir.Operation(nil), in.ops...)
}

// Dropped lists the dropped tags in the order they were dropped.
func (in *Instance) Dropped() []string {
	return append([]string(nil), in.dropped...)
}

// IsDropped reports whether tag was dropped. It may still be exposed on a
// placeholder slot.
func (in *Instance) IsDropped(tag string) bool {
	for _, t := range in.dropped {
		if t == tag {
			return true
		}
	}
	return false
}

func (in *Instance) SetInput(port string, x expr.Expression) error {
	if !in.prim.isInput(port) {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: unknown input port %q", in.ID, port)
	}
	in.bound[port] = x
	return nil
}

func (in *Instance) ClearInput(port string) {
	delete(in.bound, port)
}

// Input returns the expression bound to port.
func (in *Instance) Input(port string) (expr.Expression, bool) {
	x, ok := in.bound[port]
	return x, ok
}

// BoundInputs lists the bound ports in declaration order.
func (in *Instance) BoundInputs() []string {
	res := []string{}
	for _, port := range in.prim.Inputs {
		if _, ok := in.bound[port]; ok {
			res = append(res, port)
		}
	}
	return res
}

// Output returns the expression of tag over the port variables. A dropped tag
// without a surviving slot reads as false.
func (in *Instance) Output(tag string) (expr.Expression, error) {
	if !in.prim.isOutput(tag) {
		return expr.Expression{}, errors.Wrapf(ErrInvalidArgument, "instance %s: unknown output %q", in.ID, tag)
	}
	n, ok := in.graph.Output(tag)
	if !ok {
		return in.eng.False(), nil
	}
	return n.Expr, nil
}

// OutputExpressions returns every declared output over the port variables.
func (in *Instance) OutputExpressions() map[string]expr.Expression {
	res := make(map[string]expr.Expression, len(in.prim.Outputs))
	for _, tag := range in.prim.Outputs {
		res[tag], _ = in.Output(tag)
	}
	return res
}

// OutputTags lists the tags currently exposed, in declaration order.
func (in *Instance) OutputTags() []string {
	res := []string{}
	for _, tag := range in.prim.Outputs {
		if _, ok := in.graph.Outputs[tag]; ok {
			res = append(res, tag)
		}
	}
	return res
}

// Survivors lists the exposed tags that were never dropped. A dropped tag
// may stay exposed on a placeholder slot; it is not a survivor.
func (in *Instance) Survivors() []string {
	res := []string{}
	for _, tag := range in.OutputTags() {
		if !in.IsDropped(tag) {
			res = append(res, tag)
		}
	}
	return res
}

func (in *Instance) OperationStep() int {
	return in.graph.OperationStep()
}

// SupportDropType lists the outputs that may be dropped: every declared one except Sum.
func (in *Instance) SupportDropType() []string {
	res := []string{}
	for _, tag := range in.prim.Outputs {
		if tag != PrimaryTag {
			res = append(res, tag)
		}
	}
	return res
}

// Forward evaluates every declared output. A port takes its value from args
// if present, otherwise from its bound expression with args substituted into
// it, otherwise it stays symbolic. Results that still depend on a variable
// are returned as residual expressions.
func (in *Instance) Forward(args map[string]expr.Expression) map[string]expr.Expression {
	bind := make(map[string]expr.Expression, len(args)+len(in.prim.Inputs))
	for name, x := range args {
		if !in.prim.isInput(name) {
			bind[name] = x
		}
	}
	ports := make(map[string]expr.Expression, len(in.prim.Inputs))
	for _, port := range in.prim.Inputs {
		if x, ok := args[port]; ok {
			ports[port] = x
		} else if x, ok := in.bound[port]; ok {
			ports[port] = x.Substitute(args)
		}
	}

	if key, ok := in.pattern(ports); ok && in.closed {
		row, ok := in.table[key]
		if !ok {
			row = in.evalRow(ports)
			in.table[key] = row
		}
		res := make(map[string]expr.Expression, len(row))
		for tag, v := range row {
			res[tag] = in.eng.Const(v)
		}
		return res
	}

	for port, x := range ports {
		bind[port] = x
	}
	res := make(map[string]expr.Expression, len(in.prim.Outputs))
	for tag, out := range in.OutputExpressions() {
		res[tag] = out.Substitute(bind)
	}
	return res
}

// pattern encodes constant port values, ports in declaration order. ok is false
// if some port is unbound or symbolic.
func (in *Instance) pattern(ports map[string]expr.Expression) (uint32, bool) {
	var key uint32
	for i, port := range in.prim.Inputs {
		x, ok := ports[port]
		if !ok {
			return 0, false
		}
		v, ok := x.Bool()
		if !ok {
			return 0, false
		}
		if v {
			key |= 1 << i
		}
	}
	return key, true
}

func (in *Instance) evalRow(ports map[string]expr.Expression) map[string]bool {
	values := make(map[string]bool, len(ports))
	for port, x := range ports {
		values[port], _ = x.Bool()
	}
	outs := in.OutputExpressions()
	tags := make([]string, 0, len(outs))
	roots := make([]expr.Expression, 0, len(outs))
	for tag, out := range outs {
		tags = append(tags, tag)
		roots = append(roots, out)
	}
	vs := in.eng.Eval(values, roots...)
	row := make(map[string]bool, len(tags))
	for i, tag := range tags {
		row[tag] = vs[i]
	}
	return row
}

// ForwardBits evaluates the instance on concrete port values.
func (in *Instance) ForwardBits(bits map[string]bool) (map[string]bool, error) {
	args := make(map[string]expr.Expression, len(bits))
	for name, v := range bits {
		args[name] = in.eng.Const(v)
	}
	res := make(map[string]bool)
	for tag, x := range in.Forward(args) {
		v, ok := x.Bool()
		if !ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "instance %s: output %s depends on %v", in.ID, tag, x.Vars())
		}
		res[tag] = v
	}
	return res, nil
}

// DropOutput removes tag and everything only it depends on, then rewrites
// the operation sequence. Every other output keeps its exact function and
// the cost never grows. The instance is left unmodified on error.
func (in *Instance) DropOutput(tag string) error {
	if !in.prim.isOutput(tag) {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: unknown output %q", in.ID, tag)
	}
	if tag == PrimaryTag {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: output %s cannot be dropped", in.ID, tag)
	}
	if in.IsDropped(tag) {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: output %s is already dropped", in.ID, tag)
	}
	if _, ok := in.graph.Outputs[tag]; !ok {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: output %s is not exposed", in.ID, tag)
	}
	if err := in.drop(tag); err != nil {
		return err
	}
	in.dropped = append(in.dropped, tag)
	return nil
}

func (in *Instance) drop(tag string) error {
	keep := []string{}
	for _, t := range in.OutputTags() {
		if t != tag {
			keep = append(keep, t)
		}
	}
	pruned := in.graph.Prune(in.eng, keep)
	ops := pruned.Operations()
	for i := range ops {
		if ops[i].Tag == tag {
			ops[i].Tag = ""
		}
	}

	// Keep a nominal slot for the dropped tag on the last untagged transfer
	// into an input port that is not an output switch.
	used := make(map[string]bool, len(in.graph.Outputs))
	for _, sw := range in.graph.Outputs {
		used[sw] = true
	}
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if op.Type == ir.OpTransfer && op.Tag == "" && !used[op.Dst] && in.prim.isInput(op.Dst) {
			ops[i].Tag = tag
			break
		}
	}

	prevOps, prevGraph, prevTable, prevClosed := in.ops, in.graph, in.table, in.closed
	in.ops = ops
	if err := in.rebuild(); err != nil {
		in.ops, in.graph, in.table, in.closed = prevOps, prevGraph, prevTable, prevClosed
		return err
	}
	return nil
}

// ConvertMode swaps the current script with the alternate one, then applies
// every earlier drop again.
func (in *Instance) ConvertMode() error {
	if in.alt == nil {
		return errors.Wrapf(ErrInvalidArgument, "instance %s: %s has no approximate mode", in.ID, in.prim.Kind)
	}
	prevOps, prevAlt, prevMode := in.ops, in.alt, in.mode
	prevGraph, prevTable, prevClosed := in.graph, in.table, in.closed
	restore := func() {
		in.ops, in.alt, in.mode = prevOps, prevAlt, prevMode
		in.graph, in.table, in.closed = prevGraph, prevTable, prevClosed
	}

	in.ops, in.alt = in.alt, in.ops
	if in.mode == ModeExact {
		in.mode = ModeApproximate
	} else {
		in.mode = ModeExact
	}
	if err := in.rebuild(); err != nil {
		restore()
		return err
	}
	for _, tag := range in.dropped {
		if _, ok := in.graph.Outputs[tag]; !ok {
			continue
		}
		if err := in.drop(tag); err != nil {
			restore()
			return err
		}
	}
	return nil
}

// Reset restores the exact script and forgets every drop. Bound inputs are kept.
func (in *Instance) Reset() error {
	in.ops, in.alt, in.mode = in.prim.Exact, in.prim.Approximate, ModeExact
	in.dropped = nil
	return in.rebuild()
}

// Summary is a printable description of the instance state.
type Summary struct {
	ID            string
	Kind          Kind
	Mode          Mode
	OperationStep int
	Outputs       []string
	Dropped       []string
}

func (in *Instance) Summary() Summary {
	d := in.Dropped()
	sort.Strings(d)
	return Summary{
		ID:            in.ID,
		Kind:          in.prim.Kind,
		Mode:          in.mode,
		OperationStep: in.OperationStep(),
		Outputs:       in.OutputTags(),
		Dropped:       d,
	}
}
