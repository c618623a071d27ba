package multiplier

import (
	"fmt"
	"strings"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
)

// Width is the operand width in bits; the product has 2*Width bits.
const Width = 8

var (
	// ErrInvalidReference marks an unknown instance id or port.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrStructuralInvariant marks wiring that no longer matches the reduction tree.
	ErrStructuralInvariant = errors.New("structural invariant violation")
	// ErrCyclicWiring marks a connection graph that cannot be ordered.
	ErrCyclicWiring = errors.New("cyclic wiring")
)

type PortRef struct {
	Instance string
	Port     string
}

func (p PortRef) String() string {
	return p.Instance + "." + p.Port
}

func parsePortRef(s string) PortRef {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		panic("unexpected: malformed port reference " + s)
	}
	return PortRef{Instance: s[:i], Port: s[i+1:]}
}

// Connection feeds the output port Src into the input port Dst.
type Connection struct {
	Src PortRef
	Dst PortRef
}

// Multiplier is the 8x8 unsigned multiplier built from 64 AND gates and a
// carry-save tree of half adders, full adders and 4:2 compressors.
// All instances share one expression engine owned by the multiplier, so a
// Multiplier must not be used from several goroutines at once.
type Multiplier struct {
	eng       *expr.Engine
	instances map[string]*component.Instance
	ids       []string
	conns     []Connection
	outputs   []PortRef
	// evaluation order in levels, nil when stale
	levels [][]string
}

func AName(i int) string {
	return fmt.Sprintf("a%d", i)
}

func BName(j int) string {
	return fmt.Sprintf("b%d", j)
}

func AndID(i, j int) string {
	return fmt.Sprintf("a%db%d", i, j)
}

func primitiveOf(id string) (component.Primitive, error) {
	i := strings.IndexByte(id, '_')
	if i < 0 {
		return component.Primitive{}, errors.Wrapf(ErrInvalidReference, "instance %s: no kind prefix", id)
	}
	p, ok := component.ByName(id[:i])
	if !ok {
		return component.Primitive{}, errors.Wrapf(ErrInvalidReference, "instance %s: unknown kind %q", id, id[:i])
	}
	return p, nil
}

// New assembles the multiplier from the fixed wiring table and orders it.
func New() (*Multiplier, error) {
	m := &Multiplier{
		eng:       expr.NewEngine(),
		instances: make(map[string]*component.Instance),
	}
	for i := 0; i < Width; i++ {
		for j := 0; j < Width; j++ {
			in, err := m.add(AndID(i, j), component.AndGate())
			if err != nil {
				return nil, err
			}
			if err := in.SetInput("X1", m.eng.Var(AName(i))); err != nil {
				return nil, err
			}
			if err := in.SetInput("X2", m.eng.Var(BName(j))); err != nil {
				return nil, err
			}
		}
	}
	tree := reductionTree()
	for _, st := range tree {
		p, err := primitiveOf(st.id)
		if err != nil {
			return nil, err
		}
		if _, err := m.add(st.id, p); err != nil {
			return nil, err
		}
	}
	for _, st := range tree {
		ports := m.instances[st.id].Primitive().Inputs
		if len(ports) != len(st.sources) {
			return nil, errors.Wrapf(ErrStructuralInvariant, "instance %s: %d sources for %d ports", st.id, len(st.sources), len(ports))
		}
		for k, s := range st.sources {
			src := parsePortRef(s)
			if err := m.connect(src.Instance, src.Port, st.id, ports[k]); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range productBits() {
		ref := parsePortRef(s)
		in, ok := m.instances[ref.Instance]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidReference, "product bit %s: unknown instance", s)
		}
		if _, err := in.Output(ref.Port); err != nil {
			return nil, errors.Wrapf(ErrInvalidReference, "product bit %s: %v", s, err)
		}
		m.outputs = append(m.outputs, ref)
	}
	if err := m.recompose(); err != nil {
		return nil, err
	}
	if _, err := m.Levels(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Multiplier) add(id string, p component.Primitive) (*component.Instance, error) {
	if _, ok := m.instances[id]; ok {
		return nil, errors.Wrapf(ErrInvalidReference, "instance %s: declared twice", id)
	}
	in, err := component.New(m.eng, id, p)
	if err != nil {
		return nil, err
	}
	m.instances[id] = in
	m.ids = append(m.ids, id)
	return in, nil
}

func (m *Multiplier) Engine() *expr.Engine {
	return m.eng
}

// IDs lists instance ids in declaration order: AND gates first, then the tree.
func (m *Multiplier) IDs() []string {
	return append([]string(nil), m.ids...)
}

func (m *Multiplier) Instance(id string) (*component.Instance, error) {
	in, ok := m.instances[id]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidReference, "unknown instance %q", id)
	}
	return in, nil
}

func (m *Multiplier) Connections() []Connection {
	return append([]Connection(nil), m.conns...)
}

// ProductBits returns the port producing each of y0..y15.
func (m *Multiplier) ProductBits() []PortRef {
	return append([]PortRef(nil), m.outputs...)
}

// Connect wires src's output port into dst's input port, replacing any
// earlier connection into that port. Bound inputs are then recomposed over
// a0..a7 and b0..b7. Under a cycle they keep their last composition, and
// Levels reports the cycle.
func (m *Multiplier) Connect(srcID, srcPort, dstID, dstPort string) error {
	if err := m.connect(srcID, srcPort, dstID, dstPort); err != nil {
		return err
	}
	return m.recompose()
}

func (m *Multiplier) connect(srcID, srcPort, dstID, dstPort string) error {
	src, err := m.Instance(srcID)
	if err != nil {
		return err
	}
	dst, err := m.Instance(dstID)
	if err != nil {
		return err
	}
	if _, err := src.Output(srcPort); err != nil {
		return errors.Wrapf(ErrInvalidReference, "connect %s.%s: %v", srcID, srcPort, err)
	}
	if err := dst.SetInput(dstPort, src.Forward(nil)[srcPort]); err != nil {
		return errors.Wrapf(ErrInvalidReference, "connect %s.%s: %v", dstID, dstPort, err)
	}
	to := PortRef{dstID, dstPort}
	m.removeInto(to)
	m.conns = append(m.conns, Connection{Src: PortRef{srcID, srcPort}, Dst: to})
	m.levels = nil
	return nil
}

// Disconnect removes the connection into dst's input port and unbinds it.
func (m *Multiplier) Disconnect(dstID, dstPort string) error {
	dst, err := m.Instance(dstID)
	if err != nil {
		return err
	}
	to := PortRef{dstID, dstPort}
	if !m.removeInto(to) {
		return errors.Wrapf(ErrInvalidReference, "disconnect %s: not connected", to)
	}
	dst.ClearInput(dstPort)
	m.levels = nil
	return m.recompose()
}

func (m *Multiplier) removeInto(to PortRef) bool {
	for i, c := range m.conns {
		if c.Dst == to {
			m.conns = append(m.conns[:i], m.conns[i+1:]...)
			return true
		}
	}
	return false
}

// recompose binds every connected input port to its source output
// expressed over the primary inputs, visiting instances in evaluation order.
func (m *Multiplier) recompose() error {
	order, err := m.Order()
	if errors.Is(err, ErrCyclicWiring) {
		return nil
	}
	if err != nil {
		return err
	}
	into := m.incoming()
	computed := make(map[PortRef]expr.Expression, 4*len(order))
	for _, id := range order {
		in := m.instances[id]
		for _, port := range in.Primitive().Inputs {
			src, ok := into[PortRef{id, port}]
			if !ok {
				continue
			}
			if err := in.SetInput(port, computed[src]); err != nil {
				return err
			}
		}
		for tag, x := range in.Forward(nil) {
			computed[PortRef{id, tag}] = x
		}
	}
	return nil
}

func (m *Multiplier) OperationStep() int {
	n := 0
	for _, id := range m.ids {
		n += m.instances[id].OperationStep()
	}
	return n
}

// DropOutput drops tag from instance id.
func (m *Multiplier) DropOutput(id, tag string) error {
	in, err := m.Instance(id)
	if err != nil {
		return err
	}
	before := in.OperationStep()
	if err := in.DropOutput(tag); err != nil {
		return err
	}
	log := logger.Logger()
	log.Debug().
		Str("instance", id).
		Str("tag", tag).
		Int("before", before).
		Int("after", in.OperationStep()).
		Msg("dropped output")
	return m.recompose()
}

// ConvertMode switches instance id between its exact and approximate script.
func (m *Multiplier) ConvertMode(id string) error {
	in, err := m.Instance(id)
	if err != nil {
		return err
	}
	if err := in.ConvertMode(); err != nil {
		return err
	}
	log := logger.Logger()
	log.Debug().
		Str("instance", id).
		Str("mode", in.Mode().String()).
		Int("cost", in.OperationStep()).
		Msg("converted mode")
	return m.recompose()
}

// SupportDropType maps every instance that has droppable outputs to them.
func (m *Multiplier) SupportDropType() map[string][]string {
	res := make(map[string][]string)
	for _, id := range m.ids {
		if tags := m.instances[id].SupportDropType(); len(tags) > 0 {
			res[id] = tags
		}
	}
	return res
}

// DropGroup is a set of instances offering the same drop choices.
type DropGroup struct {
	Tags []string
	IDs  []string
}

// DropGroups groups the droppable instances by their choices, the search
// space of an external optimizer. Groups and ids are sorted.
func (m *Multiplier) DropGroups() []DropGroup {
	byKey := make(map[string]*DropGroup)
	keys := []string{}
	for id, tags := range m.SupportDropType() {
		key := strings.Join(tags, ",")
		g, ok := byKey[key]
		if !ok {
			g = &DropGroup{Tags: tags}
			byKey[key] = g
			keys = append(keys, key)
		}
		g.IDs = append(g.IDs, id)
	}
	utils.SortIDs(keys)
	res := make([]DropGroup, len(keys))
	for i, key := range keys {
		g := byKey[key]
		utils.SortIDs(g.IDs)
		res[i] = *g
	}
	return res
}

// Reset restores every instance to its exact script without drops.
func (m *Multiplier) Reset() error {
	for _, id := range m.ids {
		if err := m.instances[id].Reset(); err != nil {
			return err
		}
	}
	return m.recompose()
}
