package component

import "github.com/PolyhedraZK/ApproxSwitchCompiler/ir"

type Kind int

const (
	_                = 0
	KindAndGate Kind = iota
	KindHalfAdder
	KindFullAdder
	KindCompressor
)

func (k Kind) String() string {
	switch k {
	case KindAndGate:
		return "and"
	case KindHalfAdder:
		return "ha"
	case KindFullAdder:
		return "fa"
	case KindCompressor:
		return "ca"
	}
	return "custom"
}

// PrimaryTag is the output every primitive keeps; it can never be dropped.
const PrimaryTag = "Sum"

// Primitive is the static description of a building block: its switches,
// which of them are input ports, its output tags and its switch scripts.
type Primitive struct {
	Kind     Kind
	Switches []string
	Inputs   []string
	Outputs  []string
	Exact    []ir.Operation
	// nil if the primitive has no approximate variant
	Approximate []ir.Operation
}

// Each constructor returns fresh slices, so callers may keep and modify the result.

func AndGate() Primitive {
	return Primitive{
		Kind:     KindAndGate,
		Switches: []string{"X1", "X2", "S1", "S2"},
		Inputs:   []string{"X1", "X2"},
		Outputs:  []string{"Sum"},
		Exact: ir.MustParseSequence(
			"S1=0", "X2->S1", "X1->S1", "S2=0", "S1->S2(Sum)",
		),
	}
}

func HalfAdder() Primitive {
	return Primitive{
		Kind:     KindHalfAdder,
		Switches: []string{"X1", "X2", "S1", "S2"},
		Inputs:   []string{"X1", "X2"},
		Outputs:  []string{"Sum", "Cout"},
		Exact: ir.MustParseSequence(
			"S1=0", "S2=0", "X1->S1", "X2->S2", "S1->S2", "X2->S1",
			"X1->X2", "X1=0", "S1->X1(Cout)", "S1=0", "S2->S1", "X2->S1(Sum)",
		),
	}
}

func FullAdder() Primitive {
	return Primitive{
		Kind:     KindFullAdder,
		Switches: []string{"X1", "X2", "Cin", "S1", "S2"},
		Inputs:   []string{"X1", "X2", "Cin"},
		Outputs:  []string{"Sum", "Cout"},
		Exact: ir.MustParseSequence(
			"S1=0", "S2=0", "X1->S1", "X2->S2", "S1->X2", "X1->S2",
			"X1=0", "X2->X1", "S2->X1", "S1=0", "Cin->S1", "S2->Cin",
			"X1->S1", "X1=0", "S1->X1", "S2=0", "Cin->S2", "X2->S2",
			"X2->Cin", "Cin->X1(Sum)", "Cin=0", "S2->Cin(Cout)",
		),
	}
}

// Compressor is the 4:2 compressor. Cout = x1x2 | x3(x1^x2) does not depend on cin,
// Carry and Sum complete the five input count. The approximate script keeps
// Cout exact and replaces Carry and Sum by cheaper estimates.
func Compressor() Primitive {
	return Primitive{
		Kind:     KindCompressor,
		Switches: []string{"S1", "S2", "X1", "X2", "X3", "X4", "Cin"},
		Inputs:   []string{"X1", "X2", "X3", "X4", "Cin"},
		Outputs:  []string{"Sum", "Carry", "Cout"},
		Exact: ir.MustParseSequence(
			"S1=0", "S2=0", "X2->S1", "X1->S1", "X1->S2", "S2->X2",
			"S2=0", "S1->S2", "X2->S2", "X2=0", "S2->X2", "X3->S2",
			"X1=0", "S2->X1", "S1->X1(Cout)", "S1=0", "X2->S1", "S1->X3",
			"S1=0", "S2->S1", "X3->S1", "X3=0", "S1->X3", "X4->S1",
			"X2=0", "X3->X2", "X2->X4", "X2=0", "S1->X2", "X4->X2",
			"X4=0", "X2->X4", "Cin->X2", "X3=0", "S1->X3", "X2->X3(Carry)",
			"S2=0", "X4->S2", "S2->Cin", "S1=0", "X2->S1", "Cin->S1",
			"Cin=0", "S1->Cin(Sum)",
		),
		Approximate: ir.MustParseSequence(
			"S1=0", "S2=0", "X2->S1", "X1->S1", "X1->S2", "S2->X2",
			"S2=0", "S1->S2", "X2->S2", "X2=0", "S2->X2", "X3->S2",
			"X1=0", "S2->X1", "S1->X1(Cout)", "S1=0", "X4->S1", "S2->S1",
			"S1->Cin(Carry)", "X3=0", "Cin->X3(Sum)",
		),
	}
}

// ByName resolves the primitive names used by the command line and plans.
func ByName(name string) (Primitive, bool) {
	switch name {
	case "and", "and_gate":
		return AndGate(), true
	case "ha", "half_adder":
		return HalfAdder(), true
	case "fa", "full_adder":
		return FullAdder(), true
	case "ca", "compressor":
		return Compressor(), true
	}
	return Primitive{}, false
}

func (p Primitive) isInput(port string) bool {
	for _, in := range p.Inputs {
		if in == port {
			return true
		}
	}
	return false
}

func (p Primitive) isOutput(tag string) bool {
	for _, out := range p.Outputs {
		if out == tag {
			return true
		}
	}
	return false
}
