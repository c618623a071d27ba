package ir

import "strings"

// OpType enumerates the two kinds of switch operations.
type OpType int

const (
	_              = 0
	OpReset OpType = iota
	OpTransfer
)

// Operation is one step of a primitive's switch script:
//  1. a reset, which discharges Dst
//  2. a transfer, which charges Dst when Src is low, optionally exposing Dst as output Tag
type Operation struct {
	Type OpType
	Src  string
	Dst  string
	Tag  string
}

func NewReset(sw string) Operation {
	return Operation{Type: OpReset, Dst: sw}
}

func NewTransfer(src, dst, tag string) Operation {
	return Operation{Type: OpTransfer, Src: src, Dst: dst, Tag: tag}
}

// String renders the operation in its textual form, e.g. "S1=0" or "X1->S2(Sum)".
func (op Operation) String() string {
	switch op.Type {
	case OpReset:
		return op.Dst + "=0"
	case OpTransfer:
		if op.Tag != "" {
			return op.Src + "->" + op.Dst + "(" + op.Tag + ")"
		}
		return op.Src + "->" + op.Dst
	}
	return "<invalid>"
}

// Format renders a sequence, one operation per element.
func Format(ops []Operation) []string {
	res := make([]string, len(ops))
	for i, op := range ops {
		res[i] = op.String()
	}
	return res
}

// Join renders a sequence on a single line separated by ", ".
func Join(ops []Operation) string {
	return strings.Join(Format(ops), ", ")
}
