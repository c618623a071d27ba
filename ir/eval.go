package ir

import "github.com/pkg/errors"

// Replay executes ops directly on concrete switch levels, without building a
// graph. Switches missing from init start low. It returns the final level of
// every switch and the switch last tagged for each output.
func Replay(ops []Operation, init map[string]bool) (levels map[string]bool, outputs map[string]string, err error) {
	levels = make(map[string]bool, len(init))
	for sw, v := range init {
		levels[sw] = v
	}
	outputs = make(map[string]string)
	for i, op := range ops {
		switch op.Type {
		case OpReset:
			levels[op.Dst] = false
		case OpTransfer:
			src, ok := levels[op.Src]
			if !ok {
				return nil, nil, errors.Wrapf(ErrReference, "operation %d %q: uninitialized switch %q", i, op, op.Src)
			}
			dst, ok := levels[op.Dst]
			if !ok {
				return nil, nil, errors.Wrapf(ErrReference, "operation %d %q: uninitialized switch %q", i, op, op.Dst)
			}
			levels[op.Dst] = !src || dst
			if op.Tag != "" {
				outputs[op.Tag] = op.Dst
			}
		default:
			return nil, nil, errors.Wrapf(ErrParse, "operation %d: unknown type %d", i, op.Type)
		}
	}
	return levels, outputs, nil
}
