package test

import (
	"math/rand"
	"strconv"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/ir"
)

type randomCircuitConfig struct {
	seed         int
	nbInput      randRange
	nbScratch    randRange
	nbOp         randRange
	nbOutput     randRange
	resetPercent int
}

type randRange struct {
	l int
	r int
}

func (rr *randRange) sample(r *rand.Rand) int {
	return r.Intn(rr.r-rr.l+1) + rr.l
}

// randomPrimitive generates a switch script over random input and scratch
// switches. Scratch switches are reset before use so that every output
// depends on the input ports only. Outputs are Sum, O1, O2, ... each tagged on
// the final write of a distinct switch, which must be a transfer.
func randomPrimitive(conf *randomCircuitConfig) component.Primitive {
	rand := rand.New(rand.NewSource(int64(conf.seed)))

	p := component.Primitive{}
	nIn := conf.nbInput.sample(rand)
	nScratch := conf.nbScratch.sample(rand)
	for i := 1; i <= nIn; i++ {
		p.Inputs = append(p.Inputs, "X"+strconv.Itoa(i))
	}
	p.Switches = append(p.Switches, p.Inputs...)
	ops := []ir.Operation{}
	for i := 1; i <= nScratch; i++ {
		sw := "S" + strconv.Itoa(i)
		p.Switches = append(p.Switches, sw)
		ops = append(ops, ir.NewReset(sw))
	}

	n := conf.nbOp.sample(rand)
	for len(ops) < n+nScratch {
		if rand.Intn(100) < conf.resetPercent {
			ops = append(ops, ir.NewReset(p.Switches[rand.Intn(len(p.Switches))]))
			continue
		}
		src := p.Switches[rand.Intn(len(p.Switches))]
		dst := p.Switches[rand.Intn(len(p.Switches))]
		if src == dst {
			continue
		}
		ops = append(ops, ir.NewTransfer(src, dst, ""))
	}

	last := make(map[string]int)
	for i, op := range ops {
		last[op.Dst] = i
	}
	order := []string{}
	for _, sw := range p.Switches {
		if i, ok := last[sw]; ok && ops[i].Type == ir.OpTransfer {
			order = append(order, sw)
		}
	}
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	nOut := conf.nbOutput.sample(rand)
	if nOut > len(order) {
		nOut = len(order)
	}
	for i := 0; i < nOut; i++ {
		tag := component.PrimaryTag
		if i > 0 {
			tag = "O" + strconv.Itoa(i)
		}
		p.Outputs = append(p.Outputs, tag)
		ops[last[order[i]]].Tag = tag
	}
	p.Exact = ops
	return p
}
