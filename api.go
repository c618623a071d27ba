package switchnet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/config"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/evaluate"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/consensys/gnark/logger"
)

type CompileResult struct {
	plan  *config.Plan
	mul   *multiplier.Multiplier
	stats multiplier.Stats
}

// Compile builds the multiplier, applies plan to it and checks the wiring.
// A nil plan compiles the exact multiplier.
func Compile(plan *config.Plan) (*CompileResult, error) {
	if plan == nil {
		plan = &config.Plan{}
	}
	m, err := plan.Build()
	if err != nil {
		return nil, err
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	stats, err := m.Stats()
	if err != nil {
		return nil, err
	}
	log := logger.Logger()
	log.Info().
		Int("nbInstance", len(m.IDs())).
		Int("nbConnection", stats.NbConnection).
		Int("nbApproximate", stats.NbApproximate).
		Int("nbDrop", stats.NbDrop).
		Int("depth", stats.Depth()).
		Int("operationStep", stats.OperationStep).
		Msg("compiled multiplier")
	return &CompileResult{plan: plan, mul: m, stats: stats}, nil
}

func (c *CompileResult) GetMultiplier() *multiplier.Multiplier {
	return c.mul
}

func (c *CompileResult) GetStats() multiplier.Stats {
	return c.stats
}

// Evaluate scores the compiled plan with the plan's evaluation settings.
// Every worker builds its own copy of the multiplier.
func (c *CompileResult) Evaluate(ctx context.Context) (evaluate.Report, error) {
	e := c.plan.Evaluation
	if e.Samples == 0 {
		e.Samples = config.DefaultSamples
	}
	return evaluate.Evaluate(ctx, c.plan.Build, evaluate.Samples(e.Samples, e.Seed), e.Workers)
}

func (c *CompileResult) WriteLUT(w io.Writer) (evaluate.LUTStats, error) {
	return evaluate.WriteLUT(w, c.mul)
}

// Print writes one line per instance in evaluation order.
func (c *CompileResult) Print(w io.Writer) error {
	order, err := c.mul.Order()
	if err != nil {
		return err
	}
	for _, id := range order {
		in, err := c.mul.Instance(id)
		if err != nil {
			return err
		}
		s := in.Summary()
		line := fmt.Sprintf("%-6s %-3s %-11s step=%-3d out=%s", s.ID, s.Kind, s.Mode, s.OperationStep, strings.Join(s.Outputs, ","))
		if len(s.Dropped) > 0 {
			line += " dropped=" + strings.Join(s.Dropped, ",")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "total step=%d\n", c.stats.OperationStep)
	return err
}
