package evaluate

import (
	"context"
	"time"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/consensys/gnark/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Builder returns a freshly built, independently owned multiplier.
type Builder func() (*multiplier.Multiplier, error)

type Report struct {
	Samples    int
	ErrorCount int
	ErrorSum   uint64
	MaxError   uint32
	// fraction of samples with a wrong product
	ErrorRate float64
	// mean absolute error over all samples
	MeanErrorDistance float64

	ExactCost  int
	ApproxCost int
	// (exact - approx) / exact
	SaveRatio float64
	// ErrorSum / (SaveRatio + 0.01), lower is better
	Score float64
}

type partial struct {
	count int
	sum   uint64
	max   uint32
}

// Evaluate runs every sample through multipliers produced by build, split
// across workers goroutines. Each worker owns its multiplier, since a
// multiplier is not safe for concurrent use.
func Evaluate(ctx context.Context, build Builder, samples []Sample, workers int) (Report, error) {
	log := logger.Logger()
	start := time.Now()
	if workers < 1 {
		workers = 1
	}
	if workers > len(samples) && len(samples) > 0 {
		workers = len(samples)
	}

	ref, err := multiplier.New()
	if err != nil {
		return Report{}, err
	}
	m, err := build()
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Samples:    len(samples),
		ExactCost:  ref.OperationStep(),
		ApproxCost: m.OperationStep(),
	}

	parts := make([]partial, workers)
	batch := (len(samples) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * batch
		hi := lo + batch
		if hi > len(samples) {
			hi = len(samples)
		}
		if lo >= hi {
			continue
		}
		w := w
		g.Go(func() error {
			mul := m
			if w > 0 {
				var err error
				if mul, err = build(); err != nil {
					return err
				}
			}
			p := &parts[w]
			for i, s := range samples[lo:hi] {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				got, err := mul.Multiply(s.A, s.B)
				if err != nil {
					return errors.WithMessagef(err, "sample %d*%d", s.A, s.B)
				}
				d := distance(uint32(got), s.Exact())
				if d != 0 {
					p.count++
					p.sum += uint64(d)
					if d > p.max {
						p.max = d
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for _, p := range parts {
		r.ErrorCount += p.count
		r.ErrorSum += p.sum
		if p.max > r.MaxError {
			r.MaxError = p.max
		}
	}
	if r.Samples > 0 {
		r.ErrorRate = float64(r.ErrorCount) / float64(r.Samples)
		r.MeanErrorDistance = float64(r.ErrorSum) / float64(r.Samples)
	}
	if r.ExactCost > 0 {
		r.SaveRatio = float64(r.ExactCost-r.ApproxCost) / float64(r.ExactCost)
	}
	r.Score = float64(r.ErrorSum) / (r.SaveRatio + 0.01)

	log.Info().
		Int("samples", r.Samples).
		Int("workers", workers).
		Uint64("errorSum", r.ErrorSum).
		Float64("saveRatio", r.SaveRatio).
		Float64("score", r.Score).
		Dur("took", time.Since(start)).
		Msg("evaluated multiplier")
	return r, nil
}

func distance(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
