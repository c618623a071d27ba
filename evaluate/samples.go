// Package evaluate scores an approximate multiplier: accuracy on a sample of
// operand pairs against the activation cost it saves.
package evaluate

import "math/rand"

type Sample struct {
	A, B uint8
}

func (s Sample) Exact() uint32 {
	return uint32(s.A) * uint32(s.B)
}

type band struct {
	lo, hi int
}

// large, medium and small operands
var bands = []band{{128, 255}, {64, 127}, {0, 63}}

// Samples draws perBand pairs from each of the large, medium and small bands,
// both operands from the same band, then appends every pair of the corner
// values 2^i-1 for i in 0..8. The result only depends on perBand and seed.
func Samples(perBand int, seed int64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	res := make([]Sample, 0, 3*perBand+81)
	for _, b := range bands {
		for i := 0; i < perBand; i++ {
			res = append(res, Sample{
				A: uint8(b.lo + rng.Intn(b.hi-b.lo+1)),
				B: uint8(b.lo + rng.Intn(b.hi-b.lo+1)),
			})
		}
	}
	corners := make([]uint8, 0, 9)
	for i := 0; i <= 8; i++ {
		corners = append(corners, uint8(1<<i-1))
	}
	for _, a := range corners {
		for _, b := range corners {
			res = append(res, Sample{a, b})
		}
	}
	return res
}
