package evaluate

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/utils"
	"github.com/pkg/errors"
)

type LUTStats struct {
	Entries int
	MAE     float64
	MSE     float64
	// mean relative error distance; exact zero products count as zero
	MRED float64
}

// SignedProduct multiplies two signed bytes in sign-magnitude form through
// the unsigned multiplier.
func SignedProduct(m *multiplier.Multiplier, a, b int8) (int32, error) {
	na, ma := utils.SignMagnitude(int64(a))
	nb, mb := utils.SignMagnitude(int64(b))
	p, err := m.Multiply(uint8(ma), uint8(mb))
	if err != nil {
		return 0, err
	}
	if na != nb {
		return -int32(p), nil
	}
	return int32(p), nil
}

// WriteLUT writes the signed lookup table "A,B,Product" for every pair in
// [-128,127]^2 except (-128,-128). Rows are ordered by A, then B.
func WriteLUT(w io.Writer, m *multiplier.Multiplier) (LUTStats, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"A", "B", "Product"}); err != nil {
		return LUTStats{}, err
	}
	var s LUTStats
	var abs, sq, rel float64
	for a := math.MinInt8; a <= math.MaxInt8; a++ {
		for b := math.MinInt8; b <= math.MaxInt8; b++ {
			if a == math.MinInt8 && b == math.MinInt8 {
				continue
			}
			got, err := SignedProduct(m, int8(a), int8(b))
			if err != nil {
				return LUTStats{}, errors.WithMessagef(err, "entry %d,%d", a, b)
			}
			rec := []string{strconv.Itoa(a), strconv.Itoa(b), strconv.Itoa(int(got))}
			if err := cw.Write(rec); err != nil {
				return LUTStats{}, err
			}
			exact := float64(a * b)
			d := math.Abs(float64(got) - exact)
			abs += d
			sq += d * d
			if exact != 0 {
				rel += d / math.Abs(exact)
			}
			s.Entries++
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return LUTStats{}, err
	}
	n := float64(s.Entries)
	s.MAE, s.MSE, s.MRED = abs/n, sq/n, rel/n
	return s, nil
}
