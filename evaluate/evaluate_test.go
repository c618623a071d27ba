package evaluate

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamples(t *testing.T) {
	s := Samples(10, 1)
	require.Len(t, s, 30+81)
	for i, x := range s[:10] {
		assert.GreaterOrEqual(t, x.A, uint8(128), "sample %d", i)
		assert.GreaterOrEqual(t, x.B, uint8(128), "sample %d", i)
	}
	for _, x := range s[10:20] {
		assert.True(t, x.A >= 64 && x.A <= 127)
		assert.True(t, x.B >= 64 && x.B <= 127)
	}
	for _, x := range s[20:30] {
		assert.LessOrEqual(t, x.A, uint8(63))
		assert.LessOrEqual(t, x.B, uint8(63))
	}
	assert.Equal(t, Sample{0, 0}, s[30])
	assert.Equal(t, Sample{255, 255}, s[len(s)-1])

	if diff := cmp.Diff(s, Samples(10, 1)); diff != "" {
		t.Errorf("samples not deterministic (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, s[:30], Samples(10, 2)[:30])
}

func exactBuilder() (*multiplier.Multiplier, error) {
	return multiplier.New()
}

func dropBuilder() (*multiplier.Multiplier, error) {
	m, err := multiplier.New()
	if err != nil {
		return nil, err
	}
	for _, id := range []string{"ha_1", "fa_2", "ca_3"} {
		if err := m.DropOutput(id, "Cout"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func TestEvaluateExact(t *testing.T) {
	r, err := Evaluate(context.Background(), exactBuilder, Samples(20, 1), 3)
	require.NoError(t, err)
	assert.Equal(t, 141, r.Samples)
	assert.Zero(t, r.ErrorSum)
	assert.Zero(t, r.ErrorCount)
	assert.Equal(t, 1472, r.ExactCost)
	assert.Equal(t, 1472, r.ApproxCost)
	assert.Zero(t, r.SaveRatio)
	assert.Zero(t, r.Score)
}

func TestEvaluateApproximate(t *testing.T) {
	samples := Samples(20, 7)
	r1, err := Evaluate(context.Background(), dropBuilder, samples, 1)
	require.NoError(t, err)
	r4, err := Evaluate(context.Background(), dropBuilder, samples, 4)
	require.NoError(t, err)

	// splitting the work does not change the result
	assert.Equal(t, r1, r4)
	assert.Less(t, r1.ApproxCost, r1.ExactCost)
	assert.Greater(t, r1.SaveRatio, 0.0)
	assert.Greater(t, r1.ErrorSum, uint64(0))
	assert.InDelta(t, float64(r1.ErrorSum)/(r1.SaveRatio+0.01), r1.Score, 1e-9)
	assert.LessOrEqual(t, uint64(r1.MaxError), r1.ErrorSum)
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, exactBuilder, Samples(20, 1), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignedProduct(t *testing.T) {
	m, err := multiplier.New()
	require.NoError(t, err)
	testCases := []struct {
		a, b int8
		want int32
	}{
		{3, 3, 9},
		{-3, 3, -9},
		{-128, 127, -16256},
		{-7, -9, 63},
		{0, -5, 0},
	}
	for _, tc := range testCases {
		got, err := SignedProduct(m, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%d*%d", tc.a, tc.b)
	}
}

func TestWriteLUT(t *testing.T) {
	if testing.Short() {
		t.Skip("full table")
	}
	m, err := multiplier.New()
	require.NoError(t, err)
	var buf bytes.Buffer
	s, err := WriteLUT(&buf, m)
	require.NoError(t, err)
	assert.Equal(t, 256*256-1, s.Entries)
	assert.Zero(t, s.MAE)
	assert.Zero(t, s.MSE)
	assert.Zero(t, s.MRED)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 256*256)
	assert.Equal(t, []string{"A", "B", "Product"}, records[0])
	assert.Equal(t, []string{"-128", "-127", "16256"}, records[1])
	assert.Equal(t, []string{"127", "127", "16129"}, records[len(records)-1])
}
