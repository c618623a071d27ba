package multiplier

import (
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMultiplier(t *testing.T) *Multiplier {
	t.Helper()
	m, err := New()
	require.NoError(t, err)
	return m
}

func TestForwardNine(t *testing.T) {
	m := newMultiplier(t)
	y, err := m.Forward([]int{0, 0, 0, 0, 0, 0, 1, 1}, []int{0, 0, 0, 0, 0, 0, 1, 1})
	require.NoError(t, err)
	require.Len(t, y, 16)
	for k := 0; k < 16; k++ {
		want := 0
		if k == 0 || k == 3 {
			want = 1
		}
		assert.Equal(t, want, y[YName(k)], YName(k))
	}
}

func TestForwardBadOperands(t *testing.T) {
	m := newMultiplier(t)
	_, err := m.Forward([]int{1, 0}, []int{0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
	_, err = m.Forward([]int{0, 0, 0, 0, 0, 0, 0, 2}, []int{0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestMultiplyExact(t *testing.T) {
	m := newMultiplier(t)
	step := 1
	if testing.Short() {
		step = 7
	}
	for a := 0; a < 256; a += step {
		for b := 0; b < 256; b++ {
			p, err := m.Multiply(uint8(a), uint8(b))
			require.NoError(t, err)
			if int(p) != a*b {
				t.Fatalf("%d * %d = %d, got %d", a, b, a*b, p)
			}
		}
	}
}

func TestOperationStep(t *testing.T) {
	m := newMultiplier(t)
	sum := 0
	for _, id := range m.IDs() {
		in, err := m.Instance(id)
		require.NoError(t, err)
		sum += in.OperationStep()
	}
	assert.Equal(t, 1472, m.OperationStep())
	assert.Equal(t, sum, m.OperationStep())

	// drops never increase the total, in any order
	cost := m.OperationStep()
	for _, id := range []string{"ha_1", "fa_2", "ca_3", "ca_12", "fa_35"} {
		in, err := m.Instance(id)
		require.NoError(t, err)
		for _, tag := range in.SupportDropType() {
			require.NoError(t, m.DropOutput(id, tag))
			assert.LessOrEqual(t, m.OperationStep(), cost)
			cost = m.OperationStep()
		}
	}
	assert.Less(t, cost, 1472)
	require.NoError(t, m.Check())
}

func TestDropOutputRebinds(t *testing.T) {
	m := newMultiplier(t)
	eng := m.Engine()
	a1b0 := eng.Var(AName(1)).And(eng.Var(BName(0)))
	a0b1 := eng.Var(AName(0)).And(eng.Var(BName(1)))

	next, err := m.Instance("ha_13")
	require.NoError(t, err)
	x, ok := next.Input("X2")
	require.True(t, ok)
	assert.True(t, eng.Equivalent(a1b0.And(a0b1), x), "%s", x)

	require.NoError(t, m.DropOutput("ha_1", "Cout"))

	// the placeholder slot X1->X2(Cout) keeps feeding ha_13
	x, ok = next.Input("X2")
	require.True(t, ok)
	assert.True(t, eng.Equivalent(a1b0.And(a0b1.Not()).Not(), x), "%s", x)

	testCases := []struct {
		a, b uint8
		want uint16
	}{
		{3, 3, 9},
		{1, 2, 6},
		{0, 0, 4},
		{2, 1, 2},
	}
	for _, tc := range testCases {
		p, err := m.Multiply(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p, "%d*%d", tc.a, tc.b)
	}

	err = m.DropOutput("ha_1", "Cout")
	assert.True(t, errors.Is(err, component.ErrInvalidArgument))
	err = m.DropOutput("ha_1", "Sum")
	assert.True(t, errors.Is(err, component.ErrInvalidArgument))
}

func TestInputsOverPrimaryOperands(t *testing.T) {
	m := newMultiplier(t)
	primary := make(map[string]bool, 2*Width)
	for k := 0; k < Width; k++ {
		primary[AName(k)] = true
		primary[BName(k)] = true
	}
	for _, id := range m.IDs() {
		in, err := m.Instance(id)
		require.NoError(t, err)
		for _, port := range in.Primitive().Inputs {
			x, ok := in.Input(port)
			require.True(t, ok, "%s.%s", id, port)
			for _, v := range x.Vars() {
				assert.True(t, primary[v], "%s.%s depends on %s", id, port, v)
			}
		}
	}

	// inputs of y1's half adder are the two partial products of weight 2
	eng := m.Engine()
	in, err := m.Instance("ha_1")
	require.NoError(t, err)
	x, _ := in.Input("X1")
	assert.True(t, eng.Equivalent(eng.Var(AName(1)).And(eng.Var(BName(0))), x))

	require.NoError(t, m.Disconnect("ha_1", "X1"))
	_, ok := in.Input("X1")
	assert.False(t, ok)
	require.NoError(t, m.Connect("a0b1", "Sum", "ha_1", "X1"))
	x, _ = in.Input("X1")
	assert.True(t, eng.Equivalent(eng.Var(AName(0)).And(eng.Var(BName(1))), x))
}

func TestConvertMode(t *testing.T) {
	m := newMultiplier(t)
	require.NoError(t, m.ConvertMode("ca_4"))
	assert.Equal(t, 1472-44+21, m.OperationStep())
	in, err := m.Instance("ca_4")
	require.NoError(t, err)
	assert.Equal(t, component.ModeApproximate, in.Mode())

	s, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, s.NbApproximate)

	err = m.ConvertMode("ha_1")
	assert.True(t, errors.Is(err, component.ErrInvalidArgument))

	require.NoError(t, m.Reset())
	assert.Equal(t, 1472, m.OperationStep())
	p, err := m.Multiply(255, 255)
	require.NoError(t, err)
	assert.Equal(t, uint16(65025), p)
}

func TestUnknownReference(t *testing.T) {
	m := newMultiplier(t)
	testCases := []struct {
		name string
		run  func() error
	}{
		{"connect unknown source", func() error { return m.Connect("nope", "Sum", "ha_1", "X1") }},
		{"connect unknown destination", func() error { return m.Connect("a0b0", "Sum", "nope", "X1") }},
		{"connect unknown port", func() error { return m.Connect("a0b0", "Sum", "ha_1", "Cin") }},
		{"drop unknown instance", func() error { return m.DropOutput("nope", "Cout") }},
		{"convert unknown instance", func() error { return m.ConvertMode("ca_99") }},
		{"disconnect unconnected", func() error { return m.Disconnect("a0b0", "X1") }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.run(), ErrInvalidReference))
		})
	}
	require.NoError(t, m.Check())
}

func TestCheck(t *testing.T) {
	t.Run("fresh", func(t *testing.T) {
		require.NoError(t, newMultiplier(t).Check())
	})
	t.Run("disconnected input", func(t *testing.T) {
		m := newMultiplier(t)
		require.NoError(t, m.Disconnect("ca_4", "X1"))
		assert.True(t, errors.Is(m.Check(), ErrStructuralInvariant))
	})
	t.Run("rewired input", func(t *testing.T) {
		m := newMultiplier(t)
		// a0b5 now feeds two ports and a4b0 none
		require.NoError(t, m.Connect("a0b5", "Sum", "ca_4", "X1"))
		assert.True(t, errors.Is(m.Check(), ErrStructuralInvariant))
	})
	t.Run("and gate fed by connection", func(t *testing.T) {
		m := newMultiplier(t)
		require.NoError(t, m.Connect("ha_1", "Sum", "a7b7", "X1"))
		assert.True(t, errors.Is(m.Check(), ErrStructuralInvariant))
	})
}

func TestCyclicWiring(t *testing.T) {
	m := newMultiplier(t)
	require.NoError(t, m.Connect("ca_34", "Sum", "ha_1", "X1"))
	_, err := m.Levels()
	assert.True(t, errors.Is(err, ErrCyclicWiring))
	_, err = m.Multiply(1, 1)
	assert.True(t, errors.Is(err, ErrCyclicWiring))
}

func TestOrder(t *testing.T) {
	m := newMultiplier(t)
	order, err := m.Order()
	require.NoError(t, err)
	require.Len(t, order, 99)
	assert.Equal(t, m.IDs()[:64], order[:64])

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, c := range m.Connections() {
		assert.Less(t, pos[c.Src.Instance], pos[c.Dst.Instance], "%s -> %s", c.Src, c.Dst)
	}
}

func TestStats(t *testing.T) {
	m := newMultiplier(t)
	s, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, map[component.Kind]int{
		component.KindAndGate:    64,
		component.KindHalfAdder:  8,
		component.KindFullAdder:  6,
		component.KindCompressor: 21,
	}, s.NbInstance)
	assert.Equal(t, 139, s.NbConnection)
	assert.Equal(t, 1472, s.OperationStep)
	assert.Equal(t, 64, s.Levels[0])
	total := 0
	for _, n := range s.Levels {
		total += n
	}
	assert.Equal(t, 99, total)
	assert.Greater(t, s.Depth(), 2)
}

func TestDropGroups(t *testing.T) {
	m := newMultiplier(t)
	groups := m.DropGroups()
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"Carry", "Cout"}, groups[0].Tags)
	assert.Len(t, groups[0].IDs, 21)
	assert.Equal(t, "ca_3", groups[0].IDs[0])
	assert.Equal(t, "ca_34", groups[0].IDs[20])
	assert.Equal(t, []string{"Cout"}, groups[1].Tags)
	assert.Len(t, groups[1].IDs, 14)
	assert.Equal(t, "fa_2", groups[1].IDs[0])
	assert.Len(t, m.SupportDropType(), 35)
}

func TestOutputExpressions(t *testing.T) {
	m := newMultiplier(t)
	ys, err := m.OutputExpressions()
	require.NoError(t, err)
	require.Len(t, ys, 16)

	e := m.Engine()
	a0, a1, b0, b1 := e.Var(AName(0)), e.Var(AName(1)), e.Var(BName(0)), e.Var(BName(1))
	assert.True(t, e.Equivalent(ys["y0"], a0.And(b0)))
	assert.True(t, e.Equivalent(ys["y1"], a1.And(b0).Xor(a0.And(b1))))

	// symbolic and concrete evaluation agree
	values := map[string]bool{}
	for k := 0; k < Width; k++ {
		values[AName(k)] = (173>>k)&1 == 1
		values[BName(k)] = (91>>k)&1 == 1
	}
	var p int
	for k := 0; k < 2*Width; k++ {
		v, ok := ys[YName(k)].Assign(values).Bool()
		require.True(t, ok)
		if v {
			p |= 1 << k
		}
	}
	assert.Equal(t, 173*91, p)
}
