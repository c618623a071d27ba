package proof

import (
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instance(t *testing.T, p component.Primitive) *component.Instance {
	t.Helper()
	in, err := component.New(expr.NewEngine(), p.Kind.String(), p)
	require.NoError(t, err)
	return in
}

func TestCheck(t *testing.T) {
	for _, p := range []component.Primitive{
		component.AndGate(),
		component.HalfAdder(),
		component.FullAdder(),
		component.Compressor(),
	} {
		t.Run(p.Kind.String(), func(t *testing.T) {
			require.NoError(t, Check(instance(t, p)))
		})
	}
	t.Run("ca approximate", func(t *testing.T) {
		in := instance(t, component.Compressor())
		require.NoError(t, in.ConvertMode())
		require.NoError(t, Check(in))
	})
	t.Run("ca dropped", func(t *testing.T) {
		in := instance(t, component.Compressor())
		require.NoError(t, in.DropOutput("Carry"))
		require.NoError(t, Check(in))
	})
}

func TestSolveRejectsWrongOutput(t *testing.T) {
	in := instance(t, component.HalfAdder())
	c, err := NewCircuit(in)
	require.NoError(t, err)
	row := map[string]bool{"X1": true, "X2": true}
	require.NoError(t, Solve(c, row, map[string]bool{"Sum": false, "Cout": true}))
	assert.Error(t, Solve(c, row, map[string]bool{"Sum": true, "Cout": true}))
	assert.Error(t, Solve(c, row, map[string]bool{"Sum": false, "Cout": false}))
}

func TestCount(t *testing.T) {
	in := instance(t, component.Compressor())
	full, err := Count(in)
	require.NoError(t, err)
	assert.Greater(t, full, 5)

	require.NoError(t, in.DropOutput("Cout"))
	dropped, err := Count(in)
	require.NoError(t, err)
	assert.Less(t, dropped, full)

	c, err := NewCircuit(in)
	require.NoError(t, err)
	assert.Len(t, c.Out, 2)
	assert.Equal(t, []string{"Sum", "Carry"}, c.net.outputs)
}
