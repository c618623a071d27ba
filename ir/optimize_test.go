package ir

import (
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneIndependentOutputs(t *testing.T) {
	eng := expr.NewEngine()
	ops := MustParseSequence("S1=0", "A->S1(P)", "S2=0", "B->S2(Q)")
	g, err := Build(eng, []string{"A", "B", "S1", "S2"}, []string{"P", "Q"}, ops)
	require.NoError(t, err)

	p := g.Prune(eng, []string{"P"})
	require.NoError(t, p.Validate())
	assert.Equal(t, MustParseSequence("S1=0", "A->S1(P)"), p.Operations())
	assert.Equal(t, map[string]string{"P": "S1"}, p.Outputs)
	assert.Equal(t, 2, p.OperationStep())

	s2, ok := p.Latest("S2")
	require.True(t, ok)
	assert.Equal(t, RoleDeleted, s2.Role)
	v, ok := s2.Expr.Bool()
	assert.True(t, ok)
	assert.False(t, v)

	// surviving node keeps id and expression
	before, _ := g.Output("P")
	after, _ := p.Output("P")
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, before.Expr.Equal(after.Expr))
}

func TestPruneSharedCone(t *testing.T) {
	// Q reads S1 through a diamond, so S1's history must survive when P is dropped
	eng := expr.NewEngine()
	ops := MustParseSequence(
		"S1=0", "A->S1", "S2=0", "S1->S2", "B->S1(P)", "S1->S2", "S2->A(Q)",
	)
	g, err := Build(eng, []string{"A", "B", "S1", "S2"}, []string{"P", "Q"}, ops)
	require.NoError(t, err)

	p := g.Prune(eng, []string{"Q"})
	require.NoError(t, p.Validate())
	assert.Equal(t, ops, p.Operations())

	q := g.Prune(eng, []string{"P"})
	require.NoError(t, q.Validate())
	assert.Equal(t, MustParseSequence("S1=0", "A->S1", "B->S1(P)"), q.Operations())
}

func TestPruneNothing(t *testing.T) {
	eng := expr.NewEngine()
	g, err := Build(eng, andSwitches, []string{"Sum"}, andOps())
	require.NoError(t, err)
	p := g.Prune(eng, nil)
	require.NoError(t, p.Validate())
	assert.Empty(t, p.Edges)
	assert.Empty(t, p.Outputs)
	for _, sw := range andSwitches {
		n, ok := p.Latest(sw)
		require.True(t, ok)
		assert.Equal(t, RoleDeleted, n.Role)
	}
}
