package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plan = `
approximate: [ca_5, ca_4]
drops:
  ca_10: [Carry]
  ha_1: [Cout]
evaluation:
  samples: 50
  seed: 3
  workers: 2
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(plan))
	require.NoError(t, err)
	want := &Plan{
		Approximate: []string{"ca_5", "ca_4"},
		Drops: map[string][]string{
			"ca_10": {"Carry"},
			"ha_1":  {"Cout"},
		},
		Evaluation: Evaluation{Samples: 50, Seed: 3, Workers: 2},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	p, err := Parse([]byte("drops: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, Evaluation{Samples: DefaultSamples, Seed: 1, Workers: runtime.NumCPU()}, p.Evaluation)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"unknown key", "approximated: [ca_4]\n"},
		{"bad shape", "drops: [ca_4]\n"},
		{"duplicate approximate", "approximate: [ca_4, ca_4]\n"},
		{"duplicate tag", "drops: {ca_4: [Cout, Cout]}\n"},
		{"primary tag", "drops: {ca_4: [Sum]}\n"},
		{"negative workers", "evaluation: {workers: -1}\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.text))
			assert.Error(t, err)
		})
	}
	_, err := Parse([]byte("drops: {ca_4: [Sum]}\n"))
	assert.True(t, errors.Is(err, component.ErrInvalidArgument))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))
	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Drops, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	p, err := Parse([]byte(plan))
	require.NoError(t, err)
	m, err := p.Build()
	require.NoError(t, err)

	// two compressors go from 44 to 21, ha_1 drops Cout (12 -> 9),
	// ca_10 drops Carry (44 -> 41)
	assert.Equal(t, 1472-2*23-3-3, m.OperationStep())
	s, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, s.NbApproximate)
	assert.Equal(t, 2, s.NbDrop)
	require.NoError(t, m.Check())
}

func TestApplyErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want error
	}{
		{"unknown instance", "drops: {ca_99: [Cout]}\n", multiplier.ErrInvalidReference},
		{"unknown tag", "drops: {ha_1: [Carry]}\n", component.ErrInvalidArgument},
		{"no approximate script", "approximate: [fa_2]\n", component.ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse([]byte(tc.text))
			require.NoError(t, err)
			_, err = p.Build()
			assert.True(t, errors.Is(err, tc.want), "%v", err)
		})
	}
}
