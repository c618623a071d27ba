package ir

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want Operation
	}{
		{"reset", "S1=0", NewReset("S1")},
		{"transfer", "X1->S2", NewTransfer("X1", "S2", "")},
		{"tagged transfer", "S1->X1(Cout)", NewTransfer("S1", "X1", "Cout")},
		{"surrounding spaces", "  Cin->S1 ", NewTransfer("Cin", "S1", "")},
		{"underscore", "tmp_1=0", NewReset("tmp_1")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := Parse(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, op)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"S1",
		"S1=1",
		"S1=0x",
		"1S=0",
		"S1->",
		"S1-S2",
		"S1 -> S2",
		"S1->S2(",
		"S1->S2()",
		"S1->S2(Sum",
		"S1->S2(Sum)x",
		"->S2",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrParse), "got %v", err)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	lines := []string{"S1=0", "X2->S1", "X1->S1", "S2=0", "S1->S2(Sum)"}
	ops, err := ParseSequence(lines)
	require.NoError(t, err)
	require.Equal(t, lines, Format(ops))
	require.Equal(t, "S1=0, X2->S1, X1->S1, S2=0, S1->S2(Sum)", Join(ops))
}

func TestParseSequenceReportsIndex(t *testing.T) {
	_, err := ParseSequence([]string{"S1=0", "S1->S2", "S2=>S1"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
	require.Contains(t, err.Error(), "operation 2")
}

func TestMustParseSequencePanics(t *testing.T) {
	require.Panics(t, func() { MustParseSequence("S1=0", "bad") })
}
