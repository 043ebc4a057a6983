package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "My Space Name", expected: "myspacename"},
		{input: "  Équipe  Réseau ", expected: "equipereseau"},
		{input: "SPACE", expected: "space"},
		{input: "a\tb\nc", expected: "abc"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Normalize(test.input))
	}
}

func TestContainsNormalized(t *testing.T) {
	require.True(t, ContainsNormalized("My Space Name", "space"))
	require.True(t, ContainsNormalized("Équipe Réseau", "EQUIPE"))
	require.True(t, ContainsNormalized("SPACE", "pac"))
	require.False(t, ContainsNormalized("My Space Name", "other"))
}
