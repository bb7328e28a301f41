package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Macro_Deploy_substitutesPositionalAndNamedParams(t *testing.T) {
	m := &Macro{
		Name:   "consonant_pair",
		Params: []string{"src", "dst"},
		Body:   []string{"$src --> $dst", "$1^ --> $2"},
	}

	out, err := m.Deploy([]string{"t", "tinco"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t --> tinco", out[0])
	assert.Equal(t, "t^ --> tinco", out[1])
}

func Test_Macro_Deploy_wrongArgCountErrors(t *testing.T) {
	m := &Macro{Name: "pair", Params: []string{"a", "b"}}

	_, err := m.Deploy([]string{"only-one"})
	assert.Error(t, err)
}

func Test_Macro_Deploy_unboundDollarSequenceLeftLiteral(t *testing.T) {
	m := &Macro{Name: "noop", Params: nil, Body: []string{"cost is $5"}}

	out, err := m.Deploy(nil)
	require.NoError(t, err)
	assert.Equal(t, "cost is $5", out[0])
}
