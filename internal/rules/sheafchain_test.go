package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

func Test_ParseSheafChain_mixesBareTextAndBracketGroups(t *testing.T) {
	sc, err := ParseSheafChain("h[a*b]t")
	require.NoError(t, err)
	require.Len(t, sc.Sheaves, 3)
}

func Test_ParseSheafChain_unbalancedBracketErrors(t *testing.T) {
	_, err := ParseSheafChain("h[a*b")
	assert.Error(t, err)
}

func Test_SheafChain_NumCombinations_isProductOfSheafCounts(t *testing.T) {
	// two distinct bracketed Sheaves, each holding one alternation Fragment;
	// NumCombinations multiplies across Sheaves (2 * 3), not within one.
	sc, err := ParseSheafChain("[(a,b)][(c,d,e)]")
	require.NoError(t, err)
	require.Len(t, sc.Sheaves, 2)

	var errs glerrors.List
	sc.Finalize(&errs, nil)
	require.True(t, errs.Empty())

	assert.Equal(t, 6, sc.NumCombinations())
}

func Test_SheafChainIterator_emitsEveryCombinationThenStops(t *testing.T) {
	sc, err := ParseSheafChain("(a,b)(1,2)")
	require.NoError(t, err)

	var errs glerrors.List
	sc.Finalize(&errs, nil)
	require.True(t, errs.Empty())

	it := sc.Iterator()
	var got []token.Sequence
	for {
		seq, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, seq)
	}

	assert.Len(t, got, sc.NumCombinations())
	assert.Equal(t, token.Sequence{token.Lit('a'), token.Lit('1')}, got[0])
	assert.Equal(t, token.Sequence{token.Lit('b'), token.Lit('2')}, got[len(got)-1])
}

func Test_SheafChainIterator_isRestartable(t *testing.T) {
	sc, err := ParseSheafChain("(a,b)")
	require.NoError(t, err)

	var errs glerrors.List
	sc.Finalize(&errs, nil)
	require.True(t, errs.Empty())

	first := sc.Iterator()
	seq1, ok := first.Next()
	require.True(t, ok)

	second := sc.Iterator()
	seq2, ok := second.Next()
	require.True(t, ok)

	assert.Equal(t, seq1, seq2)
}
