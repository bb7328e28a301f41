package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

func Test_ParseRuleLine_splitsArrowAndAnchors(t *testing.T) {
	testCases := []struct {
		name       string
		line       string
		wantSrc    string
		wantDst    string
		wantAnchor Anchor
		wantCross  bool
	}{
		{name: "plain rule", line: "a --> b", wantSrc: "a", wantDst: "b"},
		{name: "word start anchor", line: "^a --> b", wantSrc: "a", wantDst: "b", wantAnchor: AnchorWordStart},
		{name: "word end anchor", line: "a^ --> b", wantSrc: "a", wantDst: "b", wantAnchor: AnchorWordEnd},
		{name: "both ends anchored", line: "^a^ --> b", wantSrc: "a", wantDst: "b", wantAnchor: AnchorWordStart | AnchorWordEnd},
		{name: "line anchors", line: "$a$ --> b", wantSrc: "a", wantDst: "b", wantAnchor: AnchorLineStart | AnchorLineEnd},
		{name: "cross rule", line: "(a,b)(1,2) ==> [2 1]", wantSrc: "(a,b)(1,2)", wantDst: "[2 1]", wantCross: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRuleLine(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, r.SrcText)
			assert.Equal(t, tc.wantDst, r.DstText)
			assert.Equal(t, tc.wantAnchor, r.Anchor)
			assert.Equal(t, tc.wantCross, r.IsCross)
		})
	}
}

func Test_ParseRuleLine_missingArrowErrors(t *testing.T) {
	_, err := ParseRuleLine("a b")
	assert.Error(t, err)
}

func Test_Rule_Finalize_zipsEqualLengthSides(t *testing.T) {
	r, err := ParseRuleLine("(a,e) --> (1,2)")
	require.NoError(t, err)

	var errs glerrors.List
	subs := r.Finalize(&errs, 0, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 2)
	assert.Equal(t, token.Sequence{token.Lit('a')}, subs[0].Src)
	assert.Equal(t, token.Sequence{token.Lit('1')}, subs[0].Dst)
	assert.Equal(t, token.Sequence{token.Lit('e')}, subs[1].Src)
	assert.Equal(t, token.Sequence{token.Lit('2')}, subs[1].Dst)
}

func Test_Rule_Finalize_broadcastsSingleDestination(t *testing.T) {
	r, err := ParseRuleLine("(a,e,i) --> x")
	require.NoError(t, err)

	var errs glerrors.List
	subs := r.Finalize(&errs, 3, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 3)
	for _, s := range subs {
		assert.Equal(t, token.Sequence{token.Lit('x')}, s.Dst)
		assert.Equal(t, 3, s.Priority)
	}
}

func Test_Rule_Finalize_mismatchedArityErrors(t *testing.T) {
	r, err := ParseRuleLine("(a,e,i) --> (1,2)")
	require.NoError(t, err)

	var errs glerrors.List
	subs := r.Finalize(&errs, 0, nil)

	assert.False(t, errs.Empty())
	assert.Empty(t, subs)
}

func Test_Rule_Finalize_crossRuleSchemaCanRepeatAnIndex(t *testing.T) {
	r, err := ParseRuleLine("(a)(b)(c) ==> [1 1 2]")
	require.NoError(t, err)

	var errs glerrors.List
	subs := r.Finalize(&errs, 0, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 1)
	assert.Equal(t, token.Sequence{token.Lit('a'), token.Lit('a'), token.Lit('b')}, subs[0].Dst)
}

func Test_Rule_Finalize_crossRuleSchemaOutOfRangeErrors(t *testing.T) {
	r, err := ParseRuleLine("(a)(b) ==> [1 5]")
	require.NoError(t, err)

	var errs glerrors.List
	subs := r.Finalize(&errs, 0, nil)

	assert.False(t, errs.Empty())
	assert.Empty(t, subs)
}
