package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

func Test_Run_emptyOrBlankInputYieldsNilSequence(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"only spaces", "   "},
		{"only newlines", "\n\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Run(tc.input, nil, Options{})
			assert.Nil(t, out)
		})
	}
}

func Test_Run_singleWordGetsBoundaryWrappedLiterals(t *testing.T) {
	out := Run("ta", nil, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('t'),
		token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_multipleWordsEachGetOwnWordBoundaries(t *testing.T) {
	out := Run("ta na", nil, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('t'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.WordStart),
		token.Lit('n'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_blankLinesAreSkippedButNonBlankLinesEachGetBoundaries(t *testing.T) {
	out := Run("ta\n\nna", nil, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('t'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('n'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_substitutionsApplyBeforeTokenizing(t *testing.T) {
	subs := []Substitution{{Pattern: "th", Replacement: "x"}}
	out := Run("tha", subs, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('x'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_substitutionsApplyInAuthoredOrder(t *testing.T) {
	subs := []Substitution{
		{Pattern: "a", Replacement: "b"},
		{Pattern: "b", Replacement: "c"},
	}
	out := Run("a", subs, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('c'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_uppercaseIsCaseFoldedToLower(t *testing.T) {
	out := Run("TA", nil, Options{})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('t'), token.Lit('a'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_withoutFoldAccentsDecomposesButKeepsCombiningMark(t *testing.T) {
	out := Run("ë", nil, Options{FoldAccents: false})

	// NFD decomposes "ë" into "e" + COMBINING DIAERESIS (U+0308); without
	// folding, the combining mark survives as its own literal token.
	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('e'), token.Lit('\u0308'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}

func Test_Run_withFoldAccentsDropsCombiningMark(t *testing.T) {
	out := Run("ë", nil, Options{FoldAccents: true})

	expect := token.Sequence{
		token.Bound(token.LineStart),
		token.Bound(token.WordStart),
		token.Lit('e'),
		token.Bound(token.WordEnd),
		token.Bound(token.LineEnd),
	}
	assert.True(t, token.Equal(expect, out), "got %v", out)
}
