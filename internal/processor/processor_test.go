package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glaemscribe/glaemscribe-go/internal/rules"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
	"github.com/glaemscribe/glaemscribe-go/internal/trie"
)

func lit(s string) token.Sequence {
	return token.Runes([]rune(s))
}

func Test_Run_longestMatchWins(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("X"), Priority: 0})
	tr.Insert(rules.SubRule{Src: lit("ab"), Dst: lit("Y"), Priority: 1})

	out := Run(tr, lit("ab"))
	assert.Equal(t, lit("Y"), out)
}

func Test_Run_noMatchFallsBackToLiteral(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("X"), Priority: 0})

	out := Run(tr, lit("z"))
	assert.Equal(t, lit("z"), out)
}

func Test_Run_laterAuthoringOrderShadowsSameAnchorSameSrc(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("X"), Priority: 0})
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("Y"), Priority: 1})

	out := Run(tr, lit("a"))
	assert.Equal(t, lit("Y"), out)
}

func Test_Run_anchorRequiresWordStart(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("UNANCHORED"), Anchor: rules.AnchorNone, Priority: 0})
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("ANCHORED"), Anchor: rules.AnchorWordStart, Priority: 1})

	input := token.Sequence{token.Bound(token.WordStart)}
	input = append(input, lit("a")...)
	input = append(input, token.Bound(token.WordEnd))

	out := Run(tr, input)
	// the anchored rule is both deeper-tied and stricter at equal depth, so
	// it wins even though the unanchored rule has a lower priority and
	// would otherwise also match here.
	assert.Equal(t, lit("ANCHORED"), out)
}

func Test_Run_anchorNotSatisfiedFallsBackToLooserRule(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("UNANCHORED"), Anchor: rules.AnchorNone, Priority: 0})
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("ANCHORED"), Anchor: rules.AnchorWordStart, Priority: 1})

	// 'a' here is mid-word, not preceded by WORD_START, so the anchored
	// SubRule cannot match and the unanchored one is used instead.
	input := token.Sequence{token.Bound(token.WordStart)}
	input = append(input, lit("za")...)
	input = append(input, token.Bound(token.WordEnd))

	out := Run(tr, input)
	want := token.Sequence{token.Bound(token.WordStart), token.Lit('z')}
	want = append(want, lit("UNANCHORED")...)
	want = append(want, token.Bound(token.WordEnd))
	assert.Equal(t, want, out)
}

func Test_Run_lineStartVisibleThroughWordStart(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("LS"), Anchor: rules.AnchorLineStart, Priority: 0})

	input := token.Sequence{token.Bound(token.LineStart), token.Bound(token.WordStart), token.Lit('a'),
		token.Bound(token.WordEnd), token.Bound(token.LineEnd)}

	out := Run(tr, input)
	want := token.Sequence{token.Bound(token.LineStart), token.Bound(token.WordStart), token.Lit('L'), token.Lit('S'),
		token.Bound(token.WordEnd), token.Bound(token.LineEnd)}
	assert.Equal(t, want, out)
}

func Test_Run_crossRuleReordering(t *testing.T) {
	tr := trie.New()
	// "ab" -> "ba", built the way Rule.Finalize would enumerate a
	// "[a][b] ==> [2 1]" cross rule.
	tr.Insert(rules.SubRule{Src: lit("ab"), Dst: lit("ba"), Priority: 0})

	out := Run(tr, lit("ab"))
	assert.Equal(t, lit("ba"), out)
}

func Test_Run_emptyInput(t *testing.T) {
	tr := trie.New()
	tr.Insert(rules.SubRule{Src: lit("a"), Dst: lit("X"), Priority: 0})

	out := Run(tr, nil)
	assert.Nil(t, out)
}
