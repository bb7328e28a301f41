package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glaemscribe/glaemscribe-go/internal/rules"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

func walkAll(t *Tree, seq token.Sequence) (WalkState, bool) {
	w := t.Start()
	for _, tok := range seq {
		next, ok := w.Step(tok.Key())
		if !ok {
			return WalkState{}, false
		}
		w = next
	}
	return w, true
}

func Test_Tree_insertThenWalkFindsAccept(t *testing.T) {
	tr := New()
	tr.Insert(rules.SubRule{
		Src:      token.Sequence{token.Lit('t'), token.Lit('a')},
		Dst:      token.Sequence{token.Named(token.Char, "ta-char")},
		Priority: 1,
	})

	w, ok := walkAll(tr, token.Sequence{token.Lit('t'), token.Lit('a')})
	require.True(t, ok)

	accepts := w.Accepts()
	require.Len(t, accepts, 1)
	assert.True(t, token.Equal(accepts[0].Dst, token.Sequence{token.Named(token.Char, "ta-char")}))
}

func Test_Tree_noEdgeForUnknownPathStepsFail(t *testing.T) {
	tr := New()
	tr.Insert(rules.SubRule{Src: token.Sequence{token.Lit('t')}, Dst: token.Sequence{token.Lit('T')}})

	w := tr.Start()
	_, ok := w.Step(token.Lit('z').Key())
	assert.False(t, ok)
}

func Test_Tree_intermediateNodeOnSharedPrefixHasNoAccept(t *testing.T) {
	tr := New()
	tr.Insert(rules.SubRule{Src: token.Sequence{token.Lit('t'), token.Lit('a')}, Dst: token.Sequence{token.Lit('X')}})

	w := tr.Start()
	w, ok := w.Step(token.Lit('t').Key())
	require.True(t, ok)

	assert.Nil(t, w.Accepts())
}

func Test_Tree_secondInsertAtSameSrcAndAnchorShadowsFirst(t *testing.T) {
	tr := New()
	src := token.Sequence{token.Lit('a')}
	tr.Insert(rules.SubRule{Src: src, Dst: token.Sequence{token.Lit('1')}, Priority: 1})
	tr.Insert(rules.SubRule{Src: src, Dst: token.Sequence{token.Lit('2')}, Priority: 2})

	w, ok := walkAll(tr, src)
	require.True(t, ok)

	accepts := w.Accepts()
	require.Len(t, accepts, 1)
	assert.True(t, token.Equal(accepts[0].Dst, token.Sequence{token.Lit('2')}))
	assert.Equal(t, 2, accepts[0].Priority)
}

func Test_Tree_sameSrcDifferentAnchorKeepsBothAccepts(t *testing.T) {
	tr := New()
	src := token.Sequence{token.Lit('a')}
	tr.Insert(rules.SubRule{Src: src, Dst: token.Sequence{token.Lit('1')}, Anchor: rules.AnchorNone})
	tr.Insert(rules.SubRule{Src: src, Dst: token.Sequence{token.Lit('2')}, Anchor: rules.AnchorWordStart})

	w, ok := walkAll(tr, src)
	require.True(t, ok)

	accepts := w.Accepts()
	assert.Len(t, accepts, 2)
}

func Test_WalkState_AcceptsOnZeroValueIsNil(t *testing.T) {
	var w WalkState
	assert.Nil(t, w.Accepts())
}
