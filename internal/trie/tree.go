// Package trie implements the TranscriptionTree: a trie keyed by source
// token values whose accepting nodes carry a destination token sequence,
// an anchor constraint set, and a priority used to break ties between
// rules installed at the same depth.
package trie

import (
	"github.com/glaemscribe/glaemscribe-go/internal/rules"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// Accept is the payload at a trie node that terminates at least one
// authored rule's source sequence.
type Accept struct {
	Dst      token.Sequence
	Anchor   rules.Anchor
	Priority int
}

type node struct {
	children map[string]*node
	// accepts holds one Accept per distinct Anchor value that terminates at
	// this node. Several rules can share an identical source token sequence
	// while differing only in their anchor constraints (e.g. an unanchored
	// and a word-start-anchored rule for the same letters); the walk picks
	// among them by which anchors are actually satisfied at the match
	// position, so all of them must survive insertion, not just the last.
	accepts map[rules.Anchor]*Accept
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Tree is a TranscriptionTree: insert every authored SubRule's source
// sequence, then walk it against a token stream with longest-match
// semantics.
type Tree struct {
	root *node
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{root: newNode()}
}

// Insert adds one SubRule to the tree. On conflict, later rules shadow
// earlier ones: calling Insert again with an identical Src and Anchor
// overwrites the previous Accept for that exact anchor at that node, since
// the higher Priority of the later call is what the walk's tie-break would
// have preferred anyway. A SubRule with the same Src but a different
// Anchor is kept alongside the others at that node, so the walk can choose
// between them by anchor satisfaction.
func (t *Tree) Insert(sub rules.SubRule) {
	n := t.root
	for _, tok := range sub.Src {
		key := tok.Key()
		child, ok := n.children[key]
		if !ok {
			child = newNode()
			n.children[key] = child
		}
		n = child
	}
	if n.accepts == nil {
		n.accepts = make(map[rules.Anchor]*Accept)
	}
	n.accepts[sub.Anchor] = &Accept{Dst: sub.Dst, Anchor: sub.Anchor, Priority: sub.Priority}
}

// child returns the node reached by following a single token edge and
// reports whether it exists.
func (n *node) child(key string) (*node, bool) {
	c, ok := n.children[key]
	return c, ok
}

// WalkState is a position in the trie during the processor's walk. It keeps
// *node opaque to callers outside this package: the processor package
// drives the walk through Tree.Start / WalkState.Step rather than reaching
// into node directly.
type WalkState struct {
	n *node
}

// Start returns a WalkState positioned at the trie root.
func (t *Tree) Start() WalkState {
	return WalkState{n: t.root}
}

// Step follows the edge labeled key from the current state, returning the
// new state and whether an edge existed.
func (w WalkState) Step(key string) (WalkState, bool) {
	c, ok := w.n.child(key)
	if !ok {
		return WalkState{}, false
	}
	return WalkState{n: c}, true
}

// Accepts returns every Accept recorded at this state (one per distinct
// anchor value authored for this source path), or nil if this node does
// not terminate any rule. The processor chooses among them by checking
// which anchors are satisfied at the current match position.
func (w WalkState) Accepts() []Accept {
	if w.n == nil || len(w.n.accepts) == 0 {
		return nil
	}
	out := make([]Accept, 0, len(w.n.accepts))
	for _, a := range w.n.accepts {
		out = append(out, *a)
	}
	return out
}
