package charset

import "github.com/glaemscribe/glaemscribe-go/internal/token"

// Rewrite is one triggered substitution declared inside a \virtual block:
// when trigger_sequence is found surrounding the virtual's position,
// replacement_sequence is substituted in its place. Tokens on either side
// may reference real characters, other virtuals, or the virtual itself.
type Rewrite struct {
	Trigger     token.Sequence
	Replacement token.Sequence
}

// Swap is a reordering of the virtual with an adjacent token, applied in
// VirtualChar postprocessing pass 2 when no trigger matched.
type Swap struct {
	// Side is -1 for a swap with the preceding token, +1 for the following
	// token.
	Side int
}

// VirtualChar is a charset entry resolved contextually against real
// characters during postprocessing rather than emitted directly. It carries
// an ordered list of Rewrites (pass 1, triggered), a Sequence (pass 2,
// unconditional expansion) and zero or more Swaps (pass 2, reordering).
type VirtualChar struct {
	Name string

	// Rewrites are tried in declaration order; the first matching trigger
	// wins (RuleGroup-style "later shadows earlier" does NOT apply here —
	// virtuals use first-match, since rewrites model a priority list of
	// contextual alternatives, not a trie of equally specific edges).
	Rewrites []Rewrite

	// Sequence is the unconditional multi-character expansion applied in
	// pass 2 if this virtual was not resolved by any Rewrite in pass 1. A
	// nil Sequence means the virtual has no unconditional expansion (it
	// must always be resolved in pass 1, or it is dropped as an authoring
	// error).
	Sequence token.Sequence

	// Swaps are reorderings applied in pass 2 to the expanded Sequence: each
	// exchanges the first (Side < 0) or last (Side > 0) token of the
	// expansion with its neighbor. Without a Sequence there is nothing for
	// them to move.
	Swaps []Swap
}

// IsVirtual reports whether name refers to a VirtualChar in this Charset.
func (c *Charset) IsVirtual(name string) bool {
	_, ok := c.virtuals[name]
	return ok
}
