// Package processor implements the transcription trie walk: a
// cursor-driven longest-match scan of a preprocessed token stream against a
// finalized trie.Tree, honoring anchor constraints and the authoring-order
// tie-break when several rules could match at the same depth.
package processor

import (
	"github.com/glaemscribe/glaemscribe-go/internal/rules"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
	"github.com/glaemscribe/glaemscribe-go/internal/trie"
)

// Run walks tree against input and returns the transcribed token sequence.
// Every input token is accounted for: either consumed as part of a matched
// rule's source (replaced by that rule's destination tokens) or, when no
// rule matches at the cursor, carried through unchanged — which is how
// boundary tokens survive into the postprocessor when no authored rule
// anchors on them directly.
func Run(tree *trie.Tree, input token.Sequence) token.Sequence {
	var out token.Sequence

	i := 0
	for i < len(input) {
		startAnchors := boundaryAnchorsBefore(input, i)

		state := tree.Start()
		var best trie.Accept
		haveBest := false
		bestLen := 0

		j := i
		for j < len(input) {
			next, ok := state.Step(input[j].Key())
			if !ok {
				break
			}
			state = next
			j++

			for _, acc := range state.Accepts() {
				endAnchors := boundaryAnchorsAfter(input, j)
				if !anchorSatisfied(acc.Anchor, startAnchors, endAnchors) {
					continue
				}
				depth := j - i
				if !haveBest || betterMatch(depth, acc, bestLen, best) {
					haveBest = true
					bestLen = depth
					best = acc
				}
			}
		}

		if haveBest {
			out = append(out, best.Dst...)
			i += bestLen
		} else {
			out = append(out, input[i])
			i++
		}
	}

	return out
}

// betterMatch reports whether candidate (at candidateLen, with candidate's
// anchor/priority) should replace the currently best match. Depth always
// wins first since the walk is longest-match; at equal depth a stricter
// (more specific) anchor set wins; among equally strict anchors the higher
// Priority — later authoring order — wins.
func betterMatch(candidateLen int, candidate trie.Accept, bestLen int, best trie.Accept) bool {
	if candidateLen != bestLen {
		return candidateLen > bestLen
	}
	if candidate.Anchor.Count() != best.Anchor.Count() {
		return candidate.Anchor.Count() > best.Anchor.Count()
	}
	return candidate.Priority > best.Priority
}

// anchorSatisfied reports whether every anchor bit required requires is
// present in the anchor sets actually observed at the match's start and
// end.
func anchorSatisfied(required rules.Anchor, start, end rules.Anchor) bool {
	if required&rules.AnchorWordStart != 0 && start&rules.AnchorWordStart == 0 {
		return false
	}
	if required&rules.AnchorLineStart != 0 && start&rules.AnchorLineStart == 0 {
		return false
	}
	if required&rules.AnchorWordEnd != 0 && end&rules.AnchorWordEnd == 0 {
		return false
	}
	if required&rules.AnchorLineEnd != 0 && end&rules.AnchorLineEnd == 0 {
		return false
	}
	return true
}

// boundaryAnchorsBefore scans input backward from position i, collecting
// the Anchor bits implied by the run of Boundary tokens immediately
// preceding i (a WORD_START or LINE_START stops contributing once a
// non-boundary token, or the start of input, is reached). Boundaries are
// always authored directly adjacent to each other when they stack (e.g.
// LINE_START immediately followed by WORD_START for a line's first word),
// so a short backward walk is enough to see every anchor that currently
// holds.
func boundaryAnchorsBefore(input token.Sequence, i int) rules.Anchor {
	var a rules.Anchor
	for k := i - 1; k >= 0; k-- {
		tok := input[k]
		if tok.Kind != token.Boundary {
			break
		}
		switch tok.Name {
		case token.WordStart:
			a |= rules.AnchorWordStart
		case token.LineStart:
			a |= rules.AnchorLineStart
		default:
			// WORD_END/LINE_END immediately before i means i sits between
			// two words or lines, not at a start; stop without adding bits.
			return a
		}
	}
	return a
}

// boundaryAnchorsAfter is boundaryAnchorsBefore's mirror: it scans forward
// from position j (the position just past a candidate match), collecting
// the Anchor bits implied by the run of Boundary tokens immediately
// following j.
func boundaryAnchorsAfter(input token.Sequence, j int) rules.Anchor {
	var a rules.Anchor
	for k := j; k < len(input); k++ {
		tok := input[k]
		if tok.Kind != token.Boundary {
			break
		}
		switch tok.Name {
		case token.WordEnd:
			a |= rules.AnchorWordEnd
		case token.LineEnd:
			a |= rules.AnchorLineEnd
		default:
			return a
		}
	}
	return a
}
