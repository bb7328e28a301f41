package rules

import (
	"strconv"
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// Anchor is a positional constraint on where a Rule's source may match.
type Anchor int

const (
	AnchorNone Anchor = 0
	// AnchorWordStart requires the match to begin at a WORD_START boundary.
	AnchorWordStart Anchor = 1 << (iota - 1)
	// AnchorLineStart requires the match to begin at a LINE_START boundary.
	AnchorLineStart
	// AnchorWordEnd requires the match to end just before a WORD_END
	// boundary (a lookahead, not consumed).
	AnchorWordEnd
	// AnchorLineEnd requires the match to end just before a LINE_END
	// boundary (a lookahead, not consumed).
	AnchorLineEnd
)

// Count returns the number of individual anchor bits set, used to rank
// "stricter" anchor sets above looser ones at equal trie depth (the
// tie-break rule applied when two rules match the same span).
func (a Anchor) Count() int {
	n := 0
	for b := Anchor(1); b <= AnchorLineEnd; b <<= 1 {
		if a&b != 0 {
			n++
		}
	}
	return n
}

// SubRule is a single concrete (src, dst) transformation enumerated from a
// Rule during finalization.
type SubRule struct {
	Src    token.Sequence
	Dst    token.Sequence
	Anchor Anchor
	// Priority is the rule's authoring order; later rules shadow earlier
	// ones in the TranscriptionTree.
	Priority int
}

// Rule is an authored (not yet enumerated) source/destination pair, plus
// any anchor flags and cross-rule schema.
type Rule struct {
	SrcText string
	DstText string
	Anchor  Anchor
	IsCross bool

	src *SheafChain
	dst *SheafChain // nil for cross rules

	// crossSchema holds the 1-based source-position indices for a cross
	// rule's destination, e.g. "[i1 i2 ... in]".
	crossSchema []int
}

// ParseRuleLine parses one already variable-substituted rule line, of the
// form "<src> --> <dst>" or "<src> ==> <schema>", splitting out any
// leading/trailing anchor characters from the source side.
func ParseRuleLine(line string) (*Rule, error) {
	arrow := "-->"
	isCross := false
	idx := strings.Index(line, "==>")
	if idx >= 0 {
		arrow = "==>"
		isCross = true
	} else {
		idx = strings.Index(line, "-->")
		if idx < 0 {
			return nil, glerrors.Parse(glerrors.Location{}, "rule line %q has neither '-->' nor '==>'", line)
		}
	}

	srcText := strings.TrimSpace(line[:idx])
	dstText := strings.TrimSpace(line[idx+len(arrow):])

	srcText, anchor := extractAnchors(srcText)

	r := &Rule{SrcText: srcText, DstText: dstText, Anchor: anchor, IsCross: isCross}

	var err error
	r.src, err = ParseSheafChain(srcText)
	if err != nil {
		return nil, err
	}

	if isCross {
		schema, err := parseCrossSchema(dstText)
		if err != nil {
			return nil, err
		}
		r.crossSchema = schema
	} else {
		r.dst, err = ParseSheafChain(dstText)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// extractAnchors strips leading/trailing '^'/'$' characters from a rule's
// source text and returns the remaining text plus the accumulated Anchor
// flags.
func extractAnchors(src string) (string, Anchor) {
	var a Anchor

	for len(src) > 0 {
		switch src[0] {
		case '^':
			a |= AnchorWordStart
		case '$':
			a |= AnchorLineStart
		default:
			goto doneLeading
		}
		src = src[1:]
	}
doneLeading:

	for len(src) > 0 {
		last := src[len(src)-1]
		switch last {
		case '^':
			a |= AnchorWordEnd
		case '$':
			a |= AnchorLineEnd
		default:
			goto doneTrailing
		}
		src = src[:len(src)-1]
	}
doneTrailing:

	return src, a
}

// parseCrossSchema parses "[3 1 2]" into 1-based source indices.
func parseCrossSchema(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, glerrors.Parse(glerrors.Location{}, "empty cross-rule schema")
	}
	schema := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, glerrors.Parse(glerrors.Location{}, "invalid cross-rule schema index %q", f)
		}
		schema[i] = n
	}
	return schema, nil
}

// Finalize enumerates this Rule's SubRules. Non-cross rules zip or
// broadcast the source/destination SheafChain iterators; cross rules build
// each destination by indexing into the matching source combination.
// Errors are accumulated into errs; priority is the rule's 0-based
// authoring order, recorded on every SubRule it produces.
func (r *Rule) Finalize(errs *glerrors.List, priority int, cs *charset.Charset) []SubRule {
	r.src.Finalize(errs, cs)

	if r.IsCross {
		return r.finalizeCross(errs, priority)
	}

	r.dst.Finalize(errs, cs)

	srcCombos := collectAll(r.src.Iterator())
	dstCombos := collectAll(r.dst.Iterator())

	var subs []SubRule
	switch {
	case len(srcCombos) == len(dstCombos):
		for i := range srcCombos {
			subs = append(subs, r.makeSub(srcCombos[i], dstCombos[i], priority, errs))
		}
	case len(dstCombos) == 1:
		for i := range srcCombos {
			subs = append(subs, r.makeSub(srcCombos[i], dstCombos[0], priority, errs))
		}
	case len(srcCombos) == 1:
		for i := range dstCombos {
			subs = append(subs, r.makeSub(srcCombos[0], dstCombos[i], priority, errs))
		}
	default:
		errs.Add(glerrors.Finalize(
			"rule %q --> %q: source enumerates %d combinations, destination enumerates %d; neither side has exactly one (positional zip requires equal counts or a one-sided broadcast)",
			r.SrcText, r.DstText, len(srcCombos), len(dstCombos)))
	}
	return subs
}

func (r *Rule) makeSub(src, dst token.Sequence, priority int, errs *glerrors.List) SubRule {
	if len(src) == 0 {
		errs.Add(glerrors.Finalize("rule %q --> %q: a subrule's source combination must be non-empty", r.SrcText, r.DstText))
	}
	return SubRule{Src: src, Dst: dst, Anchor: r.Anchor, Priority: priority}
}

func (r *Rule) finalizeCross(errs *glerrors.List, priority int) []SubRule {
	srcCombos := collectAll(r.src.Iterator())

	var subs []SubRule
	for _, src := range srcCombos {
		dst := make(token.Sequence, len(r.crossSchema))
		valid := true
		for i, idx1 := range r.crossSchema {
			idx0 := idx1 - 1
			if idx0 < 0 || idx0 >= len(src) {
				errs.Add(glerrors.Finalize(
					"rule %q ==> %v: cross index %d is out of range for a %d-token source combination",
					r.SrcText, r.crossSchema, idx1, len(src)))
				valid = false
				break
			}
			dst[i] = src[idx0]
		}
		if !valid {
			continue
		}
		subs = append(subs, r.makeSub(src, dst, priority, errs))
	}
	return subs
}

func collectAll(it *SheafChainIterator) []token.Sequence {
	var out []token.Sequence
	for {
		seq, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, seq)
	}
	return out
}
