package rules

import (
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// Sheaf is a '*'-joined list of Fragments inside a "[...]" block (or a
// degenerate single-Fragment Sheaf for text outside any bracket group). It
// evaluates to the concatenation of its Fragments' combinations: the
// combination at index i of the Sheaf is Fragments[0].Combinations[i] ++
// Fragments[1].Combinations[i] ++ ... Linkable Sheaves (those appearing
// inside a rule, where positional correspondence across Fragments matters)
// require every Fragment to share the same number of combinations.
type Sheaf struct {
	raw       string
	Fragments []*Fragment

	// Combinations is set by Finalize: the concatenation, position by
	// position, of each Fragment's Combinations.
	Combinations []token.Sequence
}

// ParseSheaf parses the inside of a "[...]" block (or a bracket-free rule
// side) by splitting on top-level '*'.
func ParseSheaf(raw string) (*Sheaf, error) {
	s := &Sheaf{raw: raw}
	parts := splitTopLevelStar(raw)
	for _, part := range parts {
		frag, err := ParseFragment(part)
		if err != nil {
			return nil, err
		}
		s.Fragments = append(s.Fragments, frag)
	}
	return s, nil
}

func splitTopLevelStar(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '*':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Finalize finalizes every Fragment in the Sheaf and, if the Sheaf is
// linkable (len(Fragments) > 1), checks that every Fragment produced the
// same number of combinations before concatenating them positionally.
func (s *Sheaf) Finalize(errs *glerrors.List, linkable bool, cs *charset.Charset) {
	for _, f := range s.Fragments {
		f.Finalize(errs, cs)
	}

	if len(s.Fragments) == 0 {
		return
	}

	n := len(s.Fragments[0].Combinations)
	if linkable {
		for _, f := range s.Fragments[1:] {
			if len(f.Combinations) != n {
				errs.Add(glerrors.Finalize(
					"sheaf %q: fragment %q has %d combinations, expected %d to link with the rest of the sheaf",
					s.raw, f.raw, len(f.Combinations), n))
				return
			}
		}
	} else {
		for _, f := range s.Fragments[1:] {
			if len(f.Combinations) > n {
				n = len(f.Combinations)
			}
		}
	}

	s.Combinations = make([]token.Sequence, 0, n)
	for i := 0; i < n; i++ {
		var seq token.Sequence
		for _, f := range s.Fragments {
			idx := i
			if idx >= len(f.Combinations) {
				if len(f.Combinations) == 0 {
					continue
				}
				idx = idx % len(f.Combinations)
			}
			seq = append(seq, f.Combinations[idx]...)
		}
		s.Combinations = append(s.Combinations, seq)
	}
}

// String returns the raw source text the Sheaf was parsed from, useful for
// diagnostics.
func (s *Sheaf) String() string {
	return strings.TrimSpace(s.raw)
}
