package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// fragSlot is one position of a Fragment expression: either a single fixed
// literal (a bare character outside any parenthesized group) or an
// alternation group ("(a,b,c)"), each alternative itself a raw text item
// later expanded into a token sequence (zero tokens for an empty
// alternative — "(,x)" is legal and denotes absence).
type fragSlot struct {
	alternatives []string
}

// Fragment is the smallest authored expansion unit: a cartesian product of
// its slots' alternatives. A finalized Fragment is a non-empty ordered list
// of token sequences; all of them must share one length once finalization
// (Unicode-literal resolution) has run — a violation is recorded as a
// RuleGroup error, not panicked.
type Fragment struct {
	raw   string
	slots []fragSlot

	// rawCombinations holds the raw (pre-finalization) text pieces making up
	// each enumerated sequence; set by expand().
	rawCombinations [][]string

	// Combinations holds the finalized token sequences, set by Finalize.
	Combinations []token.Sequence
}

// ParseFragment parses an expression like "h(a,ä)(i,ï)" into a Fragment
// ready for Finalize. Variable substitution (regular variables) must
// already have happened on raw before this is called; only {UNI_xxxx}
// literal markers and <name> charset-entry references may remain — the
// latter use a different delimiter than regular variables precisely so
// SubstituteVariables never mistakes one for an undefined variable.
func ParseFragment(raw string) (*Fragment, error) {
	f := &Fragment{raw: raw}

	i := 0
	for i < len(raw) {
		c := raw[i]
		if c == '(' {
			end := matchingParen(raw, i)
			if end < 0 {
				return nil, glerrors.Parse(glerrors.Location{}, "unbalanced '(' in fragment %q", raw)
			}
			inner := raw[i+1 : end]
			alts := splitTopLevelComma(inner)
			f.slots = append(f.slots, fragSlot{alternatives: alts})
			i = end + 1
			continue
		}
		if c == '{' {
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, glerrors.Parse(glerrors.Location{}, "unbalanced '{' in fragment %q", raw)
			}
			end += i
			f.slots = append(f.slots, fragSlot{alternatives: []string{raw[i : end+1]}})
			i = end + 1
			continue
		}
		if c == '<' {
			end := strings.IndexByte(raw[i:], '>')
			if end < 0 {
				return nil, glerrors.Parse(glerrors.Location{}, "unbalanced '<' in fragment %q", raw)
			}
			end += i
			f.slots = append(f.slots, fragSlot{alternatives: []string{raw[i : end+1]}})
			i = end + 1
			continue
		}
		// a single literal rune, treated as its own fixed slot.
		r, size := utf8.DecodeRuneInString(raw[i:])
		f.slots = append(f.slots, fragSlot{alternatives: []string{string(r)}})
		i += size
	}

	f.expand()
	return f, nil
}

func matchingParen(s string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevelComma(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// expand computes the cartesian product of slot alternatives, producing
// f.rawCombinations: one []string per combination, each element the raw
// text contributed by one slot (possibly "" for an absent alternative,
// dropped during Finalize).
func (f *Fragment) expand() {
	combos := [][]string{{}}
	for _, slot := range f.slots {
		var next [][]string
		for _, combo := range combos {
			for _, alt := range slot.alternatives {
				c := make([]string, len(combo), len(combo)+1)
				copy(c, combo)
				c = append(c, alt)
				next = append(next, c)
			}
		}
		combos = next
	}
	f.rawCombinations = combos
}

// Finalize resolves each combination's {UNI_xxxx} literals and <name>
// charset-entry references into token sequences, concatenates them, and
// checks the equal-length invariant. Plain text pieces are expanded one
// Literal token per rune. cs is the Mode's active charset, consulted to
// decide whether a <name> reference names a Character or a VirtualChar; it
// may be nil (e.g. in isolated tests), in which case every <name>
// reference defaults to a Char-kind token, left for ResolveCharsets to
// flag as unresolved. Errors are appended to errs rather than returned, so
// one bad rule doesn't stop the rest of the group from finalizing.
func (f *Fragment) Finalize(errs *glerrors.List, cs *charset.Charset) {
	f.Combinations = make([]token.Sequence, 0, len(f.rawCombinations))

	length := -1
	for _, combo := range f.rawCombinations {
		var seq token.Sequence
		ok := true
		for _, piece := range combo {
			pieceSeq, err := expandPieceText(piece, cs)
			if err != nil {
				errs.Add(err.(*glerrors.Error))
				ok = false
				continue
			}
			seq = append(seq, pieceSeq...)
		}
		if !ok {
			continue
		}
		if length == -1 {
			length = len(seq)
		} else if len(seq) != length {
			errs.Add(glerrors.Finalize(
				"fragment %q: combination %v has length %d, expected %d (all combinations of a fragment must expand to equal-length sequences)",
				f.raw, combo, len(seq), length))
			continue
		}
		f.Combinations = append(f.Combinations, seq)
	}
}

// expandPieceText turns one raw text piece into a token sequence. A piece
// of the form "{UNI_xxxx}" resolves to its literal code points. A piece of
// the form "<name>" is a charset-entry reference, resolved against cs to a
// Char or Virtual token (Char if cs is nil or doesn't recognize the name —
// ResolveCharsets reports that case as a warning later). Anything else is
// plain authored text, expanded one Literal token per rune — this is how a
// rule's source side spells out the raw input letters it matches.
func expandPieceText(piece string, cs *charset.Charset) (token.Sequence, error) {
	if piece == "" {
		return nil, nil
	}
	if strings.HasPrefix(piece, "{") && strings.HasSuffix(piece, "}") {
		name := piece[1 : len(piece)-1]
		return ResolveUnicodeLiteral(name)
	}
	if strings.HasPrefix(piece, "<") && strings.HasSuffix(piece, ">") {
		name := piece[1 : len(piece)-1]
		if cs != nil {
			if _, ok := cs.Virtual(name); ok {
				return token.Sequence{token.Named(token.Virtual, name)}, nil
			}
		}
		return token.Sequence{token.Named(token.Char, name)}, nil
	}
	seq := make(token.Sequence, 0, len(piece))
	for _, r := range piece {
		seq = append(seq, token.Lit(r))
	}
	return seq, nil
}
