// Package preprocess implements the preprocessor stage: ordered literal
// substitutions, canonical-form normalization and case-folding, and
// boundary-token insertion around whitespace runs.
package preprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// Substitution is one (pattern, replacement) pair applied as a literal
// string substitution to the raw input, in authored order.
type Substitution struct {
	Pattern     string
	Replacement string
}

// Options controls the normalizations applied beyond the authored
// substitution list.
type Options struct {
	// FoldAccents maps accented vowels to their base letter (e.g. ë → e)
	// when the mode declares it: NFD decomposition separates the combining
	// mark from its base letter, and FoldAccents controls whether those
	// marks are then dropped rather than carried through as their own
	// tokens.
	FoldAccents bool
}

var caser = cases.Lower(language.Und)

// Run applies the ordered substitutions, then NFD decomposition and
// case-folding, then splits the result into boundary-delimited Tokens: one
// LINE_START/LINE_END pair per non-blank input line, one WORD_START/
// WORD_END pair per whitespace-delimited word within it, and one Literal
// token per remaining Unicode scalar. Empty (or all-whitespace) input
// yields an empty token sequence.
func Run(input string, subs []Substitution, opts Options) token.Sequence {
	for _, s := range subs {
		input = strings.ReplaceAll(input, s.Pattern, s.Replacement)
	}

	if strings.TrimSpace(input) == "" {
		return nil
	}

	normalized := norm.NFD.String(input)
	normalized = caser.String(normalized)
	if opts.FoldAccents {
		normalized = stripCombiningMarks(normalized)
	}

	var out token.Sequence
	lines := strings.Split(normalized, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, token.Bound(token.LineStart))
		words := strings.Fields(line)
		for _, w := range words {
			out = append(out, token.Bound(token.WordStart))
			for _, r := range w {
				out = append(out, token.Lit(r))
			}
			out = append(out, token.Bound(token.WordEnd))
		}
		out = append(out, token.Bound(token.LineEnd))
	}
	return out
}

// stripCombiningMarks removes Unicode combining marks (category Mn) left
// over from NFD decomposition, folding e.g. "e" + COMBINING DIAERESIS down
// to plain "e".
func stripCombiningMarks(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
