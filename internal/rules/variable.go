// Package rules implements the rule expansion algebra: Variables and
// Macros, Fragment/Sheaf/SheafChain combinatorial expansion, Rule/SubRule
// enumeration, and RuleGroup finalization (variable substitution, macro
// deployment, SubRule enumeration).
package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// MaxVariableRecursionDepth bounds regular-variable substitution so a
// self-referential or mutually-recursive variable chain fails cleanly
// instead of looping forever.
const MaxVariableRecursionDepth = 16

// Variable is a named list of tokens bound in a RuleGroup. Regular
// variables ({foo}) are substituted textually during rule-text
// preprocessing, before Fragment parsing. Unicode-literal variables
// ({UNI_1F4A9}) are left alone until Fragment finalization so a
// multi-scalar literal survives as one atomic unit through the rest of the
// pipeline.
type Variable struct {
	Name string
	// Text is the variable's raw, comma-separated token list as authored
	// (e.g. "a,e,i,o,u"), used during regular-variable substitution.
	Text string
}

var varRefPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
var uniLiteralPattern = regexp.MustCompile(`^UNI_([0-9A-Fa-f]+(?:_[0-9A-Fa-f]+)*)$`)

// SubstituteVariables expands every {name} reference in text against vars,
// recursively, leaving {UNI_xxxx} references untouched (those are resolved
// later, per-Fragment, by ResolveUnicodeLiteral). Returns a glerrors.Error
// if recursion exceeds MaxVariableRecursionDepth (a loop error) or if a
// referenced variable is undefined.
func SubstituteVariables(text string, vars map[string]*Variable) (string, error) {
	return substituteVariables(text, vars, 0)
}

func substituteVariables(text string, vars map[string]*Variable, depth int) (string, error) {
	if depth > MaxVariableRecursionDepth {
		return "", glerrors.Finalize("variable substitution exceeded max recursion depth %d (possible cyclic reference)", MaxVariableRecursionDepth)
	}

	var substErr error
	replaced := varRefPattern.ReplaceAllStringFunc(text, func(match string) string {
		if substErr != nil {
			return match
		}
		name := match[1 : len(match)-1]
		if uniLiteralPattern.MatchString(name) {
			// Unicode literal: leave the {UNI_xxxx} marker in place for
			// Fragment finalization to resolve.
			return match
		}
		v, ok := vars[name]
		if !ok {
			substErr = glerrors.Finalize("undefined variable %q", name)
			return match
		}
		return v.Text
	})
	if substErr != nil {
		return "", substErr
	}

	if replaced == text {
		return replaced, nil
	}
	// Keep expanding until a fixed point (bounded by depth) so a variable
	// that references another variable resolves fully.
	return substituteVariables(replaced, vars, depth+1)
}

// ResolveUnicodeLiteral parses a "UNI_xxxx" name (as captured without
// braces) into the token sequence of Unicode scalars it names. The
// authored bytes are preserved exactly, with no implicit NFC/NFD
// normalization.
func ResolveUnicodeLiteral(name string) (token.Sequence, error) {
	m := uniLiteralPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, glerrors.Finalize("not a unicode literal: %q", name)
	}
	hex := m[1]
	// a UNI_ literal may chain multiple code points separated by "_", e.g.
	// UNI_0041_0301 for "A" + combining acute.
	parts := strings.Split(hex, "_")
	seq := make(token.Sequence, 0, len(parts))
	for _, p := range parts {
		cp, err := strconv.ParseInt(p, 16, 32)
		if err != nil {
			return nil, glerrors.Finalize("invalid unicode literal component %q in UNI_%s", p, hex)
		}
		seq = append(seq, token.Lit(rune(cp)))
	}
	return seq, nil
}

// IsUnicodeLiteralRef reports whether s (without braces) names a Unicode
// literal variable.
func IsUnicodeLiteralRef(s string) bool {
	return uniLiteralPattern.MatchString(s)
}
