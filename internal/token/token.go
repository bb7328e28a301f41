// Package token defines the tagged-variant value that flows between every
// stage of the transcription pipeline: the preprocessor, the transcription
// trie walk, and each postprocessor operator all read and write slices of
// Token.
package token

import "fmt"

// Kind is the tag of a Token. Go has no pointer-polymorphic base class to
// lean on the way a dynamically typed reference engine would, so Token is a
// small sum type instead: a kind tag plus the one field that kind uses.
type Kind int

const (
	// Literal is a single Unicode scalar carried through from the input text
	// unchanged (not resolved against any charset).
	Literal Kind = iota

	// Char is a reference to a real Character in the active charset, by
	// name.
	Char

	// Virtual is a reference to a VirtualChar in the active charset, by
	// name. No Virtual token should remain once postprocessing completes.
	Virtual

	// Boundary is a structural marker (word or line start/end) inserted by
	// the preprocessor so that rules and anchors can match against it.
	Boundary
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Char:
		return "char"
	case Virtual:
		return "virtual"
	case Boundary:
		return "boundary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Boundary markers. These are the only valid values of Token.Name when
// Kind == Boundary.
const (
	WordStart = "WORD_START"
	WordEnd   = "WORD_END"
	LineStart = "LINE_START"
	LineEnd   = "LINE_END"
)

// Token is one item of the stream passed between pipeline stages. Exactly
// one of Literal/Name is meaningful, selected by Kind:
//
//   - Kind == Literal:  Literal holds the scalar, Name is unused.
//   - Kind == Char/Virtual: Name holds the charset entry name.
//   - Kind == Boundary: Name holds one of the Word*/Line* constants above.
type Token struct {
	Kind    Kind
	Literal rune
	Name    string
}

// Lit creates a literal-scalar Token.
func Lit(r rune) Token {
	return Token{Kind: Literal, Literal: r}
}

// Named creates a Char or Virtual Token referencing a charset entry by name.
// kind must be Char or Virtual.
func Named(kind Kind, name string) Token {
	if kind != Char && kind != Virtual {
		panic(fmt.Sprintf("token.Named: invalid kind %s for a named token", kind))
	}
	return Token{Kind: kind, Name: name}
}

// Bound creates a Boundary Token with the given marker name.
func Bound(name string) Token {
	return Token{Kind: Boundary, Name: name}
}

// Key returns the value this Token is matched against when used as a trie
// edge label: the literal scalar as a string for Literal tokens, the entry
// name for Char/Virtual/Boundary tokens.
func (t Token) Key() string {
	if t.Kind == Literal {
		return string(t.Literal)
	}
	return t.Name
}

func (t Token) String() string {
	switch t.Kind {
	case Literal:
		return fmt.Sprintf("%q", string(t.Literal))
	case Boundary:
		return "<" + t.Name + ">"
	default:
		return fmt.Sprintf("%s:%s", t.Kind, t.Name)
	}
}

// Sequence is a convenience alias for the slice type passed around the
// pipeline; it exists purely for readability at call sites.
type Sequence = []Token

// Equal reports whether two Sequences hold identical tokens in the same
// order.
func Equal(a, b Sequence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Runes converts a plain rune slice into a Sequence of Literal tokens.
func Runes(rs []rune) Sequence {
	seq := make(Sequence, len(rs))
	for i, r := range rs {
		seq[i] = Lit(r)
	}
	return seq
}
