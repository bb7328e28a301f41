// Package modefile is a minimal scanner/parser for the GLAEML-like mode and
// charset file grammar. It is deliberately small: the GLAEML lexer proper is
// treated as an external collaborator specified only by the contract the
// core sees, so this package exists only to get real mode/charset text
// turned into the core's data model (charset.Charset, rules.RuleGroup
// sources) — not to be a general-purpose GLAEML implementation. See
// DESIGN.md for why a generated-parser dependency was not pulled in for it.
package modefile

import (
	"strings"
	"unicode"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokDirective     // \word
	tokWord          // bare identifier/number/operator-ish text
	tokString        // "quoted text"
	tokLBrace        // {
	tokRBrace        // }
	tokSemi          // ;
	tokColon         // :
	tokComma         // ,
	tokArrow         // -->
	tokCrossArrow    // ==>
)

type lexTok struct {
	kind tokKind
	text string
	line int
	col  int
}

// lexer splits mode/charset file source into a flat token stream. Comments
// (from "#" to end of line) and insignificant whitespace are dropped.
// Newlines are otherwise not significant to the grammar; line/col are
// tracked purely for diagnostics.
type lexer struct {
	file   string
	src    []rune
	pos    int
	line   int
	col    int
	toks   []lexTok
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: []rune(src), line: 1, col: 1}
}

func (l *lexer) lexAll() ([]lexTok, error) {
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, lexTok{kind: tokEOF, line: l.line, col: l.col})
			return l.toks, nil
		}

		startLine, startCol := l.line, l.col
		c := l.src[l.pos]

		switch {
		case c == '\\':
			l.advance()
			word := l.readBareWord()
			l.toks = append(l.toks, lexTok{kind: tokDirective, text: word, line: startLine, col: startCol})
		case c == '"':
			s, err := l.readQuoted()
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, lexTok{kind: tokString, text: s, line: startLine, col: startCol})
		case c == '{':
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokLBrace, text: "{", line: startLine, col: startCol})
		case c == '}':
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokRBrace, text: "}", line: startLine, col: startCol})
		case c == ';':
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokSemi, text: ";", line: startLine, col: startCol})
		case c == ':':
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokColon, text: ":", line: startLine, col: startCol})
		case c == ',':
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokComma, text: ",", line: startLine, col: startCol})
		case c == '-' && l.peekAt(1) == '-' && l.peekAt(2) == '>':
			l.advance()
			l.advance()
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokArrow, text: "-->", line: startLine, col: startCol})
		case c == '=' && l.peekAt(1) == '=' && l.peekAt(2) == '>':
			l.advance()
			l.advance()
			l.advance()
			l.toks = append(l.toks, lexTok{kind: tokCrossArrow, text: "==>", line: startLine, col: startCol})
		default:
			word := l.readBareWord()
			if word == "" {
				return nil, glerrors.Parse(glerrors.Location{File: l.file, Line: startLine, Col: startCol}, "unexpected character %q", c)
			}
			l.toks = append(l.toks, lexTok{kind: tokWord, text: word, line: startLine, col: startCol})
		}
	}
}

func (l *lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *lexer) advance() rune {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if unicode.IsSpace(c) {
			l.advance()
			continue
		}
		if c == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// bareWordBreakers are characters that always end a bare word even with no
// intervening space, so that e.g. "a,b" lexes as three tokens.
func isBareWordBreaker(c rune) bool {
	switch c {
	case '{', '}', ';', ':', ',', '"', '\\':
		return true
	}
	return unicode.IsSpace(c)
}

func (l *lexer) readBareWord() string {
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isBareWordBreaker(c) {
			break
		}
		// don't swallow a "-->" or "==>" that immediately follows other text
		if (c == '-' && l.peekAt(1) == '-' && l.peekAt(2) == '>') ||
			(c == '=' && l.peekAt(1) == '=' && l.peekAt(2) == '>') {
			break
		}
		sb.WriteRune(c)
		l.advance()
	}
	return sb.String()
}

func (l *lexer) readQuoted() (string, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", glerrors.Parse(glerrors.Location{File: l.file, Line: startLine, Col: startCol}, "unterminated quoted string")
		}
		c := l.src[l.pos]
		if c == '\\' && l.peekAt(1) == '"' {
			l.advance()
			sb.WriteRune(l.advance())
			continue
		}
		if c == '"' {
			l.advance()
			return sb.String(), nil
		}
		sb.WriteRune(l.advance())
	}
}
