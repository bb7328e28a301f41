package modefile

import "github.com/glaemscribe/glaemscribe-go/internal/glerrors"

// parser is a minimal cursor over a lexed token stream, shared by the
// charset-file and mode-file parsers.
type parser struct {
	file string
	toks []lexTok
	i    int
}

func (p *parser) cur() lexTok {
	if p.i >= len(p.toks) {
		return lexTok{kind: tokEOF}
	}
	return p.toks[p.i]
}

func (p *parser) atEOF() bool {
	return p.cur().kind == tokEOF
}

func (p *parser) advance() {
	if p.i < len(p.toks) {
		p.i++
	}
}

func (p *parser) loc() glerrors.Location {
	t := p.cur()
	return glerrors.Location{File: p.file, Line: t.line, Col: t.col}
}

// acceptDirective consumes a tokDirective and returns its word, or returns
// ("", false) leaving the cursor unmoved.
func (p *parser) acceptDirective() (string, bool) {
	if p.cur().kind != tokDirective {
		return "", false
	}
	w := p.cur().text
	p.advance()
	return w, true
}

// peekDirective reports the pending directive word without consuming it.
func (p *parser) peekDirective() (string, bool) {
	if p.cur().kind != tokDirective {
		return "", false
	}
	return p.cur().text, true
}

func (p *parser) acceptWord() (string, bool) {
	if p.cur().kind != tokWord {
		return "", false
	}
	w := p.cur().text
	p.advance()
	return w, true
}

// peekWordIfNotDirective returns the current word token's text without
// consuming it, but only if it is not a directive (used to scan an optional
// trailing list of flag words up to the next directive).
func (p *parser) peekWordIfNotDirective() (string, bool) {
	if p.cur().kind == tokWord {
		return p.cur().text, true
	}
	return "", false
}

// peekWordEquals reports whether the current token is the bare word w,
// without consuming it.
func (p *parser) peekWordEquals(w string) (string, bool) {
	if p.cur().kind == tokWord && p.cur().text == w {
		return w, true
	}
	return "", false
}

func (p *parser) acceptKind(k tokKind) bool {
	if p.cur().kind != k {
		return false
	}
	p.advance()
	return true
}

func (p *parser) acceptString() (string, bool) {
	if p.cur().kind != tokString {
		return "", false
	}
	s := p.cur().text
	p.advance()
	return s, true
}
