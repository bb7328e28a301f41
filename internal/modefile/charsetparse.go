package modefile

import (
	"strconv"
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// ParseCharset parses the contents of a charset file — lines of
// `\char <hex> <NAME> [flags...]` and `\virtual <NAME> { ... }` blocks —
// into a charset.Charset named name.
func ParseCharset(file, name, src string) (*charset.Charset, error) {
	toks, err := newLexer(file, src).lexAll()
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, toks: toks}
	cs := charset.New(name)

	var errs glerrors.List
	for !p.atEOF() {
		d, ok := p.acceptDirective()
		if !ok {
			errs.Add(glerrors.Parse(p.loc(), "expected \\char or \\virtual directive, found %q", p.cur().text))
			p.advance()
			continue
		}
		switch d {
		case "char":
			if err := parseCharLine(p, cs); err != nil {
				errs.Add(err.(*glerrors.Error))
			}
		case "virtual":
			if err := parseVirtualBlock(p, cs); err != nil {
				errs.Add(err.(*glerrors.Error))
			}
		default:
			errs.Add(glerrors.Parse(p.loc(), "unknown charset directive \\%s", d))
		}
	}

	if !errs.Empty() {
		return cs, &errs
	}
	return cs, nil
}

func parseCharLine(p *parser, cs *charset.Charset) error {
	hexTok, ok := p.acceptWord()
	if !ok {
		return glerrors.Parse(p.loc(), "expected hex font code after \\char")
	}
	code, err := strconv.ParseInt(hexTok, 16, 64)
	if err != nil {
		return glerrors.Parse(p.loc(), "invalid hex font code %q: %s", hexTok, err)
	}
	name, ok := p.acceptWord()
	if !ok {
		return glerrors.Parse(p.loc(), "expected character name after font code")
	}

	ch := charset.Character{Name: name, FontCode: int(code)}

	// optional flags and an optional unicode code point, given as bare
	// words until the next directive/EOF. A word of the form "U+XXXX" sets
	// the code point; anything else is a classification flag keyword.
	for {
		w, ok := p.peekWordIfNotDirective()
		if !ok {
			break
		}
		p.advance()
		if strings.HasPrefix(strings.ToUpper(w), "U+") {
			cp, err := strconv.ParseInt(w[2:], 16, 64)
			if err != nil {
				return glerrors.Parse(p.loc(), "invalid code point %q: %s", w, err)
			}
			ch.CodePoint = rune(cp)
			ch.HasCodePoint = true
			continue
		}
		switch strings.ToLower(w) {
		case "punctuation":
			ch.Flags |= charset.FlagPunctuation
		case "space":
			ch.Flags |= charset.FlagSpace
		case "digit":
			ch.Flags |= charset.FlagDigit
		case "vowel":
			ch.Flags |= charset.FlagVowel
		case "consonant":
			ch.Flags |= charset.FlagConsonant
		default:
			return glerrors.Parse(p.loc(), "unknown character flag %q", w)
		}
	}

	if err := cs.AddCharacter(ch); err != nil {
		return glerrors.Parse(p.loc(), "%s", err)
	}
	return nil
}

func parseVirtualBlock(p *parser, cs *charset.Charset) error {
	name, ok := p.acceptWord()
	if !ok {
		return glerrors.Parse(p.loc(), "expected virtual name after \\virtual")
	}
	if !p.acceptKind(tokLBrace) {
		return glerrors.Parse(p.loc(), "expected '{' to open virtual %q body", name)
	}

	vc := charset.VirtualChar{Name: name}

	for !p.acceptKind(tokRBrace) {
		if p.atEOF() {
			return glerrors.Parse(p.loc(), "unterminated virtual %q body", name)
		}

		if w, ok := p.peekWordEquals("sequence"); ok {
			_ = w
			p.advance()
			if !p.acceptKind(tokColon) {
				return glerrors.Parse(p.loc(), "expected ':' after 'sequence'")
			}
			seq, err := parseTokenSequenceUntilSemi(p, cs, name)
			if err != nil {
				return err
			}
			vc.Sequence = seq
			continue
		}

		if _, ok := p.peekWordEquals("swap"); ok {
			p.advance()
			if !p.acceptKind(tokColon) {
				return glerrors.Parse(p.loc(), "expected ':' after 'swap'")
			}
			side, ok := p.acceptWord()
			if !ok {
				return glerrors.Parse(p.loc(), "expected 'prev' or 'next' after 'swap:'")
			}
			if !p.acceptKind(tokSemi) {
				return glerrors.Parse(p.loc(), "expected ';' after swap declaration")
			}
			switch strings.ToLower(side) {
			case "prev":
				vc.Swaps = append(vc.Swaps, charset.Swap{Side: -1})
			case "next":
				vc.Swaps = append(vc.Swaps, charset.Swap{Side: 1})
			default:
				return glerrors.Parse(p.loc(), "invalid swap side %q, want 'prev' or 'next'", side)
			}
			continue
		}

		trigger, err := parseTokenSequenceUntil(p, tokArrow, cs, name)
		if err != nil {
			return err
		}
		if !p.acceptKind(tokArrow) {
			return glerrors.Parse(p.loc(), "expected '-->' in virtual rewrite")
		}
		replacement, err := parseTokenSequenceUntilSemi(p, cs, name)
		if err != nil {
			return err
		}
		vc.Rewrites = append(vc.Rewrites, charset.Rewrite{Trigger: trigger, Replacement: replacement})
	}

	if err := cs.AddVirtual(vc); err != nil {
		return glerrors.Parse(p.loc(), "%s", err)
	}
	return nil
}

// parseTokenSequenceUntilSemi reads bare-word/quoted-string atoms up to and
// consuming a terminating ';'. cs and selfName are threaded through to
// parseTokenSequenceUntil; see its doc comment.
func parseTokenSequenceUntilSemi(p *parser, cs *charset.Charset, selfName string) (token.Sequence, error) {
	seq, err := parseTokenSequenceUntil(p, tokSemi, cs, selfName)
	if err != nil {
		return nil, err
	}
	if !p.acceptKind(tokSemi) {
		return nil, glerrors.Parse(p.loc(), "expected ';' to end declaration")
	}
	return seq, nil
}

// parseTokenSequenceUntil reads a sequence of atoms (quoted strings exploded
// into one Literal token per rune) until (not including) a token of kind
// stop. A bare word is a charset-entry-name reference: it resolves to a
// Virtual token if it names a VirtualChar already registered in cs or
// matches selfName (a virtual's own trigger/replacement/sequence may name
// itself), and to a Char token otherwise — cs may be nil (e.g. in isolated
// tests), in which case every bare word is tagged Char, left for
// ResolveCharsets to flag as unresolved if wrong.
func parseTokenSequenceUntil(p *parser, stop tokKind, cs *charset.Charset, selfName string) (token.Sequence, error) {
	var seq token.Sequence
	for {
		if p.atEOF() {
			return nil, glerrors.Parse(p.loc(), "unexpected end of file in token sequence")
		}
		if p.cur().kind == stop {
			return seq, nil
		}
		switch p.cur().kind {
		case tokWord:
			name := p.cur().text
			kind := token.Char
			if name == selfName {
				kind = token.Virtual
			} else if cs != nil {
				if _, ok := cs.Virtual(name); ok {
					kind = token.Virtual
				}
			}
			seq = append(seq, token.Named(kind, name))
			p.advance()
		case tokString:
			for _, r := range p.cur().text {
				seq = append(seq, token.Lit(r))
			}
			p.advance()
		default:
			return nil, glerrors.Parse(p.loc(), "unexpected token %q in token sequence", p.cur().text)
		}
	}
}
