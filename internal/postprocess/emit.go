package postprocess

import "github.com/glaemscribe/glaemscribe-go/internal/token"

// Fallback PUA ranges used when a Character has no declared Unicode code
// point: font codes below bmpFallbackSize map into the BMP Private Use
// Area, and anything beyond that spills into the supplementary PUA plane
// reserved for extended font codes.
const (
	bmpFallbackBase = 0xE000
	bmpFallbackMax  = 0xF8FF
	bmpFallbackSize = bmpFallbackMax - bmpFallbackBase + 1

	suppFallbackBase = 0xE0000
)

// Emit maps every remaining Char token to its code point and every
// Boundary token to whitespace or nothing, per ctx.EmitBoundariesAsWhitespace.
// Literal tokens (punctuation, digits, and anything the processor and
// postprocessor left untouched) pass through unchanged. The result holds
// only Literal tokens.
func Emit(ctx *Context, in token.Sequence) token.Sequence {
	out := make(token.Sequence, 0, len(in))
	for i, tok := range in {
		switch tok.Kind {
		case token.Literal:
			out = append(out, tok)
		case token.Char:
			ch, ok := ctx.Charset.Character(tok.Name)
			if !ok {
				ctx.Warn(i, "character %q not found in charset %q at emit", tok.Name, ctx.Charset.Name)
				continue
			}
			out = append(out, token.Lit(codePointFor(ch.CodePoint, ch.HasCodePoint, ch.FontCode)))
		case token.Virtual:
			ctx.Warn(i, "virtual %q reached emit unresolved; dropped", tok.Name)
		case token.Boundary:
			if ctx.EmitBoundariesAsWhitespace {
				out = append(out, token.Lit(' '))
			}
		}
	}
	return out
}

func codePointFor(codePoint rune, hasCodePoint bool, fontCode int) rune {
	if hasCodePoint {
		return codePoint
	}
	if fontCode >= 0 && fontCode < bmpFallbackSize {
		return rune(bmpFallbackBase + fontCode)
	}
	return rune(suppFallbackBase + (fontCode - bmpFallbackSize))
}
