package postprocess

import "github.com/glaemscribe/glaemscribe-go/internal/token"

// ResolveCharsets checks every Char/Virtual-kind token against the active
// charset. A name that resolves to neither a Character nor a VirtualChar is
// left in the stream unchanged (so later stages, and the debug record, can
// still see it) and reported as a warning rather than failing the whole
// transcription.
func ResolveCharsets(ctx *Context, in token.Sequence) token.Sequence {
	out := make(token.Sequence, len(in))
	for i, tok := range in {
		out[i] = tok
		if tok.Kind != token.Char && tok.Kind != token.Virtual {
			continue
		}
		if ctx.Charset.Has(tok.Name) {
			continue
		}
		ctx.Warn(i, "token %q not found in charset %q", tok.Name, ctx.Charset.Name)
	}
	return out
}
