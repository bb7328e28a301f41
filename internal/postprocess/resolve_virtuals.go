package postprocess

import (
	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// ResolveVirtuals runs two passes of virtual resolution and then sweeps for
// anything left over, since a virtual's own declared sequence could itself
// (by authoring mistake) reference another virtual by name — the invariant
// that no virtual remains after the second pass is enforced here rather
// than assumed.
func ResolveVirtuals(ctx *Context, in token.Sequence) token.Sequence {
	out := resolveTriggeredRewrites(ctx, in)
	out = resolveSequencesAndSwaps(ctx, out)

	for i, tok := range out {
		if tok.Kind == token.Virtual {
			ctx.Warn(i, "virtual %q still unresolved after postprocessing; dropped", tok.Name)
		}
	}
	filtered := out[:0:0]
	for _, tok := range out {
		if tok.Kind == token.Virtual {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// resolveTriggeredRewrites is pass 1: scan left to right, and at each
// Virtual token try every declared Rewrite in order. A Rewrite's Trigger is
// matched as a literal window starting at the virtual's own position (the
// virtual itself is always trigger[0]); the first Rewrite whose Trigger
// matches wins, its Replacement is spliced in, and the scan resumes just
// past the replaced window.
func resolveTriggeredRewrites(ctx *Context, in token.Sequence) token.Sequence {
	var out token.Sequence
	i := 0
	for i < len(in) {
		tok := in[i]
		if tok.Kind == token.Virtual {
			if vc, ok := ctx.Charset.Virtual(tok.Name); ok {
				if rw, n, matched := matchRewrite(in, i, vc.Rewrites); matched {
					out = append(out, rw...)
					i += n
					continue
				}
			}
		}
		out = append(out, tok)
		i++
	}
	return out
}

// matchRewrite returns the first Rewrite in rewrites whose Trigger matches
// in starting at pos, the length of that Trigger, and true; or (nil, 0,
// false) if none match.
func matchRewrite(in token.Sequence, pos int, rewrites []charset.Rewrite) (token.Sequence, int, bool) {
	for _, rw := range rewrites {
		n := len(rw.Trigger)
		if n == 0 || pos+n > len(in) {
			continue
		}
		ok := true
		for k := 0; k < n; k++ {
			if in[pos+k].Key() != rw.Trigger[k].Key() {
				ok = false
				break
			}
		}
		if ok {
			return rw.Replacement, n, true
		}
	}
	return nil, 0, false
}

// resolveSequencesAndSwaps is pass 2: every Virtual token still present
// expands to its declared Sequence, then applies its declared Swaps against
// the token immediately before (Side < 0) or after (Side > 0) the expanded
// run. A virtual with no matching charset entry, or with no declared
// Sequence, is dropped with a warning rather than expanded, since there is
// nothing to expand it to.
func resolveSequencesAndSwaps(ctx *Context, in token.Sequence) token.Sequence {
	buf := append(token.Sequence(nil), in...)
	var out token.Sequence

	for i := 0; i < len(buf); i++ {
		tok := buf[i]
		if tok.Kind != token.Virtual {
			out = append(out, tok)
			continue
		}

		vc, ok := ctx.Charset.Virtual(tok.Name)
		if !ok {
			ctx.Warn(i, "virtual %q has no charset definition; dropped", tok.Name)
			continue
		}
		if vc.Sequence == nil {
			ctx.Warn(i, "virtual %q was not resolved by any rewrite and has no sequence; dropped", tok.Name)
			continue
		}

		seq :=append(token.Sequence(nil), vc.Sequence...)
		for _, sw := range vc.Swaps {
			switch {
			case sw.Side < 0 && len(out) > 0 && len(seq) > 0:
				out[len(out)-1], seq[0] = seq[0], out[len(out)-1]
			case sw.Side > 0 && len(seq) > 0 && i+1 < len(buf):
				seq[len(seq)-1], buf[i+1] = buf[i+1], seq[len(seq)-1]
			}
		}
		out = append(out, seq...)
	}

	return out
}
