// Package postprocess implements the ordered postprocessor chain that runs
// after rule matching: charset resolution, two-pass virtual resolution, and
// code-point emission. Each stage is finalized once against the active
// charset and then applied to the token stream produced by the processor.
//
// Each Stage wraps a token-stream transform and the chain runs straight
// through in order, since there is no "next" to call early or skip.
package postprocess

import (
	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
)

// Context is the shared state every Stage in a Chain reads from: the active
// charset and a place to record runtime diagnostics. Warnings accumulates
// across every stage run in a single Chain.Run call.
type Context struct {
	Charset *charset.Charset

	// EmitBoundariesAsWhitespace controls how Emit handles surviving
	// Boundary tokens: true turns WORD_START/WORD_END/LINE_START/LINE_END
	// into a single space, false discards them. Set per mode declaration.
	EmitBoundariesAsWhitespace bool

	Warnings []glerrors.Warning
}

// Warn records a runtime diagnostic against the given stream position (-1
// if none).
func (c *Context) Warn(pos int, format string, a ...interface{}) {
	c.Warnings = append(c.Warnings, glerrors.WarnfAt(pos, format, a...))
}

// Stage transforms a token stream once, given the shared Context.
type Stage func(ctx *Context, in token.Sequence) token.Sequence

// Chain is an ordered list of Stages applied in sequence.
type Chain []Stage

// Run applies every Stage in order, threading the output of one into the
// input of the next.
func (c Chain) Run(ctx *Context, in token.Sequence) token.Sequence {
	out := in
	for _, stage := range c {
		out = stage(ctx, out)
	}
	return out
}

// DefaultChain is the standard postprocessor chain: resolve named symbols,
// resolve virtuals, then emit code points.
func DefaultChain() Chain {
	return Chain{ResolveCharsets, ResolveVirtuals, Emit}
}
