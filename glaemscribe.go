// Package glaemscribe is the public surface of the transliteration engine:
// Mode composes a preprocessor, one or more rule groups and their
// transcription trees, a postprocessor chain, and a charset into a single
// finalize/transcribe pipeline.
//
// This file holds only composition and lifecycle, delegating all of the
// actual algorithmic work — parsing, rule matching, finalize-time
// resolution — to the internal packages.
package glaemscribe

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
	"github.com/glaemscribe/glaemscribe-go/internal/modefile"
	"github.com/glaemscribe/glaemscribe-go/internal/postprocess"
	"github.com/glaemscribe/glaemscribe-go/internal/preprocess"
	"github.com/glaemscribe/glaemscribe-go/internal/processor"
	"github.com/glaemscribe/glaemscribe-go/internal/rules"
	"github.com/glaemscribe/glaemscribe-go/internal/token"
	"github.com/glaemscribe/glaemscribe-go/internal/trie"
)

// StageSnapshot is one named point in the pipeline captured into a
// DebugRecord: the preprocessed stream, the output of each rule group's
// trie walk in turn, and the final postprocessed stream.
type StageSnapshot struct {
	Name   string
	Tokens token.Sequence
}

// DebugRecord is returned from every Transcribe call, successful or not,
// correlating the request with the token sequence at each pipeline stage
// and any runtime warnings collected along the way.
type DebugRecord struct {
	RequestID uuid.UUID
	Input     string
	Stages    []StageSnapshot
	Warnings  []glerrors.Warning
}

func (d *DebugRecord) addStage(name string, tokens token.Sequence) {
	d.Stages = append(d.Stages, StageSnapshot{Name: name, Tokens: tokens})
}

// Mode is the top-level composed pipeline driving one writing system for
// one language: a preprocessor, one or more rule groups (each contributing
// its own TranscriptionTree, walked in authored order), a postprocessor
// chain, and the target charset.
type Mode struct {
	Name     string
	Language string
	Writing  string

	charset *charset.Charset

	optionDefaults map[string]string
	preprocessSubs []preprocess.Substitution
	// foldAccentsOption is the name of the declared option that, when
	// truthy, enables accent folding in the preprocessor (e.g. "ë" → "e").
	// There is no dedicated directive for this, so it is driven by an
	// ordinary \options entry instead; see DESIGN.md.
	foldAccentsOption   string
	resolvedFoldAccents bool

	groups []*rules.RuleGroup

	postChain      postprocess.Chain
	emitWhitespace bool

	trees      []*trie.Tree
	groupNames []string
	finalized  bool
}

// NewMode builds an unfinalized Mode from a parsed mode file and its
// resolved charset. Call Finalize before Transcribe.
func NewMode(name string, src *modefile.ModeSource, cs *charset.Charset) (*Mode, error) {
	m := &Mode{
		Name:     name,
		Language: src.Language,
		Writing:  src.Writing,
		charset:  cs,
	}

	m.optionDefaults = make(map[string]string, len(src.Options))
	for _, od := range src.Options {
		m.optionDefaults[od.Name] = od.Default
		if strings.EqualFold(od.Name, "fold_accents") {
			m.foldAccentsOption = od.Name
		}
	}

	for _, pp := range src.Preprocess {
		m.preprocessSubs = append(m.preprocessSubs, preprocess.Substitution{Pattern: pp.Pattern, Replacement: pp.Replacement})
	}

	for _, gs := range src.RuleGroups {
		g := rules.NewRuleGroup(gs.Name)
		for _, name := range gs.VarOrder {
			g.AddVar(name, gs.Vars[name])
		}
		for _, ms := range gs.Macros {
			g.AddMacro(rules.MacroSource{Name: ms.Name, Params: ms.Params, Body: ms.Body})
		}
		for _, ds := range gs.Deployments {
			g.AddDeploy(rules.DeploySource{Name: ds.Name, Args: ds.Args, IfOption: ds.IfOption, Negate: ds.Negate})
		}
		for _, rl := range gs.RawRules {
			g.AddRawRule(rl.Text)
		}
		m.groups = append(m.groups, g)
		m.groupNames = append(m.groupNames, gs.Name)
	}

	chain, emitWhitespace, err := parsePostprocessOps(src.Postprocess)
	if err != nil {
		return nil, err
	}
	m.postChain = chain
	m.emitWhitespace = emitWhitespace

	return m, nil
}

// parsePostprocessOps turns the mode file's \postprocessor operator lines
// into a Chain. Each line names one operator; "emit" optionally takes a
// trailing "whitespace" or "discard" argument controlling how surviving
// boundary tokens are handled (the directive syntax for this choice is
// resolved here).
func parsePostprocessOps(lines []string) (postprocess.Chain, bool, error) {
	var chain postprocess.Chain
	emitWhitespace := false

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "resolve_charsets":
			chain = append(chain, postprocess.ResolveCharsets)
		case "resolve_virtuals":
			chain = append(chain, postprocess.ResolveVirtuals)
		case "emit":
			if len(fields) > 1 && fields[1] == "whitespace" {
				emitWhitespace = true
			}
			chain = append(chain, postprocess.Emit)
		default:
			return nil, false, fmt.Errorf("unknown postprocessor operator %q", fields[0])
		}
	}

	if len(chain) == 0 {
		chain = postprocess.DefaultChain()
	}
	return chain, emitWhitespace, nil
}

// Finalize resolves variables and options, deploys macros, enumerates every
// rule group's SubRules and rebuilds their TranscriptionTrees. It is
// idempotent: calling it twice with the same options produces a Mode that
// transcribes identically, since every call rebuilds state from the
// authored sources rather than mutating in place.
func (m *Mode) Finalize(options map[string]string) error {
	resolved := make(rules.Options, len(m.optionDefaults)+len(options))
	for k, v := range m.optionDefaults {
		resolved[k] = v
	}
	for k, v := range options {
		resolved[k] = v
	}

	var errs glerrors.List
	trees := make([]*trie.Tree, len(m.groups))
	priority := 0
	for i, g := range m.groups {
		subs, next := g.Finalize(resolved, priority, &errs, m.charset)
		priority = next
		t := trie.New()
		for _, sub := range subs {
			t.Insert(sub)
		}
		trees[i] = t
	}

	if !errs.Empty() {
		return &errs
	}

	m.trees = trees
	m.resolvedFoldAccents = m.foldAccentsOption != "" && resolved.IsTruthy(m.foldAccentsOption)
	m.finalized = true
	return nil
}

// Transcribe runs the full pipeline against text and returns whether the
// Mode was ready to do so, the resulting Unicode string, and a DebugRecord
// holding the token sequence at every stage plus any runtime warnings.
// Transcribe itself never fails on malformed input — only an unfinalized
// Mode yields ok == false. Parse errors and finalization errors are
// surfaced at finalize time; transcribe itself never fails.
func (m *Mode) Transcribe(text string) (ok bool, output string, debug *DebugRecord) {
	dr := &DebugRecord{RequestID: uuid.New(), Input: text}

	if !m.finalized {
		dr.Warnings = append(dr.Warnings, glerrors.Warnf("mode %q transcribed before finalize", m.Name))
		return false, "", dr
	}

	cur := preprocess.Run(text, m.preprocessSubs, preprocess.Options{FoldAccents: m.resolvedFoldAccents})
	dr.addStage("preprocess", cur)

	for i, t := range m.trees {
		cur = processor.Run(t, cur)
		dr.addStage("processor:"+m.groupNames[i], cur)
	}

	ctx := &postprocess.Context{Charset: m.charset, EmitBoundariesAsWhitespace: m.emitWhitespace}
	final := m.postChain.Run(ctx, cur)
	dr.addStage("postprocess", final)
	dr.Warnings = append(dr.Warnings, ctx.Warnings...)

	var sb strings.Builder
	for _, tok := range final {
		sb.WriteRune(tok.Literal)
	}

	return true, sb.String(), dr
}
