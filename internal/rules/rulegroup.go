package rules

import (
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/charset"
	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
)

// VarSource is one not-yet-resolved variable assignment as authored
// ("name = expr"), in declaration order.
type VarSource struct {
	Name string
	Expr string
}

// MacroSource is one \def name(params) ... \end block, as authored.
type MacroSource struct {
	Name   string
	Params []string
	Body   []string
}

// DeploySource is one \deploy name(args) [if [not] opt] line.
type DeploySource struct {
	Name     string
	Args     []string
	IfOption string
	Negate   bool
}

// Options is the resolved option map passed to Finalize: option name to its
// string value ("" for unset, a boolean spelled "true"/"false"/"on"/"off",
// or an arbitrary string for string-typed options).
type Options map[string]string

// IsTruthy reports whether the named option is present and holds a
// non-empty, non-"false"-like value. Used to evaluate \deploy ... if
// guards.
func (o Options) IsTruthy(name string) bool {
	v, ok := o[name]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "off", "0", "no":
		return false
	default:
		return true
	}
}

// RuleGroup is a finalization scope owning variable bindings, macros, and
// authored rules. One Mode may have several RuleGroups, each corresponding
// to one \rules <name> ... \end block.
type RuleGroup struct {
	Name string

	varSources   []VarSource
	macroSources []MacroSource
	deploys      []DeploySource
	rawRules     []string

	vars   map[string]*Variable
	macros map[string]*Macro
}

// NewRuleGroup creates an empty RuleGroup ready to accept sources via
// AddVar/AddMacro/AddDeploy/AddRawRule, typically populated from a parsed
// modefile.RuleGroupSource.
func NewRuleGroup(name string) *RuleGroup {
	return &RuleGroup{Name: name}
}

func (g *RuleGroup) AddVar(name, expr string) {
	g.varSources = append(g.varSources, VarSource{Name: name, Expr: expr})
}

func (g *RuleGroup) AddMacro(m MacroSource) {
	g.macroSources = append(g.macroSources, m)
}

func (g *RuleGroup) AddDeploy(d DeploySource) {
	g.deploys = append(g.deploys, d)
}

func (g *RuleGroup) AddRawRule(line string) {
	g.rawRules = append(g.rawRules, line)
}

// Finalize runs the three finalization phases — code block execution, rule
// expansion, and SubRule enumeration — and returns every SubRule this
// group contributes. startPriority is the authoring-order counter to
// assign to this group's first rule (rules across a mode's several
// RuleGroups share one global priority space, since authoring order wins
// file-wide); it returns the next free priority value for the caller's
// following group.
func (g *RuleGroup) Finalize(opts Options, startPriority int, errs *glerrors.List, cs *charset.Charset) (subs []SubRule, nextPriority int) {
	g.vars = make(map[string]*Variable)
	g.macros = make(map[string]*Macro)

	// Phase 1: code block execution (vars, macros, conditional deploys).
	for _, vs := range g.varSources {
		resolved, err := SubstituteVariables(vs.Expr, g.vars)
		if err != nil {
			errs.Add(err.(*glerrors.Error))
			continue
		}
		g.vars[vs.Name] = &Variable{Name: vs.Name, Text: resolved}
	}

	for _, ms := range g.macroSources {
		g.macros[ms.Name] = &Macro{Name: ms.Name, Params: ms.Params, Body: ms.Body}
	}

	deployedRules := g.runDeployments(opts, errs, 0)

	allRawRules := make([]string, 0, len(g.rawRules)+len(deployedRules))
	allRawRules = append(allRawRules, g.rawRules...)
	allRawRules = append(allRawRules, deployedRules...)

	// Phase 2 + 3: rule expansion and SubRule enumeration.
	priority := startPriority
	for _, raw := range allRawRules {
		expanded, err := SubstituteVariables(raw, g.vars)
		if err != nil {
			errs.Add(err.(*glerrors.Error))
			continue
		}
		rule, err := ParseRuleLine(expanded)
		if err != nil {
			errs.Add(err.(*glerrors.Error))
			continue
		}
		ruleSubs := rule.Finalize(errs, priority, cs)
		subs = append(subs, ruleSubs...)
		priority++
	}

	return subs, priority
}

// runDeployments evaluates this group's \deploy statements against opts,
// expanding each deployed macro's body into raw rule-text lines. The
// expanded lines are not scanned for further deployments, so one macro
// cannot deploy another. Finalize calls this once with depth 0, and it
// does not call itself, so the MaxMacroDeploymentDepth check never fails.
func (g *RuleGroup) runDeployments(opts Options, errs *glerrors.List, depth int) []string {
	if depth > MaxMacroDeploymentDepth {
		errs.Add(glerrors.Finalize("macro deployment recursion exceeded max depth %d in rule group %q", MaxMacroDeploymentDepth, g.Name))
		return nil
	}

	var lines []string
	for _, d := range g.deploys {
		if d.IfOption != "" {
			truthy := opts.IsTruthy(d.IfOption)
			if _, known := opts[d.IfOption]; !known {
				errs.Add(glerrors.Finalize("deploy %q in rule group %q guards on undefined option %q", d.Name, g.Name, d.IfOption))
				continue
			}
			want := !d.Negate
			if truthy != want {
				continue
			}
		}

		macro, ok := g.macros[d.Name]
		if !ok {
			errs.Add(glerrors.Finalize("deploy references undefined macro %q in rule group %q", d.Name, g.Name))
			continue
		}
		body, err := macro.Deploy(d.Args)
		if err != nil {
			errs.Add(err.(*glerrors.Error))
			continue
		}
		lines = append(lines, body...)
	}
	return lines
}
