package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
)

func Test_Options_IsTruthy(t *testing.T) {
	testCases := []struct {
		name   string
		opts   Options
		key    string
		expect bool
	}{
		{name: "unset", opts: Options{}, key: "fold_accents", expect: false},
		{name: "empty string", opts: Options{"fold_accents": ""}, key: "fold_accents", expect: false},
		{name: "false", opts: Options{"fold_accents": "false"}, key: "fold_accents", expect: false},
		{name: "off mixed case", opts: Options{"fold_accents": "OFF"}, key: "fold_accents", expect: false},
		{name: "zero", opts: Options{"fold_accents": "0"}, key: "fold_accents", expect: false},
		{name: "no", opts: Options{"fold_accents": "no"}, key: "fold_accents", expect: false},
		{name: "true", opts: Options{"fold_accents": "true"}, key: "fold_accents", expect: true},
		{name: "on", opts: Options{"fold_accents": "on"}, key: "fold_accents", expect: true},
		{name: "arbitrary string", opts: Options{"variant": "classical"}, key: "variant", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.opts.IsTruthy(tc.key))
		})
	}
}

func Test_RuleGroup_Finalize_resolvesVariablesInDeclarationOrder(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddVar("vowels", "a,e,i,o,u")
	g.AddVar("long_vowels", "{vowels}_long")
	g.AddRawRule("(a,e,i,o,u) --> x")

	var errs glerrors.List
	subs, next := g.Finalize(Options{}, 0, &errs, nil)

	require.True(t, errs.Empty())
	assert.Len(t, subs, 5)
	assert.Equal(t, 1, next)
}

func Test_RuleGroup_Finalize_undefinedVariableErrors(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddRawRule("{nope} --> x")

	var errs glerrors.List
	subs, _ := g.Finalize(Options{}, 0, &errs, nil)

	assert.False(t, errs.Empty())
	assert.Empty(t, subs)
}

func Test_RuleGroup_Finalize_priorityThreadsAcrossRules(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddRawRule("a --> 1")
	g.AddRawRule("b --> 2")
	g.AddRawRule("c --> 3")

	var errs glerrors.List
	subs, next := g.Finalize(Options{}, 5, &errs, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 3)
	assert.Equal(t, 5, subs[0].Priority)
	assert.Equal(t, 6, subs[1].Priority)
	assert.Equal(t, 7, subs[2].Priority)
	assert.Equal(t, 8, next)
}

func Test_RuleGroup_Finalize_deploysGuardedMacroWhenOptionTruthy(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddMacro(MacroSource{Name: "pair", Params: []string{"s", "d"}, Body: []string{"$s --> $d"}})
	g.AddDeploy(DeploySource{Name: "pair", Args: []string{"t", "tinco"}, IfOption: "use_pair"})

	var errs glerrors.List
	subs, _ := g.Finalize(Options{"use_pair": "true"}, 0, &errs, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 1)
}

func Test_RuleGroup_Finalize_skipsGuardedMacroWhenOptionFalsy(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddMacro(MacroSource{Name: "pair", Params: []string{"s", "d"}, Body: []string{"$s --> $d"}})
	g.AddDeploy(DeploySource{Name: "pair", Args: []string{"t", "tinco"}, IfOption: "use_pair"})

	var errs glerrors.List
	subs, _ := g.Finalize(Options{"use_pair": "false"}, 0, &errs, nil)

	require.True(t, errs.Empty())
	assert.Empty(t, subs)
}

func Test_RuleGroup_Finalize_negatedGuardInvertsSense(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddMacro(MacroSource{Name: "pair", Params: []string{"s", "d"}, Body: []string{"$s --> $d"}})
	g.AddDeploy(DeploySource{Name: "pair", Args: []string{"t", "tinco"}, IfOption: "use_pair", Negate: true})

	var errs glerrors.List
	subs, _ := g.Finalize(Options{"use_pair": "false"}, 0, &errs, nil)

	require.True(t, errs.Empty())
	require.Len(t, subs, 1)
}

func Test_RuleGroup_Finalize_guardOnUndefinedOptionErrors(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddMacro(MacroSource{Name: "pair", Params: []string{"s", "d"}, Body: []string{"$s --> $d"}})
	g.AddDeploy(DeploySource{Name: "pair", Args: []string{"t", "tinco"}, IfOption: "nonexistent_option"})

	var errs glerrors.List
	subs, _ := g.Finalize(Options{}, 0, &errs, nil)

	assert.False(t, errs.Empty())
	assert.Empty(t, subs)
}

func Test_RuleGroup_Finalize_deployReferencingUndefinedMacroErrors(t *testing.T) {
	g := NewRuleGroup("main")
	g.AddDeploy(DeploySource{Name: "ghost"})

	var errs glerrors.List
	subs, _ := g.Finalize(Options{}, 0, &errs, nil)

	assert.False(t, errs.Empty())
	assert.Empty(t, subs)
}
