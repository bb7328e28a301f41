package rules

import (
	"strconv"
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
)

// MaxMacroDeploymentDepth is the depth limit checked by
// RuleGroup.runDeployments. Deployment does not nest: a deployed macro's
// body is added as plain rule lines, a \deploy inside a body is not
// executed, and runDeployments runs once at depth 0, so this limit is
// never reached.
const MaxMacroDeploymentDepth = 16

// Macro is a parameterized rule-text template. Deploying it substitutes
// $1, $2, ... (or named parameters) in its body and appends the result to
// the owning RuleGroup's raw rule text, to be re-parsed in that scope —
// deployment is a re-parse, not a textual inline.
type Macro struct {
	Name   string
	Params []string
	Body   []string
}

// Deploy substitutes args for m's parameters in its body and returns the
// resulting rule-text lines, ready to be appended to a RuleGroup's raw
// rules and re-parsed.
func (m *Macro) Deploy(args []string) ([]string, error) {
	if len(args) != len(m.Params) {
		return nil, glerrors.Finalize("macro %q expects %d argument(s), got %d", m.Name, len(m.Params), len(args))
	}

	subst := make(map[string]string, len(args))
	for i, p := range m.Params {
		subst[p] = args[i]
		subst[strconv.Itoa(i+1)] = args[i]
	}

	out := make([]string, len(m.Body))
	for i, line := range m.Body {
		out[i] = substituteMacroParams(line, subst)
	}
	return out, nil
}

// substituteMacroParams replaces every "$name" (named or positional)
// occurrence in line with its bound argument text.
func substituteMacroParams(line string, subst map[string]string) string {
	var sb strings.Builder
	i := 0
	for i < len(line) {
		if line[i] != '$' {
			sb.WriteByte(line[i])
			i++
			continue
		}
		j := i + 1
		for j < len(line) && isIdentByte(line[j]) {
			j++
		}
		if j == i+1 {
			sb.WriteByte(line[i])
			i++
			continue
		}
		name := line[i+1 : j]
		if val, ok := subst[name]; ok {
			sb.WriteString(val)
		} else {
			sb.WriteString(line[i:j])
		}
		i = j
	}
	return sb.String()
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
