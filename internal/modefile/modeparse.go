package modefile

import (
	"strings"

	"github.com/glaemscribe/glaemscribe-go/internal/glerrors"
)

// ModeSource is the raw, unfinalized content parsed out of a mode file.
// Variable/macro expansion, option resolution and rule enumeration all
// happen later, in rules.RuleGroup.Finalize — this package only turns the
// directive-block text into a structured, line-numbered form the rules
// package can consume.
type ModeSource struct {
	Language    string
	Writing     string
	CharsetName string
	Options     []OptionDecl
	Preprocess  []PreprocessPair
	RuleGroups  []RuleGroupSource
	Postprocess []string
}

// OptionDecl is one entry of a \options { name: default ... } block.
type OptionDecl struct {
	Name    string
	Default string
}

// PreprocessPair is one "pattern" --> "replacement" line of a \preprocessor
// block.
type PreprocessPair struct {
	Pattern     string
	Replacement string
}

// RuleGroupSource is the unfinalized content of one \rules <name> ... \end
// block.
type RuleGroupSource struct {
	Name        string
	VarOrder    []string
	Vars        map[string]string // name -> raw, not-yet-tokenized expr text
	Macros      []MacroSource
	Deployments []DeploySource
	RawRules    []RawRuleLine
}

// MacroSource is one \def name(args) ... \end block: a rule-text template
// re-parsed (with parameter substitution) each time it is deployed.
type MacroSource struct {
	Name   string
	Params []string
	Body   []string
}

// DeploySource is one \deploy name(args) [if opt] line.
type DeploySource struct {
	Name     string
	Args     []string
	IfOption string // empty if unconditional
	Negate   bool   // true for "if not opt"
	Line     int
}

// RawRuleLine is one un-expanded `<src> --> <dst>` or `<src> ==> <schema>`
// rule line, kept with its source line number for diagnostics.
type RawRuleLine struct {
	Text string
	Line int
}

type lineScanner struct {
	file  string
	lines []string
	i     int // next line to hand out, 0-indexed
}

func newLineScanner(file, src string) *lineScanner {
	return &lineScanner{file: file, lines: strings.Split(src, "\n")}
}

func (s *lineScanner) lineNo() int {
	return s.i
}

func (s *lineScanner) done() bool {
	return s.i >= len(s.lines)
}

// next returns the next non-blank, non-comment, trimmed line, or ("",
// false) at EOF. Comments start with "#" as the first non-space character.
func (s *lineScanner) next() (string, bool) {
	for !s.done() {
		raw := s.lines[s.i]
		s.i++
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed, true
	}
	return "", false
}

// ParseMode parses the contents of a mode file into a ModeSource.
func ParseMode(file, src string) (*ModeSource, error) {
	s := newLineScanner(file, src)
	ms := &ModeSource{}
	var errs glerrors.List

	for {
		line, ok := s.next()
		if !ok {
			break
		}
		word, rest, isDirective := splitDirective(line)
		if !isDirective {
			errs.Add(glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "expected a directive, found %q", line))
			continue
		}

		switch word {
		case "language":
			ms.Language = rest
		case "writing":
			ms.Writing = rest
		case "charset":
			ms.CharsetName = strings.TrimSpace(rest)
		case "options":
			opts, err := parseOptionsBlock(s, rest)
			if err != nil {
				errs.Add(err.(*glerrors.Error))
				continue
			}
			ms.Options = opts
		case "preprocessor":
			pp, err := parsePreprocessorBlock(s)
			if err != nil {
				errs.Add(err.(*glerrors.Error))
				continue
			}
			ms.Preprocess = pp
		case "processor":
			groups, err := parseProcessorBlock(file, s)
			if err != nil {
				errs.Add(err.(*glerrors.Error))
				continue
			}
			ms.RuleGroups = groups
		case "postprocessor":
			ops, err := parsePostprocessorBlock(s)
			if err != nil {
				errs.Add(err.(*glerrors.Error))
				continue
			}
			ms.Postprocess = ops
		default:
			errs.Add(glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "unknown top-level directive \\%s", word))
		}
	}

	if !errs.Empty() {
		return ms, &errs
	}
	return ms, nil
}

// splitDirective reports whether line begins with a "\word" directive and
// returns the word plus whatever text follows it on the same line.
func splitDirective(line string) (word, rest string, ok bool) {
	if !strings.HasPrefix(line, "\\") {
		return "", "", false
	}
	body := line[1:]
	i := 0
	for i < len(body) && !isSpaceByte(body[i]) {
		i++
	}
	word = body[:i]
	rest = strings.TrimSpace(body[i:])
	return word, rest, true
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

func isEnd(line string) bool {
	return line == "\\end"
}

func parseOptionsBlock(s *lineScanner, firstLineRest string) ([]OptionDecl, error) {
	body := firstLineRest
	for !strings.Contains(body, "}") {
		next, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "unterminated \\options block")
		}
		body += " " + next
	}
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")

	var opts []OptionDecl
	for _, entry := range splitTopLevel(body, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "malformed option entry %q", entry)
		}
		opts = append(opts, OptionDecl{Name: strings.TrimSpace(parts[0]), Default: strings.TrimSpace(parts[1])})
	}
	return opts, nil
}

func parsePreprocessorBlock(s *lineScanner) ([]PreprocessPair, error) {
	var pairs []PreprocessPair
	for {
		line, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "unterminated \\preprocessor block")
		}
		if isEnd(line) {
			return pairs, nil
		}
		pat, repl, err := splitArrowLine(s, line, "-->")
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, PreprocessPair{Pattern: unquote(pat), Replacement: unquote(repl)})
	}
}

func splitArrowLine(s *lineScanner, line, arrow string) (left, right string, err error) {
	idx := strings.Index(line, arrow)
	if idx < 0 {
		return "", "", glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "expected %q in line %q", arrow, line)
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(arrow):]), nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseProcessorBlock(file string, s *lineScanner) ([]RuleGroupSource, error) {
	var groups []RuleGroupSource
	for {
		line, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "unterminated \\processor block")
		}
		if isEnd(line) {
			return groups, nil
		}
		word, rest, isDirective := splitDirective(line)
		if !isDirective || word != "rules" {
			return nil, glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "expected \\rules block inside \\processor, found %q", line)
		}
		rg, err := parseRuleGroup(file, s, strings.TrimSpace(rest))
		if err != nil {
			return nil, err
		}
		groups = append(groups, *rg)
	}
}

func parseRuleGroup(file string, s *lineScanner, name string) (*RuleGroupSource, error) {
	rg := &RuleGroupSource{Name: name, Vars: make(map[string]string)}
	for {
		line, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "unterminated \\rules %q block", name)
		}
		if isEnd(line) {
			return rg, nil
		}
		if word, rest, isDirective := splitDirective(line); isDirective {
			switch word {
			case "vars":
				if err := parseVarsBlock(s, rg, rest); err != nil {
					return nil, err
				}
			case "def":
				m, err := parseDefBlock(file, s, rest)
				if err != nil {
					return nil, err
				}
				rg.Macros = append(rg.Macros, *m)
			case "deploy":
				d, err := parseDeployLine(file, s, rest)
				if err != nil {
					return nil, err
				}
				rg.Deployments = append(rg.Deployments, d)
			default:
				return nil, glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "unknown directive \\%s inside \\rules %q", word, name)
			}
			continue
		}

		rg.RawRules = append(rg.RawRules, RawRuleLine{Text: line, Line: s.lineNo()})
	}
}

func parseVarsBlock(s *lineScanner, rg *RuleGroupSource, firstLineRest string) error {
	body := firstLineRest
	for !strings.Contains(body, "}") {
		next, ok := s.next()
		if !ok {
			return glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "unterminated \\vars block")
		}
		body += " " + next
	}
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")

	for _, entry := range splitTopLevel(body, ';') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		eq := strings.Index(entry, "=")
		if eq < 0 {
			return glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "malformed var assignment %q", entry)
		}
		name := strings.TrimSpace(entry[:eq])
		expr := strings.TrimSpace(entry[eq+1:])
		if _, exists := rg.Vars[name]; !exists {
			rg.VarOrder = append(rg.VarOrder, name)
		}
		rg.Vars[name] = expr
	}
	return nil
}

func parseDefBlock(file string, s *lineScanner, header string) (*MacroSource, error) {
	name, params, err := parseNameAndArgs(s, header)
	if err != nil {
		return nil, err
	}
	m := &MacroSource{Name: name, Params: params}
	for {
		line, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: file, Line: s.lineNo()}, "unterminated \\def %q block", name)
		}
		if isEnd(line) {
			return m, nil
		}
		m.Body = append(m.Body, line)
	}
}

func parseDeployLine(file string, s *lineScanner, header string) (DeploySource, error) {
	d := DeploySource{Line: s.lineNo()}

	ifIdx := findWord(header, "if")
	call := header
	if ifIdx >= 0 {
		call = strings.TrimSpace(header[:ifIdx])
		cond := strings.TrimSpace(header[ifIdx+2:])
		if strings.HasPrefix(cond, "not ") {
			d.Negate = true
			cond = strings.TrimSpace(cond[4:])
		}
		d.IfOption = cond
	}

	name, args, err := parseNameAndArgs(s, call)
	if err != nil {
		return d, err
	}
	d.Name = name
	d.Args = args
	return d, nil
}

// findWord finds a standalone occurrence of word (surrounded by spaces or
// string boundaries) in s, returning its start index or -1.
func findWord(s, word string) int {
	idx := 0
	for {
		rel := strings.Index(s[idx:], word)
		if rel < 0 {
			return -1
		}
		pos := idx + rel
		beforeOK := pos == 0 || s[pos-1] == ' '
		afterPos := pos + len(word)
		afterOK := afterPos == len(s) || s[afterPos] == ' '
		if beforeOK && afterOK {
			return pos
		}
		idx = pos + len(word)
	}
}

// parseNameAndArgs parses "name(a, b, c)" into ("name", ["a","b","c"]).
func parseNameAndArgs(s *lineScanner, text string) (string, []string, error) {
	open := strings.Index(text, "(")
	closeIdx := strings.LastIndex(text, ")")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return "", nil, glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "expected name(args) form, found %q", text)
	}
	name := strings.TrimSpace(text[:open])
	argsText := text[open+1 : closeIdx]
	var args []string
	for _, a := range splitTopLevel(argsText, ',') {
		a = strings.TrimSpace(a)
		if a != "" {
			args = append(args, a)
		}
	}
	return name, args, nil
}

func parsePostprocessorBlock(s *lineScanner) ([]string, error) {
	var ops []string
	for {
		line, ok := s.next()
		if !ok {
			return nil, glerrors.Parse(glerrors.Location{File: s.file, Line: s.lineNo()}, "unterminated \\postprocessor block")
		}
		if isEnd(line) {
			return ops, nil
		}
		ops = append(ops, line)
	}
}

// splitTopLevel splits s on sep, ignoring occurrences of sep nested inside
// (), [] or "" groups.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inStr = !inStr
		case inStr:
			// skip
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
