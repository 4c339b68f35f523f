// Package verify checks generated strings against an independent regular
// expression engine. Patterns are rendered into .NET syntax and compiled with
// regexp2, which supports the back references, conditionals and lookarounds
// the parser accepts.
package verify

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

// DefaultTimeout bounds a single match attempt.
const DefaultTimeout = 5 * time.Second

// Matcher reports whether strings fully match a parsed pattern.
type Matcher struct {
	expr   string
	re     *regexp2.Regexp
	groups int
}

// New compiles p for full-string matching.
func New(p *ast.Pattern) (*Matcher, error) {
	body, err := Render(p.Root)
	if err != nil {
		return nil, err
	}
	expr := `\A(?:` + body + `)\z`
	re, err := regexp2.Compile(expr, Options(p.Flags))
	if err != nil {
		return nil, fmt.Errorf("verify: compile %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultTimeout
	return &Matcher{expr: expr, re: re, groups: p.GroupCount}, nil
}

// Options maps pattern flags onto regexp2 options. Case folding is not
// mapped: Render scopes it on every case-insensitive node, and a global
// option would override (?-i:...) groups.
func Options(flags ast.Flags) regexp2.RegexOptions {
	var opts regexp2.RegexOptions
	if flags.Has(ast.DotAll) {
		opts |= regexp2.Singleline
	}
	if flags.Has(ast.Multiline) {
		opts |= regexp2.Multiline
	}
	return opts
}

// Expr returns the compiled .NET expression.
func (m *Matcher) Expr() string { return m.expr }

// Match reports whether s matches the whole pattern.
func (m *Matcher) Match(s string) (bool, error) {
	return m.re.MatchString(s)
}

// Groups matches s and returns the text of every capture group, indexed from
// 1, along with whether each group took part in the match. ok is false when s
// does not match.
func (m *Matcher) Groups(s string) (values []string, set []bool, ok bool, err error) {
	match, err := m.re.FindStringMatch(s)
	if err != nil || match == nil {
		return nil, nil, false, err
	}
	values = make([]string, m.groups+1)
	set = make([]bool, m.groups+1)
	for i := 1; i <= m.groups; i++ {
		g := match.GroupByNumber(i)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		values[i] = g.String()
		set[i] = true
	}
	return values, set, true, nil
}

// Submatches matches text against the body of the capture group n and
// returns the values of the groups nested in it, keyed by group number.
// outside supplies the values of groups the body refers to but does not
// contain. ok is false when text does not match the body.
func Submatches(n *ast.Group, flags ast.Flags, text string, outside func(int) (string, bool)) (values map[int]string, ok bool, err error) {
	body, err := RenderBody(n, outside)
	if err != nil {
		return nil, false, err
	}
	expr := `\A(?:` + body + `)\z`
	re, err := regexp2.Compile(expr, Options(flags))
	if err != nil {
		return nil, false, fmt.Errorf("verify: compile %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultTimeout

	match, err := re.FindStringMatch(text)
	if err != nil || match == nil {
		return nil, false, err
	}
	values = make(map[int]string)
	for i := 1; i <= ast.CaptureCount(n.Body); i++ {
		g := match.GroupByNumber(i)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		values[n.Index+i] = g.String()
	}
	return values, true, nil
}
