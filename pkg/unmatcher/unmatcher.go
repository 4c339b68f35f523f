// Package unmatcher generates strings that match a regular expression.
//
// Patterns use Python re syntax, including back references, named groups and
// existence conditionals. Values for capture groups can be supplied up front
// and the generated string reproduces them exactly:
//
//	s, err := unmatcher.Reverse(`(\w+)@(\w+)\.com`, "alice")
//	// s is something like "alice@Xq3.com"
package unmatcher

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"sync"

	"github.com/KromDaniel/unmatcher/internal/ast"
	"github.com/KromDaniel/unmatcher/internal/generator"
	"github.com/KromDaniel/unmatcher/internal/parser"
	"github.com/KromDaniel/unmatcher/internal/verify"
)

// Flags modify how a pattern is parsed and what it matches.
type Flags = ast.Flags

// Pattern flags. Only IgnoreCase and DotAll change what is generated;
// Multiline affects anchors only and Verbose affects parsing only.
const (
	IgnoreCase = ast.IgnoreCase
	DotAll     = ast.DotAll
	Multiline  = ast.Multiline
	Verbose    = ast.Verbose
	ASCII      = ast.ASCII
	Unicode    = ast.Unicode
	Locale     = ast.Locale
)

// Pattern is a compiled pattern. It is safe for concurrent use.
type Pattern struct {
	ast *ast.Pattern

	once       sync.Once
	matcher    *verify.Matcher
	matcherErr error
}

// Compile parses pattern.
func Compile(pattern string) (*Pattern, error) {
	return CompileFlags(pattern, 0)
}

// CompileFlags parses pattern with the given flags in effect.
func CompileFlags(pattern string, flags Flags) (*Pattern, error) {
	p, err := parser.Parse(pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}
	return &Pattern{ast: p}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(`unmatcher: Compile(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	return p
}

// Reverse compiles pattern and generates one matching string, with groups
// supplying the values of capture groups 1, 2, ... in order.
func Reverse(pattern string, groups ...string) (string, error) {
	p, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return p.Reverse(groups...)
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.ast.Source }

// Flags returns the flags in effect, including inline global flags.
func (p *Pattern) Flags() Flags { return p.ast.Flags }

// NumGroups returns the number of capture groups.
func (p *Pattern) NumGroups() int { return p.ast.GroupCount }

// SubexpNames returns the names of the capture groups. Index 0 and unnamed
// groups hold the empty string.
func (p *Pattern) SubexpNames() []string {
	return append([]string(nil), p.ast.GroupNames...)
}

// SubexpIndex returns the index of the group with the given name, or -1.
func (p *Pattern) SubexpIndex(name string) int {
	if i, ok := p.ast.GroupIndex[name]; ok {
		return i
	}
	return -1
}

// Options controls a single generation.
type Options struct {
	// Groups are values for capture groups 1, 2, ... in order.
	Groups []string

	// NamedGroups are values keyed by group name or decimal group index.
	NamedGroups map[string]string

	// Rand drives every random choice. When nil a private source seeded
	// from the clock is used.
	Rand *rand.Rand

	// Verbose logs each random decision to Logger, or to stderr when
	// Logger is nil.
	Verbose bool
	Logger  io.Writer
}

// Reverse generates one string matching p.
func (p *Pattern) Reverse(groups ...string) (string, error) {
	m, err := p.ReverseWith(Options{Groups: groups})
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// ReverseWith generates one string matching p and reports what every
// capture group held.
func (p *Pattern) ReverseWith(opts Options) (*Match, error) {
	store, err := p.seed(opts)
	if err != nil {
		return nil, err
	}

	logger := generator.NewLogger(opts.Verbose)
	if opts.Logger != nil {
		logger.SetOutput(opts.Logger)
	}
	logger.Section("Generate")
	logger.Log("Pattern: %s", p.ast.Source)
	logger.Log("Flags: %q", p.ast.Flags.String())

	g := generator.New(p.ast.Flags, store, generator.Config{Rand: opts.Rand, Logger: logger})
	text, err := g.Generate(p.ast.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to generate: %w", err)
	}

	values, set := store.Snapshot()
	return &Match{text: text, values: values, set: set, names: p.ast.GroupIndex}, nil
}

// seed builds the group store from the caller's values.
func (p *Pattern) seed(opts Options) (*generator.Store, error) {
	n := p.ast.GroupCount
	if len(opts.Groups) > n {
		return nil, fmt.Errorf("%w: %d values for %d groups", ErrInvalidGroupReference, len(opts.Groups), n)
	}

	values := make(map[int]string, len(opts.Groups)+len(opts.NamedGroups))
	for i, v := range opts.Groups {
		values[i+1] = v
	}
	for key, v := range opts.NamedGroups {
		i, err := p.resolve(key)
		if err != nil {
			return nil, err
		}
		if _, dup := values[i]; dup {
			return nil, fmt.Errorf("%w: group %d (%q) given twice", ErrConflictingGroupValue, i, key)
		}
		values[i] = v
	}

	store := generator.NewStore(n)
	for i, v := range values {
		store.SetIfAbsent(i, v)
	}
	return store, nil
}

// resolve maps a group name, or failing that a decimal index, to a group
// number.
func (p *Pattern) resolve(key string) (int, error) {
	if i, ok := p.ast.GroupIndex[key]; ok {
		return i, nil
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= p.ast.GroupCount {
		return i, nil
	}
	return 0, fmt.Errorf("%w: no group %q", ErrInvalidGroupReference, key)
}
