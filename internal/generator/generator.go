// Package generator walks a parsed pattern and produces a string the pattern
// matches.
//
// Generation is a single forward pass: every choice point (alternation,
// repetition count, character class member) is decided once with the
// configured random source and never revisited. Capture groups are recorded
// in a Store so that back references and conditionals later in the pattern
// see exactly what the group produced.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/KromDaniel/unmatcher/internal/ast"
	"github.com/KromDaniel/unmatcher/internal/charset"
	"github.com/KromDaniel/unmatcher/internal/verify"
)

// MaxRepeat is the repetition count used in place of an unbounded or larger
// quantifier maximum.
const MaxRepeat = 64

// Config configures a Generator.
type Config struct {
	// Rand is the source of every random decision. When nil, the generator
	// seeds a private source from the clock.
	Rand *rand.Rand

	// Logger receives the decisions taken while generating. May be nil.
	Logger *Logger
}

// Generator produces matching strings for one pattern invocation.
type Generator struct {
	flags  ast.Flags
	store  *Store
	rng    *rand.Rand
	logger *Logger
}

// New creates a generator over store for a pattern compiled with flags.
func New(flags ast.Flags, store *Store, cfg Config) *Generator {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		flags:  flags,
		store:  store,
		rng:    rng,
		logger: cfg.Logger,
	}
}

// Generate concatenates the output of every node in seq, left to right.
func (g *Generator) Generate(seq ast.Sequence) (string, error) {
	var b strings.Builder
	for _, n := range seq {
		s, err := g.generateNode(n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (g *Generator) generateNode(n ast.Node) (string, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return string(g.literal(n.Char, n.CaseInsensitive)), nil

	case *ast.NotLiteral:
		set, err := charset.Excluding(n.Char, n.CaseInsensitive, g.scoped(n.CaseInsensitive))
		if err != nil {
			return "", fmt.Errorf("negated literal %q: %w", n.Char, err)
		}
		return g.pick(set)

	case *ast.AnyChar:
		flags := g.flags &^ ast.DotAll
		if n.DotAll {
			flags |= ast.DotAll
		}
		return g.pick(charset.Universe(flags))

	case *ast.CharClass:
		set, err := charset.Evaluate(n, g.scoped(n.CaseInsensitive))
		if err != nil {
			return "", fmt.Errorf("character class: %w", err)
		}
		g.logger.Log("class: %d candidates", set.Len())
		return g.pick(set)

	case *ast.Branch:
		if len(n.Alternatives) == 0 {
			return "", nil
		}
		i := g.rng.Intn(len(n.Alternatives))
		g.logger.Log("branch: alternative %d of %d", i+1, len(n.Alternatives))
		return g.Generate(n.Alternatives[i])

	case *ast.Repeat:
		return g.repeat(n)

	case *ast.Group:
		return g.group(n)

	case *ast.GroupRef:
		value, ok := g.store.Get(n.Index)
		if !ok {
			return "", fmt.Errorf("%w: group %d has no value", ErrInvalidGroupReference, n.Index)
		}
		return value, nil

	case *ast.GroupRefExists:
		if g.store.IsSet(n.Index) {
			g.logger.Log("conditional: group %d set, taking yes branch", n.Index)
			return g.Generate(n.Yes)
		}
		g.logger.Log("conditional: group %d unset, taking no branch", n.Index)
		return g.Generate(n.No)

	case *ast.Anchor:
		return "", nil

	case *ast.Assertion:
		return "", &UnsupportedConstructError{Kind: n.Kind.Construct(), Direction: n.Kind.Direction()}

	default:
		return "", &UnsupportedConstructError{Kind: fmt.Sprintf("%T", n)}
	}
}

// scoped returns the pattern flags with IgnoreCase as a node sees it. Nodes
// carry the case sensitivity in effect where they were parsed, which scoped
// groups such as (?-i:...) may have changed.
func (g *Generator) scoped(caseInsensitive bool) ast.Flags {
	if caseInsensitive {
		return g.flags | ast.IgnoreCase
	}
	return g.flags &^ ast.IgnoreCase
}

// literal returns r, or a random choice between its upper and lower case
// forms when case-insensitive matching applies.
func (g *Generator) literal(r rune, caseInsensitive bool) rune {
	if !caseInsensitive {
		return r
	}
	if g.rng.Intn(2) == 0 {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

func (g *Generator) pick(set charset.Set) (string, error) {
	r, err := charset.Pick(set, g.rng)
	if err != nil {
		return "", err
	}
	return string(r), nil
}

// repeat generates the body an independent number of times drawn uniformly
// from [Min, min(Max, MaxRepeat)]. A Min above MaxRepeat is honoured exactly.
func (g *Generator) repeat(n *ast.Repeat) (string, error) {
	upper := n.Max
	if upper == ast.Unbounded || upper > MaxRepeat {
		upper = MaxRepeat
	}
	if upper < n.Min {
		upper = n.Min
	}
	count := n.Min + g.rng.Intn(upper-n.Min+1)
	g.logger.Log("repeat: %d in [%d, %d]", count, n.Min, upper)

	var b strings.Builder
	for i := 0; i < count; i++ {
		s, err := g.Generate(n.Body)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// group generates the body first and only then offers it to the store, so a
// slot filled earlier (by the caller or a previous pass) wins and the fresh
// text is dropped. A filled slot whose nested groups are still empty takes
// their values from its own text instead.
func (g *Generator) group(n *ast.Group) (string, error) {
	if n.Capturing() && g.store.IsSet(n.Index) && g.hasEmptyNested(n) {
		return g.seededGroup(n)
	}

	text, err := g.Generate(n.Body)
	if err != nil {
		return "", err
	}
	if !n.Capturing() {
		return text, nil
	}

	if g.store.IsSet(n.Index) {
		g.logger.Log("group %d: already set, discarding %q", n.Index, text)
	}
	return g.store.SetIfAbsent(n.Index, text), nil
}

func (g *Generator) hasEmptyNested(n *ast.Group) bool {
	last := n.Index + ast.CaptureCount(n.Body)
	for i := n.Index + 1; i <= last; i++ {
		if !g.store.IsSet(i) {
			return true
		}
	}
	return false
}

// seededGroup matches the stored value of n against its body and fills the
// nested slots from the match. A value the body cannot match leaves them
// unset.
func (g *Generator) seededGroup(n *ast.Group) (string, error) {
	value, _ := g.store.Get(n.Index)
	nested, ok, err := verify.Submatches(n, g.flags, value, g.store.Get)
	if err != nil {
		return "", fmt.Errorf("group %d: %w", n.Index, err)
	}
	if !ok {
		g.logger.Log("group %d: %q does not match the group body, nested groups left unset", n.Index, value)
		return value, nil
	}
	for i := n.Index + 1; i <= n.Index+ast.CaptureCount(n.Body); i++ {
		if v, set := nested[i]; set {
			g.logger.Log("group %d: %q taken from group %d", i, g.store.SetIfAbsent(i, v), n.Index)
		}
	}
	return value, nil
}
