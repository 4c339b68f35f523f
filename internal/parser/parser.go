// Package parser turns pattern source text in Python re syntax into an
// ast.Pattern.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

// ErrMalformedPattern is matched by every error Parse returns.
var ErrMalformedPattern = errors.New("malformed pattern")

// maxRepeat bounds the numbers accepted inside {m,n}.
const maxRepeat = 1<<31 - 2

// SyntaxError describes why a pattern could not be parsed.
type SyntaxError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Msg, e.Pos, e.Pattern)
}

// Is reports ErrMalformedPattern as the error's kind.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedPattern
}

// Parser holds the state of one parse.
type Parser struct {
	source  string
	pattern []rune
	pos     int
	flags   ast.Flags

	groupCount int
	open       map[int]bool
	names      map[string]int
	groupNames []string
}

// NewParser creates a parser for pattern with the given initial flags.
func NewParser(pattern string, flags ast.Flags) *Parser {
	return &Parser{
		source:     pattern,
		pattern:    []rune(pattern),
		flags:      flags,
		open:       make(map[int]bool),
		names:      make(map[string]int),
		groupNames: []string{""},
	}
}

// Parse parses pattern under flags. Inline global flags such as (?i) at the
// start of the pattern are merged into the returned Pattern's flags.
func Parse(pattern string, flags ast.Flags) (*ast.Pattern, error) {
	return NewParser(pattern, flags).Parse()
}

// Parse runs the parser over the whole pattern.
func (p *Parser) Parse() (*ast.Pattern, error) {
	if err := p.parseGlobalFlags(); err != nil {
		return nil, err
	}

	root, err := p.parseAlternation(p.flags)
	if err != nil {
		return nil, err
	}
	if !p.isEOF() {
		// parseAlternation only stops early on ')'.
		return nil, p.errorf(p.pos, "unbalanced parenthesis")
	}

	return &ast.Pattern{
		Source:     p.source,
		Root:       root,
		Flags:      p.flags,
		GroupCount: p.groupCount,
		GroupIndex: p.names,
		GroupNames: p.groupNames,
	}, nil
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Pattern: p.source, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// peek returns the current rune without advancing, or 0 at the end.
func (p *Parser) peek() rune {
	if p.pos >= len(p.pattern) {
		return 0
	}
	return p.pattern[p.pos]
}

// peekAt returns the rune n positions ahead, or 0 past the end.
func (p *Parser) peekAt(n int) rune {
	if p.pos+n >= len(p.pattern) {
		return 0
	}
	return p.pattern[p.pos+n]
}

// advance consumes and returns the current rune.
func (p *Parser) advance() rune {
	if p.pos >= len(p.pattern) {
		return 0
	}
	r := p.pattern[p.pos]
	p.pos++
	return r
}

func (p *Parser) isEOF() bool {
	return p.pos >= len(p.pattern)
}

// consume advances past r if it is the current rune.
func (p *Parser) consume(r rune) bool {
	if !p.isEOF() && p.peek() == r {
		p.pos++
		return true
	}
	return false
}

// parseGlobalFlags applies leading (?flags) groups to the whole pattern.
func (p *Parser) parseGlobalFlags() error {
	for p.peek() == '(' && p.peekAt(1) == '?' {
		end := p.pos + 2
		var add ast.Flags
		for end < len(p.pattern) {
			if p.pattern[end] > unicode.MaxASCII {
				break
			}
			f, ok := ast.FlagFor(byte(p.pattern[end]))
			if !ok {
				break
			}
			add |= f
			end++
		}
		if end == p.pos+2 || end >= len(p.pattern) || p.pattern[end] != ')' {
			return nil
		}
		p.flags |= add
		p.pos = end + 1
	}
	return nil
}

// skipVerbose skips whitespace and # comments when verbose mode is on.
func (p *Parser) skipVerbose(flags ast.Flags) {
	if !flags.Has(ast.Verbose) {
		return
	}
	for !p.isEOF() {
		switch r := p.peek(); {
		case r == '#':
			for !p.isEOF() && p.peek() != '\n' {
				p.pos++
			}
		case strings.ContainsRune(" \t\n\r\v\f", r):
			p.pos++
		default:
			return
		}
	}
}

// parseAlternation parses alternatives separated by '|' until ')' or the end.
func (p *Parser) parseAlternation(flags ast.Flags) (ast.Sequence, error) {
	var alternatives []ast.Sequence
	for {
		seq, err := p.parseConcat(flags)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, seq)
		if !p.consume('|') {
			break
		}
	}

	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return ast.Sequence{&ast.Branch{Alternatives: alternatives}}, nil
}

// parseConcat parses quantified atoms until '|', ')' or the end.
func (p *Parser) parseConcat(flags ast.Flags) (ast.Sequence, error) {
	seq := ast.Sequence{}
	for {
		p.skipVerbose(flags)
		if p.isEOF() || p.peek() == '|' || p.peek() == ')' {
			return seq, nil
		}

		atom, err := p.parseAtom(flags)
		if err != nil {
			return nil, err
		}
		if atom == nil {
			// comment group
			continue
		}

		atom, err = p.parseQuantifiers(atom, flags)
		if err != nil {
			return nil, err
		}
		seq = append(seq, atom)
	}
}

// parseQuantifiers wraps atom in a Repeat when a quantifier follows it.
func (p *Parser) parseQuantifiers(atom ast.Node, flags ast.Flags) (ast.Node, error) {
	p.skipVerbose(flags)
	qpos := p.pos
	min, max, ok, err := p.parseQuantifier()
	if err != nil || !ok {
		return atom, err
	}
	if _, isAnchor := atom.(*ast.Anchor); isAnchor {
		return nil, p.errorf(qpos, "nothing to repeat")
	}

	rep := &ast.Repeat{Min: min, Max: max, Body: ast.Sequence{atom}}
	if p.consume('?') {
		rep.Lazy = true
	} else if p.consume('+') {
		rep.Possessive = true
	}

	p.skipVerbose(flags)
	if p.quantifierAhead() {
		return nil, p.errorf(p.pos, "multiple repeat")
	}
	return rep, nil
}

// quantifierAhead reports whether a quantifier starts at the current position.
func (p *Parser) quantifierAhead() bool {
	switch p.peek() {
	case '*', '+', '?':
		return true
	case '{':
		save := p.pos
		_, _, ok, err := p.parseQuantifier()
		p.pos = save
		return ok || err != nil
	}
	return false
}

// parseQuantifier consumes one of * + ? {m} {m,} {,n} {m,n}. A '{' that does
// not open a valid quantifier is left in place and ok is false.
func (p *Parser) parseQuantifier() (min, max int, ok bool, err error) {
	switch p.peek() {
	case '*':
		p.advance()
		return 0, ast.Unbounded, true, nil
	case '+':
		p.advance()
		return 1, ast.Unbounded, true, nil
	case '?':
		p.advance()
		return 0, 1, true, nil
	case '{':
	default:
		return 0, 0, false, nil
	}

	start := p.pos
	p.advance()
	if p.peek() == '}' {
		p.pos = start
		return 0, 0, false, nil
	}

	lo := p.readDigits()
	hi := lo
	hasComma := p.consume(',')
	if hasComma {
		hi = p.readDigits()
	}
	if !p.consume('}') {
		p.pos = start
		return 0, 0, false, nil
	}

	min, max = 0, ast.Unbounded
	if lo != "" {
		if min, err = p.repeatNumber(lo, start); err != nil {
			return 0, 0, false, err
		}
	}
	if hi != "" {
		if max, err = p.repeatNumber(hi, start); err != nil {
			return 0, 0, false, err
		}
		if max < min {
			return 0, 0, false, p.errorf(start, "min repeat greater than max repeat")
		}
	}
	return min, max, true, nil
}

func (p *Parser) repeatNumber(digits string, pos int) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n > maxRepeat {
		return 0, p.errorf(pos, "the repetition number is too large")
	}
	return n, nil
}

func (p *Parser) readDigits() string {
	start := p.pos
	for !p.isEOF() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	return string(p.pattern[start:p.pos])
}

// parseAtom parses one unquantified element. It returns a nil node for
// constructs that produce nothing, such as (?#...) comments.
func (p *Parser) parseAtom(flags ast.Flags) (ast.Node, error) {
	pos := p.pos
	switch r := p.advance(); r {
	case '(':
		return p.parseGroup(pos, flags)
	case '[':
		return p.parseClass(pos, flags)
	case '.':
		return &ast.AnyChar{DotAll: flags.Has(ast.DotAll)}, nil
	case '^':
		return &ast.Anchor{Kind: ast.AnchorLineStart}, nil
	case '$':
		return &ast.Anchor{Kind: ast.AnchorLineEnd}, nil
	case '\\':
		return p.parseEscape(pos, flags)
	case '*', '+', '?':
		return nil, p.errorf(pos, "nothing to repeat")
	case '{':
		p.pos = pos
		if p.quantifierAhead() {
			return nil, p.errorf(pos, "nothing to repeat")
		}
		p.advance()
		return p.literal(r, flags), nil
	default:
		return p.literal(r, flags), nil
	}
}

func (p *Parser) literal(r rune, flags ast.Flags) *ast.Literal {
	return &ast.Literal{Char: r, CaseInsensitive: flags.Has(ast.IgnoreCase)}
}
