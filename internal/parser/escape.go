package parser

import (
	"strconv"
	"unicode"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

var categoryEscapes = map[rune]ast.ClassCategory{
	'd': {Category: ast.CategoryDigit},
	'D': {Category: ast.CategoryDigit, Negated: true},
	'w': {Category: ast.CategoryWord},
	'W': {Category: ast.CategoryWord, Negated: true},
	's': {Category: ast.CategorySpace},
	'S': {Category: ast.CategorySpace, Negated: true},
}

var simpleEscapes = map[rune]rune{
	'a':  '\a',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

func isOctal(r rune) bool { return r >= '0' && r <= '7' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// parseEscape parses an escape outside a character class; the backslash at
// pos has been consumed.
func (p *Parser) parseEscape(pos int, flags ast.Flags) (ast.Node, error) {
	if p.isEOF() {
		return nil, p.errorf(pos, "bad escape (end of pattern)")
	}

	r := p.advance()
	if cat, ok := categoryEscapes[r]; ok {
		return &ast.CharClass{Items: []ast.ClassItem{cat}}, nil
	}

	switch r {
	case 'A':
		return &ast.Anchor{Kind: ast.AnchorTextStart}, nil
	case 'Z':
		return &ast.Anchor{Kind: ast.AnchorTextEnd}, nil
	case 'b':
		return &ast.Anchor{Kind: ast.AnchorWordBoundary}, nil
	case 'B':
		return &ast.Anchor{Kind: ast.AnchorNonWordBoundary}, nil
	}

	if isDigit(r) {
		return p.parseNumericEscape(pos, r, flags)
	}

	c, err := p.parseCharEscape(pos, r)
	if err != nil {
		return nil, err
	}
	return p.literal(c, flags), nil
}

// parseNumericEscape handles the ambiguity between octal escapes and numbered
// back references: \0 and three octal digits are octal, anything else is a
// group reference.
func (p *Parser) parseNumericEscape(pos int, first rune, flags ast.Flags) (ast.Node, error) {
	if first == '0' {
		return p.literal(p.readOctal(pos, "0", 2), flags), nil
	}

	digits := string(first)
	if isDigit(p.peek()) {
		digits += string(p.advance())
		if isOctal(first) && isOctal(rune(digits[1])) && isOctal(p.peek()) {
			digits += string(p.advance())
			value, _ := strconv.ParseInt(digits, 8, 32)
			if value > 0o377 {
				return nil, p.errorf(pos, "octal escape value \\%s outside of range 0-0o377", digits)
			}
			return p.literal(rune(value), flags), nil
		}
	}

	index, _ := strconv.Atoi(digits)
	return p.groupRef(index, pos)
}

// readOctal reads up to max further octal digits after prefix.
func (p *Parser) readOctal(pos int, prefix string, max int) rune {
	digits := prefix
	for i := 0; i < max && isOctal(p.peek()); i++ {
		digits += string(p.advance())
	}
	value, _ := strconv.ParseInt(digits, 8, 32)
	return rune(value)
}

// parseCharEscape resolves escapes that denote a single character: \n, \x41,
// é, \U0001F600, escaped punctuation.
func (p *Parser) parseCharEscape(pos int, r rune) (rune, error) {
	if c, ok := simpleEscapes[r]; ok {
		return c, nil
	}

	switch r {
	case 'x':
		return p.readHex(pos, 2, "x")
	case 'u':
		return p.readHex(pos, 4, "u")
	case 'U':
		c, err := p.readHex(pos, 8, "U")
		if err != nil {
			return 0, err
		}
		if c > unicode.MaxRune {
			return 0, p.errorf(pos, "bad escape \\U%08x", c)
		}
		return c, nil
	case 'N':
		return 0, p.errorf(pos, "bad escape \\N: named unicode escapes are not supported")
	}

	if r <= unicode.MaxASCII && (unicode.IsLetter(r) || isDigit(r)) {
		return 0, p.errorf(pos, "bad escape \\%c", r)
	}
	return r, nil
}

func (p *Parser) readHex(pos, n int, kind string) (rune, error) {
	start := p.pos
	for i := 0; i < n; i++ {
		if !isHex(p.peek()) {
			return 0, p.errorf(pos, "incomplete escape \\%s%s", kind, string(p.pattern[start:p.pos]))
		}
		p.advance()
	}
	value, err := strconv.ParseUint(string(p.pattern[start:p.pos]), 16, 32)
	if err != nil {
		return 0, p.errorf(pos, "bad escape \\%s", kind)
	}
	return rune(value), nil
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// parseClass parses a bracket expression; the '[' at pos has been consumed.
// A one-character class collapses to Literal, or NotLiteral when negated.
func (p *Parser) parseClass(pos int, flags ast.Flags) (ast.Node, error) {
	class := &ast.CharClass{CaseInsensitive: flags.Has(ast.IgnoreCase)}
	class.Negate = p.consume('^')

	first := true
	for {
		if p.isEOF() {
			return nil, p.errorf(pos, "unterminated character set")
		}
		if p.peek() == ']' && !first {
			p.advance()
			break
		}
		first = false

		itemPos := p.pos
		lo, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}

		if p.peek() != '-' || p.peekAt(1) == ']' || p.peekAt(1) == 0 {
			class.Items = append(class.Items, lo)
			continue
		}

		p.advance() // '-'
		hi, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		loLit, ok1 := lo.(ast.ClassLiteral)
		hiLit, ok2 := hi.(ast.ClassLiteral)
		if !ok1 || !ok2 {
			return nil, p.errorf(itemPos, "bad character range %s", string(p.pattern[itemPos:p.pos]))
		}
		if hiLit.Char < loLit.Char {
			return nil, p.errorf(itemPos, "bad character range %s", string(p.pattern[itemPos:p.pos]))
		}
		class.Items = append(class.Items, ast.ClassRange{Lo: loLit.Char, Hi: hiLit.Char})
	}

	if len(class.Items) == 1 {
		if lit, ok := class.Items[0].(ast.ClassLiteral); ok {
			if class.Negate {
				return &ast.NotLiteral{Char: lit.Char, CaseInsensitive: class.CaseInsensitive}, nil
			}
			return p.literal(lit.Char, flags), nil
		}
	}
	return class, nil
}

// parseClassAtom parses one class member: a character, an escape or a
// category.
func (p *Parser) parseClassAtom() (ast.ClassItem, error) {
	pos := p.pos
	r := p.advance()
	if r != '\\' {
		return ast.ClassLiteral{Char: r}, nil
	}
	if p.isEOF() {
		return nil, p.errorf(pos, "bad escape (end of pattern)")
	}

	r = p.advance()
	if cat, ok := categoryEscapes[r]; ok {
		return cat, nil
	}
	switch {
	case r == 'b':
		return ast.ClassLiteral{Char: '\b'}, nil
	case isOctal(r):
		return ast.ClassLiteral{Char: p.readOctal(pos, string(r), 2)}, nil
	case isDigit(r):
		return nil, p.errorf(pos, "bad escape \\%c", r)
	}

	c, err := p.parseCharEscape(pos, r)
	if err != nil {
		return nil, err
	}
	return ast.ClassLiteral{Char: c}, nil
}
