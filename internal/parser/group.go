package parser

import (
	"strconv"
	"unicode"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

// parseGroup parses everything after an opening '(' at pos.
func (p *Parser) parseGroup(pos int, flags ast.Flags) (ast.Node, error) {
	if !p.consume('?') {
		return p.parseCapture(pos, "", flags)
	}

	extPos := p.pos
	switch r := p.advance(); r {
	case ':':
		body, err := p.parseGroupBody(pos, flags)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Body: body}, nil

	case '>':
		body, err := p.parseGroupBody(pos, flags)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Body: body, Atomic: true}, nil

	case 'P':
		switch p.advance() {
		case '<':
			name, err := p.parseGroupName('>')
			if err != nil {
				return nil, err
			}
			return p.parseCapture(pos, name, flags)
		case '=':
			return p.parseNamedRef()
		default:
			return nil, p.errorf(extPos, "unknown extension ?P%s", string(p.pattern[p.pos-1:p.pos]))
		}

	case '<':
		switch p.peek() {
		case '=':
			p.advance()
			return p.parseAssertion(pos, ast.Lookbehind, flags)
		case '!':
			p.advance()
			return p.parseAssertion(pos, ast.NegativeLookbehind, flags)
		}
		name, err := p.parseGroupName('>')
		if err != nil {
			return nil, err
		}
		return p.parseCapture(pos, name, flags)

	case '=':
		return p.parseAssertion(pos, ast.Lookahead, flags)

	case '!':
		return p.parseAssertion(pos, ast.NegativeLookahead, flags)

	case '#':
		for !p.isEOF() && p.peek() != ')' {
			p.advance()
		}
		if !p.consume(')') {
			return nil, p.errorf(pos, "missing ), unterminated comment")
		}
		return nil, nil

	case '(':
		return p.parseConditional(pos, flags)

	case 0:
		return nil, p.errorf(extPos, "unexpected end of pattern")

	default:
		p.pos = extPos
		return p.parseScopedFlags(pos, flags)
	}
}

// parseGroupBody parses alternatives up to and including the closing ')'.
func (p *Parser) parseGroupBody(pos int, flags ast.Flags) (ast.Sequence, error) {
	body, err := p.parseAlternation(flags)
	if err != nil {
		return nil, err
	}
	if !p.consume(')') {
		return nil, p.errorf(pos, "missing ), unterminated subpattern")
	}
	return body, nil
}

// parseCapture registers a new capture group and parses its body.
func (p *Parser) parseCapture(pos int, name string, flags ast.Flags) (ast.Node, error) {
	p.groupCount++
	index := p.groupCount
	if name != "" {
		if prev, ok := p.names[name]; ok {
			return nil, p.errorf(pos, "redefinition of group name %q as group %d; was group %d", name, index, prev)
		}
		p.names[name] = index
	}
	p.groupNames = append(p.groupNames, name)

	p.open[index] = true
	body, err := p.parseGroupBody(pos, flags)
	if err != nil {
		return nil, err
	}
	delete(p.open, index)

	return &ast.Group{Index: index, Name: name, Body: body}, nil
}

// parseGroupName reads an identifier terminated by end.
func (p *Parser) parseGroupName(end rune) (string, error) {
	start := p.pos
	for !p.isEOF() && p.peek() != end {
		p.advance()
	}
	if !p.consume(end) {
		return "", p.errorf(start, "missing %c, unterminated name", end)
	}
	name := string(p.pattern[start : p.pos-1])
	if name == "" {
		return "", p.errorf(start, "missing group name")
	}
	if !isValidIdentifier(name) {
		return "", p.errorf(start, "bad character in group name %q", name)
	}
	return name, nil
}

// parseNamedRef parses the rest of (?P=name).
func (p *Parser) parseNamedRef() (ast.Node, error) {
	start := p.pos
	name, err := p.parseGroupName(')')
	if err != nil {
		return nil, err
	}
	index, ok := p.names[name]
	if !ok {
		return nil, p.errorf(start, "unknown group name %q", name)
	}
	return p.groupRef(index, start)
}

// groupRef validates a back reference to an already closed group.
func (p *Parser) groupRef(index, pos int) (ast.Node, error) {
	if index < 1 || index > p.groupCount {
		return nil, p.errorf(pos, "invalid group reference %d", index)
	}
	if p.open[index] {
		return nil, p.errorf(pos, "cannot refer to an open group")
	}
	return &ast.GroupRef{Index: index}, nil
}

// parseAssertion parses the body of a lookaround.
func (p *Parser) parseAssertion(pos int, kind ast.AssertionKind, flags ast.Flags) (ast.Node, error) {
	body, err := p.parseGroupBody(pos, flags)
	if err != nil {
		return nil, err
	}
	return &ast.Assertion{Kind: kind, Body: body}, nil
}

// parseConditional parses the rest of (?(id)yes|no).
func (p *Parser) parseConditional(pos int, flags ast.Flags) (ast.Node, error) {
	condPos := p.pos
	for !p.isEOF() && p.peek() != ')' {
		p.advance()
	}
	if !p.consume(')') {
		return nil, p.errorf(condPos, "missing ), unterminated name")
	}
	cond := string(p.pattern[condPos : p.pos-1])
	if cond == "" {
		return nil, p.errorf(condPos, "missing group name")
	}

	var index int
	if isValidIdentifier(cond) {
		var ok bool
		if index, ok = p.names[cond]; !ok {
			return nil, p.errorf(condPos, "unknown group name %q", cond)
		}
	} else {
		if !isDigits(cond) {
			return nil, p.errorf(condPos, "bad character in group name %q", cond)
		}
		n, err := strconv.Atoi(cond)
		if err != nil || n == 0 {
			return nil, p.errorf(condPos, "bad group number")
		}
		index = n
	}
	if index > p.groupCount {
		return nil, p.errorf(condPos, "invalid group reference %d", index)
	}

	yes, err := p.parseConcat(flags)
	if err != nil {
		return nil, err
	}
	node := &ast.GroupRefExists{Index: index, Yes: yes}
	if p.consume('|') {
		if node.No, err = p.parseConcat(flags); err != nil {
			return nil, err
		}
		if p.peek() == '|' {
			return nil, p.errorf(p.pos, "conditional backref with more than two branches")
		}
	}
	if !p.consume(')') {
		return nil, p.errorf(pos, "missing ), unterminated subpattern")
	}
	return node, nil
}

// parseScopedFlags parses (?flags-flags:...) or reports misplaced global flags.
func (p *Parser) parseScopedFlags(pos int, flags ast.Flags) (ast.Node, error) {
	add := p.readFlags()

	var remove ast.Flags
	if p.consume('-') {
		removePos := p.pos
		remove = p.readFlags()
		if remove == 0 {
			return nil, p.errorf(removePos, "missing flag")
		}
		if remove&(ast.ASCII|ast.Unicode|ast.Locale) != 0 {
			return nil, p.errorf(removePos, "bad inline flags: cannot turn off flags 'a', 'u' and 'L'")
		}
		if add&remove != 0 {
			return nil, p.errorf(removePos, "bad inline flags: flag turned on and off")
		}
	}

	switch p.advance() {
	case ':':
		body, err := p.parseGroupBody(pos, (flags|add)&^remove)
		if err != nil {
			return nil, err
		}
		return &ast.Group{Body: body}, nil
	case ')':
		if remove == 0 && add != 0 {
			return nil, p.errorf(pos, "global flags not at the start of the expression")
		}
		return nil, p.errorf(pos, "missing :")
	case 0:
		return nil, p.errorf(p.pos, "missing -, : or )")
	default:
		if add == 0 && remove == 0 {
			return nil, p.errorf(pos+2, "unknown extension ?%s", string(p.pattern[p.pos-1:p.pos]))
		}
		return nil, p.errorf(p.pos-1, "missing -, : or )")
	}
}

// readFlags consumes inline flag letters.
func (p *Parser) readFlags() ast.Flags {
	var flags ast.Flags
	for !p.isEOF() && p.peek() <= unicode.MaxASCII {
		f, ok := ast.FlagFor(byte(p.peek()))
		if !ok {
			break
		}
		flags |= f
		p.advance()
	}
	return flags
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
		} else {
			if !isNameContinue(r) {
				return false
			}
		}
	}
	return true
}
