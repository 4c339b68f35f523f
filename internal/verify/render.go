package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

// metaChars must be escaped outside a character class.
const metaChars = `\.^$|?*+()[]{}#`

// classMetaChars must be escaped inside a character class.
const classMetaChars = `\]^-[`

// Render writes seq in .NET regular expression syntax. Every capture group
// is emitted unnamed so group numbers match the source pattern.
func Render(seq ast.Sequence) (string, error) {
	r := &renderer{}
	if err := r.sequence(seq); err != nil {
		return "", err
	}
	return r.b.String(), nil
}

// RenderBody writes the body of the capture group n on its own. Groups nested
// in the body are renumbered from 1. References to groups outside the body
// are resolved through outside: a known value is written as a literal and an
// unknown one as an expression that never matches.
func RenderBody(n *ast.Group, outside func(int) (string, bool)) (string, error) {
	r := &renderer{base: n.Index, last: n.Index + ast.CaptureCount(n.Body), outside: outside}
	if err := r.sequence(n.Body); err != nil {
		return "", err
	}
	return r.b.String(), nil
}

type renderer struct {
	b strings.Builder

	// base and last bound the groups nested in a body rendered in
	// isolation. Both are zero when rendering a whole pattern.
	base    int
	last    int
	outside func(int) (string, bool)
}

func (r *renderer) sequence(seq ast.Sequence) error {
	for _, n := range seq {
		if err := r.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) node(n ast.Node) error {
	b := &r.b
	switch n := n.(type) {
	case *ast.Literal:
		caseScope(b, n.CaseInsensitive, func() { writeRune(b, n.Char, metaChars) })

	case *ast.NotLiteral:
		caseScope(b, n.CaseInsensitive, func() {
			b.WriteString("[^")
			writeRune(b, n.Char, classMetaChars)
			b.WriteByte(']')
		})

	case *ast.AnyChar:
		if n.DotAll {
			b.WriteString("(?s:.)")
		} else {
			b.WriteString("(?-s:.)")
		}

	case *ast.CharClass:
		var err error
		caseScope(b, n.CaseInsensitive, func() { err = renderClass(b, n) })
		return err

	case *ast.Branch:
		b.WriteString("(?:")
		for i, alt := range n.Alternatives {
			if i > 0 {
				b.WriteByte('|')
			}
			if err := r.sequence(alt); err != nil {
				return err
			}
		}
		b.WriteByte(')')

	case *ast.Repeat:
		return r.repeat(n)

	case *ast.Group:
		switch {
		case n.Capturing():
			b.WriteByte('(')
		case n.Atomic:
			b.WriteString("(?>")
		default:
			b.WriteString("(?:")
		}
		if err := r.sequence(n.Body); err != nil {
			return err
		}
		b.WriteByte(')')

	case *ast.GroupRef:
		if r.inside(n.Index) {
			fmt.Fprintf(b, `(?:\%d)`, n.Index-r.base)
			break
		}
		value, ok := r.lookup(n.Index)
		if !ok {
			b.WriteString("(?!)")
			break
		}
		b.WriteString("(?:")
		for _, c := range value {
			writeRune(b, c, metaChars)
		}
		b.WriteByte(')')

	case *ast.GroupRefExists:
		if !r.inside(n.Index) {
			branch := n.No
			if _, ok := r.lookup(n.Index); ok {
				branch = n.Yes
			}
			b.WriteString("(?:")
			if err := r.sequence(branch); err != nil {
				return err
			}
			b.WriteByte(')')
			break
		}
		fmt.Fprintf(b, "(?(%d)", n.Index-r.base)
		if err := r.sequence(n.Yes); err != nil {
			return err
		}
		b.WriteByte('|')
		if err := r.sequence(n.No); err != nil {
			return err
		}
		b.WriteByte(')')

	case *ast.Anchor:
		b.WriteString(anchorSyntax[n.Kind])

	case *ast.Assertion:
		b.WriteString(assertionSyntax[n.Kind])
		if err := r.sequence(n.Body); err != nil {
			return err
		}
		b.WriteByte(')')

	default:
		return fmt.Errorf("verify: cannot render %T", n)
	}
	return nil
}

func (r *renderer) inside(index int) bool {
	return index > r.base && (r.last == 0 || index <= r.last)
}

func (r *renderer) lookup(index int) (string, bool) {
	if r.outside == nil {
		return "", false
	}
	return r.outside(index)
}

var anchorSyntax = map[ast.AnchorKind]string{
	ast.AnchorLineStart:       "^",
	ast.AnchorLineEnd:         "$",
	ast.AnchorTextStart:       `\A`,
	ast.AnchorTextEnd:         `\z`,
	ast.AnchorWordBoundary:    `\b`,
	ast.AnchorNonWordBoundary: `\B`,
}

var assertionSyntax = map[ast.AssertionKind]string{
	ast.Lookahead:          "(?=",
	ast.NegativeLookahead:  "(?!",
	ast.Lookbehind:         "(?<=",
	ast.NegativeLookbehind: "(?<!",
}

func (r *renderer) repeat(n *ast.Repeat) error {
	b := &r.b
	if n.Possessive {
		b.WriteString("(?>")
	}
	b.WriteString("(?:")
	if err := r.sequence(n.Body); err != nil {
		return err
	}
	b.WriteByte(')')

	switch {
	case n.Max == ast.Unbounded:
		fmt.Fprintf(b, "{%d,}", n.Min)
	case n.Min == n.Max:
		fmt.Fprintf(b, "{%d}", n.Min)
	default:
		fmt.Fprintf(b, "{%d,%d}", n.Min, n.Max)
	}
	if n.Lazy {
		b.WriteByte('?')
	}
	if n.Possessive {
		b.WriteByte(')')
	}
	return nil
}

func renderClass(b *strings.Builder, n *ast.CharClass) error {
	b.WriteByte('[')
	if n.Negate {
		b.WriteByte('^')
	}
	for _, item := range n.Items {
		switch it := item.(type) {
		case ast.ClassLiteral:
			writeRune(b, it.Char, classMetaChars)
		case ast.ClassRange:
			writeRune(b, it.Lo, classMetaChars)
			b.WriteByte('-')
			writeRune(b, it.Hi, classMetaChars)
		case ast.ClassCategory:
			b.WriteString(categorySyntax(it))
		default:
			return fmt.Errorf("verify: cannot render class item %T", item)
		}
	}
	b.WriteByte(']')
	return nil
}

func categorySyntax(c ast.ClassCategory) string {
	letter := map[ast.Category]string{
		ast.CategoryDigit: "d",
		ast.CategoryWord:  "w",
		ast.CategorySpace: "s",
	}[c.Category]
	if c.Negated {
		letter = strings.ToUpper(letter)
	}
	return `\` + letter
}

func caseScope(b *strings.Builder, ci bool, body func()) {
	if !ci {
		body()
		return
	}
	b.WriteString("(?i:")
	body()
	b.WriteByte(')')
}

// writeRune writes r so the .NET parser reads it back as the literal r.
// Control characters are written as \uXXXX escapes.
func writeRune(b *strings.Builder, r rune, meta string) {
	switch {
	case r < 0x20 || r == 0x7f:
		b.WriteString(`\u`)
		s := strconv.FormatInt(int64(r), 16)
		b.WriteString(strings.Repeat("0", 4-len(s)))
		b.WriteString(s)
	case strings.ContainsRune(meta, r):
		b.WriteByte('\\')
		b.WriteRune(r)
	default:
		b.WriteRune(r)
	}
}
