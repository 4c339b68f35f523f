package charset

import (
	"fmt"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

// Evaluate resolves a character class into its candidate set under flags.
// Literals and ranges are widened with their case variants when the class or
// the pattern is case-insensitive. A negated class is the complement of its
// items relative to Universe(flags).
func Evaluate(class *ast.CharClass, flags ast.Flags) (Set, error) {
	var (
		plain []Range
		union Set
	)
	for _, item := range class.Items {
		switch it := item.(type) {
		case ast.ClassLiteral:
			plain = append(plain, Range{it.Char, it.Char})
		case ast.ClassRange:
			plain = append(plain, Range{it.Lo, it.Hi})
		case ast.ClassCategory:
			union = union.Union(Category(it.Category, it.Negated, flags))
		default:
			panic(fmt.Sprintf("charset: unknown class item %T", item))
		}
	}

	explicit := FromRanges(plain...)
	if class.CaseInsensitive || flags.Has(ast.IgnoreCase) {
		explicit = explicit.FoldCase()
	}
	union = union.Union(explicit)

	if class.Negate {
		union = Universe(flags).Subtract(union)
	}
	if union.IsEmpty() {
		return Set{}, ErrEmptyCharset
	}
	return union, nil
}

// Excluding returns Universe(flags) without r, and without its case variants
// when caseInsensitive is set.
func Excluding(r rune, caseInsensitive bool, flags ast.Flags) (Set, error) {
	exclude := Of(r)
	if caseInsensitive || flags.Has(ast.IgnoreCase) {
		exclude = exclude.FoldCase()
	}
	set := Universe(flags).Subtract(exclude)
	if set.IsEmpty() {
		return Set{}, ErrEmptyCharset
	}
	return set, nil
}
