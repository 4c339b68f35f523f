package charset

import (
	"fmt"

	"github.com/KromDaniel/unmatcher/internal/ast"
)

const (
	digits      = "0123456789"
	letters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	whitespace  = " \t\n\r\v\f"
)

var (
	printable = OfString(digits + letters + punctuation + whitespace)
	newline   = Of('\n')

	digitSet = OfString(digits)
	wordSet  = OfString(digits + letters + "_")
	spaceSet = OfString(whitespace)
)

// Universe returns every character '.' may produce under flags: printable
// ASCII, without newline unless DotAll is set.
func Universe(flags ast.Flags) Set {
	if flags.Has(ast.DotAll) {
		return printable
	}
	return printable.Subtract(newline)
}

// Category returns the built-in set for cat, or its complement relative to
// Universe(flags) when negated.
func Category(cat ast.Category, negated bool, flags ast.Flags) Set {
	var set Set
	switch cat {
	case ast.CategoryDigit:
		set = digitSet
	case ast.CategoryWord:
		set = wordSet
	case ast.CategorySpace:
		set = spaceSet
	default:
		panic(fmt.Sprintf("charset: unknown category %v", cat))
	}
	if negated {
		return Universe(flags).Subtract(set)
	}
	return set
}
