// Package ast defines the syntax tree consumed by the generator.
//
// The tree is closed: every node kind lives in this package and implements
// the unexported marker method of Node, so a type switch over Node covers
// the whole language.
package ast

import "fmt"

// Unbounded is the Repeat.Max value for quantifiers without an upper bound.
const Unbounded = -1

// Node is one element of a parsed pattern.
type Node interface {
	node()
}

// Sequence is an ordered list of nodes matched one after another.
type Sequence []Node

// Literal matches exactly one character.
type Literal struct {
	Char            rune
	CaseInsensitive bool
}

// NotLiteral matches any character except Char.
type NotLiteral struct {
	Char            rune
	CaseInsensitive bool
}

// AnyChar is the '.' wildcard. DotAll is set when a scoped (?s:...) applies.
type AnyChar struct {
	DotAll bool
}

// CharClass matches one character from the union of Items, or from its
// complement when Negate is set.
type CharClass struct {
	Negate          bool
	Items           []ClassItem
	CaseInsensitive bool
}

// Branch matches exactly one of its alternatives.
type Branch struct {
	Alternatives []Sequence
}

// Repeat matches Body between Min and Max times. Max is Unbounded for
// '*', '+' and '{m,}'.
type Repeat struct {
	Min        int
	Max        int
	Body       Sequence
	Lazy       bool
	Possessive bool
}

// Group is a parenthesised sub-pattern. Index is the 1-based capture slot;
// zero means the group does not capture.
type Group struct {
	Index  int
	Name   string
	Body   Sequence
	Atomic bool
}

// Capturing reports whether the group records its text.
func (g *Group) Capturing() bool { return g.Index > 0 }

// GroupRef is a back reference to the text captured by group Index.
type GroupRef struct {
	Index int
}

// GroupRefExists is the conditional (?(Index)Yes|No). A nil No stands for an
// absent no-branch.
type GroupRefExists struct {
	Index int
	Yes   Sequence
	No    Sequence
}

// Anchor is a zero-width position assertion.
type Anchor struct {
	Kind AnchorKind
}

// Assertion is a lookaround. The generator never supports it.
type Assertion struct {
	Kind AssertionKind
	Body Sequence
}

func (*Literal) node()        {}
func (*NotLiteral) node()     {}
func (*AnyChar) node()        {}
func (*CharClass) node()      {}
func (*Branch) node()         {}
func (*Repeat) node()         {}
func (*Group) node()          {}
func (*GroupRef) node()       {}
func (*GroupRefExists) node() {}
func (*Anchor) node()         {}
func (*Assertion) node()      {}

// ClassItem is one member of a CharClass.
type ClassItem interface {
	classItem()
}

// ClassLiteral is a single character inside brackets.
type ClassLiteral struct {
	Char rune
}

// ClassRange is the inclusive code point range Lo-Hi.
type ClassRange struct {
	Lo, Hi rune
}

// ClassCategory is a built-in category such as \d or, when Negated, \D.
type ClassCategory struct {
	Category Category
	Negated  bool
}

func (ClassLiteral) classItem()  {}
func (ClassRange) classItem()    {}
func (ClassCategory) classItem() {}

// Category names a built-in character set.
type Category int

const (
	CategoryDigit Category = iota
	CategoryWord
	CategorySpace
)

func (c Category) String() string {
	switch c {
	case CategoryDigit:
		return "digit"
	case CategoryWord:
		return "word"
	case CategorySpace:
		return "space"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// AnchorKind identifies a zero-width position assertion.
type AnchorKind int

const (
	AnchorLineStart       AnchorKind = iota // ^
	AnchorLineEnd                           // $
	AnchorTextStart                         // \A
	AnchorTextEnd                           // \Z
	AnchorWordBoundary                      // \b
	AnchorNonWordBoundary                   // \B
)

// AssertionKind identifies a lookaround.
type AssertionKind int

const (
	Lookahead AssertionKind = iota
	NegativeLookahead
	Lookbehind
	NegativeLookbehind
)

// Negative reports whether the assertion requires its body not to match.
func (k AssertionKind) Negative() bool {
	return k == NegativeLookahead || k == NegativeLookbehind
}

// Behind reports whether the assertion looks at text before the position.
func (k AssertionKind) Behind() bool {
	return k == Lookbehind || k == NegativeLookbehind
}

// Construct returns "assert" for positive and "assert_not" for negative
// lookarounds.
func (k AssertionKind) Construct() string {
	if k.Negative() {
		return "assert_not"
	}
	return "assert"
}

// Direction returns "lookahead" or "lookbehind".
func (k AssertionKind) Direction() string {
	if k.Behind() {
		return "lookbehind"
	}
	return "lookahead"
}

func (k AssertionKind) String() string {
	if k.Negative() {
		return "negative " + k.Direction()
	}
	return k.Direction()
}
