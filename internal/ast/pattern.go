package ast

import "strings"

// Flags is the set of pattern-wide modifiers.
type Flags uint16

const (
	IgnoreCase Flags = 1 << iota // i
	DotAll                       // s
	Multiline                    // m
	Verbose                      // x
	ASCII                        // a
	Unicode                      // u
	Locale                       // L
)

var flagLetters = []struct {
	flag   Flags
	letter byte
}{
	{ASCII, 'a'},
	{IgnoreCase, 'i'},
	{Locale, 'L'},
	{Multiline, 'm'},
	{DotAll, 's'},
	{Unicode, 'u'},
	{Verbose, 'x'},
}

// FlagFor returns the flag for an inline letter such as 'i' in (?i).
func FlagFor(letter byte) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.letter == letter {
			return fl.flag, true
		}
	}
	return 0, false
}

// Has reports whether every flag in f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// String renders the flags as inline letters, e.g. "is".
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f.Has(fl.flag) {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}

// Pattern is a parsed regular expression.
type Pattern struct {
	Source string
	Root   Sequence
	Flags  Flags

	// GroupCount is the number of capture groups; slots are 1..GroupCount.
	GroupCount int
	// GroupIndex maps group names to slots.
	GroupIndex map[string]int
	// GroupNames is indexed by slot; unnamed groups and slot 0 are "".
	GroupNames []string
}
