// Package codegen provides naming helpers and constants for generated code.
package codegen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
)

// Suffixes appended to a fixture name for each generated declaration.
const (
	PatternSuffix = "Pattern"
	MatcherSuffix = "Matcher"
	OptionsSuffix = "Options"
	SamplesSuffix = "Samples"
)

// Regexp2Path is the import path of the engine generated code matches with.
const Regexp2Path = "github.com/dlclark/regexp2"

// DeclName returns the identifier for the declaration of name with suffix.
func DeclName(name, suffix string) string {
	return UpperFirst(name) + suffix
}

// TestName returns the name of a generated test function.
func TestName(name, what string) string {
	return fmt.Sprintf("Test%s%s", UpperFirst(name), what)
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}

// Identifier turns an arbitrary string into an exported Go identifier:
// runs of non-alphanumeric characters become word breaks and each word is
// capitalised. It returns "" when nothing usable remains.
func Identifier(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(UpperFirst(w))
	}
	id := b.String()
	if id == "" {
		return ""
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "X" + id
	}
	return id
}

// IsIdentifier reports whether s is a valid Go identifier and not a keyword.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}
