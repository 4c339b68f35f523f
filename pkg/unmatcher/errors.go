package unmatcher

import (
	"github.com/KromDaniel/unmatcher/internal/charset"
	"github.com/KromDaniel/unmatcher/internal/generator"
	"github.com/KromDaniel/unmatcher/internal/parser"
)

var (
	// ErrMalformedPattern is matched by every pattern syntax error.
	ErrMalformedPattern = parser.ErrMalformedPattern

	// ErrInvalidGroupReference reports a group name or index that does not
	// exist, too many positional values, or a back reference to a group
	// that has not produced a value.
	ErrInvalidGroupReference = generator.ErrInvalidGroupReference

	// ErrConflictingGroupValue reports one group supplied twice.
	ErrConflictingGroupValue = generator.ErrConflictingGroupValue

	// ErrEmptyCharset reports a character class nothing can satisfy.
	ErrEmptyCharset = charset.ErrEmptyCharset
)

// SyntaxError describes where a pattern failed to parse.
type SyntaxError = parser.SyntaxError

// UnsupportedConstructError reports a construct that cannot be generated,
// such as a lookaround assertion.
type UnsupportedConstructError = generator.UnsupportedConstructError
