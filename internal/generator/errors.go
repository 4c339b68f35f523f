package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGroupReference is returned when a group name or index does not
	// exist, or when a back reference reads a slot nothing has written.
	ErrInvalidGroupReference = errors.New("invalid group reference")

	// ErrConflictingGroupValue is returned when one group is given two values.
	ErrConflictingGroupValue = errors.New("conflicting group value")
)

// UnsupportedConstructError reports a node the generator deliberately does
// not handle. Kind is "assert" or "assert_not" for lookarounds, with
// Direction set to "lookahead" or "lookbehind"; for any other node Kind is
// the node's type and Direction is empty.
type UnsupportedConstructError struct {
	Kind      string
	Direction string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Direction != "" {
		return fmt.Sprintf("unsupported construct %s (%s)", e.Kind, e.Direction)
	}
	return fmt.Sprintf("unsupported construct %s", e.Kind)
}
