// Package interp walks a parsed AWK program directly, without compiling it
// to bytecode first.
package interp

import (
	"fmt"

	"github.com/corvidae-lang/gawk/internal/token"
)

// ProgramError reports a structural mistake: a control-flow statement used
// outside the context that gives it meaning, or a pattern/action sequencing
// violation caught too late for the semantic checker to see (e.g. produced
// through a dynamically-built call).
type ProgramError struct {
	Pos     token.Position
	Message string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s: program error: %s", e.Pos, e.Message)
}

// TypeError reports a scalar used as an array, an array used as a scalar,
// or a value that cannot be coerced the way an operator demands.
type TypeError struct {
	Pos     token.Position
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: type error: %s", e.Pos, e.Message)
}

// IndexError reports a field or array index that the language defines as
// an error rather than a silent no-op (e.g. deleting a key that is absent,
// or a negative field index).
type IndexError struct {
	Pos     token.Position
	Message string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index error: %s", e.Pos, e.Message)
}

// ArgumentError reports a built-in or user function called with the wrong
// number or shape of arguments, caught at call time.
type ArgumentError struct {
	Pos     token.Position
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument error: %s", e.Pos, e.Message)
}
