package interp

import "github.com/corvidae-lang/gawk/internal/types"

// Non-local control flow is modeled as Go errors, matching the
// sentinel-error idiom used elsewhere for control signals: loops check for
// errBreak/errContinue, the function dispatcher checks for *returnSignal,
// and the pattern/action driver checks for errNext/errNextFile/*exitSignal.
var (
	errBreak    = &controlSignal{"break"}
	errContinue = &controlSignal{"continue"}
	errNext     = &controlSignal{"next"}
	errNextFile = &controlSignal{"nextfile"}
)

type controlSignal struct{ name string }

func (s *controlSignal) Error() string { return s.name + " outside of loop or rule" }

// returnSignal carries a function's return value up through execute/eval.
type returnSignal struct{ value types.Value }

func (s *returnSignal) Error() string { return "return outside of function" }

// exitSignal carries the exit code from an exit statement up to the driver.
type exitSignal struct{ code int }

func (s *exitSignal) Error() string { return "exit" }
