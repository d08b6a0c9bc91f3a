package compiler

import (
	"fmt"

	"kekpiler/internal/diag"
)

// Error is returned by Compile when an error severity diagnostic aborted
// the compilation.
type Error struct {
	Stage      string
	Diagnostic diag.Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Diagnostic.String())
}
