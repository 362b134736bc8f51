package drawdance

import "errors"

// ErrSnapshotFailed wraps the error history returns for a snapshot
// request it cannot serve (no save-point callback is configured):
// logged at warning, with no retry. Invalid input and
// resource exhaustion are programming errors that panic via assert
// below rather than return; this is the one failure kind on the paint
// thread's void-returning internal-message path that still has
// something worth naming for `errors.Is` at its one call site
// (internal_messages.go).
var ErrSnapshotFailed = errors.New("drawdance: snapshot request failed")

func assert(cond bool, msg string) {
	if !cond {
		panic("drawdance: " + msg)
	}
}
