package kernel

import (
	"rvcore/kernel/kfmt/early"
	"rvcore/kernel/sbi"
)

var (
	// shutdownFn is the halt step Panic ends with, held in a variable
	// so it can be replaced without touching Panic itself.
	shutdownFn = sbi.Shutdown

	errUnknownPanicCause = &Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints the supplied error, if any, to the early console and
// performs an SBI shutdown with a failure reason. Calls to Panic never
// return. It is the target every invariant violation in this codebase
// (double free, remap of a valid PTE, bad PID, ...) funnels into.
func Panic(e interface{}) {
	var err *Error

	switch t := e.(type) {
	case *Error:
		err = t
	case string:
		err = &Error{Module: "rt", Message: t}
	case error:
		err = &Error{Module: "rt", Message: t.Error()}
	case nil:
		err = nil
	default:
		err = errUnknownPanicCause
	}

	early.Printf("\n-----------------------------------\n")
	if err != nil {
		early.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	early.Printf("*** kernel panic: system halted ***\n")
	early.Printf("-----------------------------------\n")

	shutdownFn(true)
}
