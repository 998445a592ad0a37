package task

import (
	"rvcore/kernel/kfmt/early"
	"rvcore/kernel/timer"
	"rvcore/kernel/trap"
)

// SyscallDispatch is wired up by kmain to syscall.Dispatch once both
// packages have initialized. task cannot import syscall directly:
// syscall needs to call back into task (fork/exec/exit), so the
// dependency has to run the other way, the same way trap.Handler
// breaks the trap<->task cycle.
var SyscallDispatch func(id uintptr, args [3]uintptr) int64

// Dispatch is registered as trap.Handler once boot has a ready queue
// to schedule into: decide what kind of trap this was, react, and
// tail into trap.TrapReturn rather than ever returning normally. The
// SuspendCurrentAndRunNext/ExitCurrentAndRunNext paths switch the hart
// away first; when a suspended process is later switched back on, it
// resumes here and reaches the same TrapReturn.
func Dispatch(reason trap.Reason, scause, stval uintptr) {
	switch reason {
	case trap.ReasonSyscall:
		cx := CurrentTrapContext()
		cx.Sepc += 4
		id := cx.X[17]
		args := [3]uintptr{cx.X[10], cx.X[11], cx.X[12]}
		ret := SyscallDispatch(id, args)
		// Re-fetch: an exec syscall may have swapped out the
		// TrapContext this process's trapCxPPN points at.
		cx = CurrentTrapContext()
		cx.X[10] = uintptr(ret)
	case trap.ReasonPageFault:
		early.Printf("page fault in application, killed\n")
		ExitCurrentAndRunNext(-2)
	case trap.ReasonIllegalInstruction:
		early.Printf("illegal instruction in application, killed\n")
		ExitCurrentAndRunNext(-3)
	case trap.ReasonTimer:
		timer.SetNextTrigger()
		SuspendCurrentAndRunNext()
	default:
		early.Printf("unsupported trap, scause=%x stval=%x\n", scause, stval)
		ExitCurrentAndRunNext(-1)
	}
	trap.TrapReturn(CurrentTrapContext(), CurrentUserToken())
}
