// Package syscall is the dispatch table behind every ecall a process
// makes: decode the id in a7, route to the matching sys_* function,
// and hand the result back as the a0 return value. Wired into
// task.SyscallDispatch by kmain, since task owns the process state
// every syscall here ultimately reads or mutates.
package syscall

import (
	"rvcore/kernel/kfmt/early"
	"rvcore/kernel/task"
)

const (
	sysRead  = 63
	sysWrite = 64
	sysExit  = 93
	sysYield = 124
	sysFork  = 220
	sysExec  = 221
)

func init() {
	task.SyscallDispatch = Dispatch
}

// Dispatch routes id/args to the matching syscall implementation. Any
// id this kernel doesn't recognize kills the calling process (there
// is no /dev/null to silently swallow it into); it does not halt the
// kernel itself.
func Dispatch(id uintptr, args [3]uintptr) int64 {
	switch id {
	case sysRead:
		return doRead(int(args[0]), args[1], args[2])
	case sysWrite:
		return doWrite(int(args[0]), args[1], args[2])
	case sysExit:
		return doExit(int32(args[0]))
	case sysYield:
		return doYield()
	case sysFork:
		return doFork()
	case sysExec:
		return doExec(args[0])
	default:
		early.Printf("unsupported syscall id %d\n", id)
		task.ExitCurrentAndRunNext(-1)
		return -1
	}
}
