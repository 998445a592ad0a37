package syscall

import (
	"rvcore/kernel/mem/vmm"
	"rvcore/kernel/task"
)

// doExit never returns to the process that called it: it tears the
// process down and gives the hart to whatever's next in the ready
// queue. The int64 return exists only so Dispatch's switch stays
// uniform; nothing ever reads it.
func doExit(exitCode int32) int64 {
	task.ExitCurrentAndRunNext(exitCode)
	return 0
}

func doYield() int64 {
	task.SuspendCurrentAndRunNext()
	return 0
}

// doFork clones the calling process. The parent gets the child's pid
// back; the child's copy of this same syscall returns 0, set directly
// into its cloned TrapContext since Fork already ran by the time the
// child is ever scheduled and can "return" from this call itself.
func doFork() int64 {
	parent := task.CurrentProcess()
	child := parent.Fork()
	if child == nil {
		return -1
	}
	child.TrapContext().X[10] = 0
	task.AddProcess(child)
	return int64(child.Pid)
}

// doExec replaces the calling process's address space with the app
// named by the NUL-terminated string at pathPtr (a user-space
// pointer). Apps are named by numeric id, see task.LoadAppByName.
func doExec(pathPtr uintptr) int64 {
	path, err := vmm.TranslatedStr(task.CurrentUserToken(), pathPtr)
	if err != nil {
		return -1
	}
	elfData, err := task.LoadAppByName(path)
	if err != nil {
		return -1
	}
	task.CurrentProcess().Exec(elfData)
	return 0
}
