package task

// SuspendCurrentAndRunNext moves the current process back to Ready,
// re-enqueues it at the back of the ready queue, and gives the hart
// back to RunProcesses. Used for both voluntary yields and timer
// preemption.
func SuspendCurrentAndRunNext() {
	p := CurrentProcess()
	p.setStatus(StatusReady)
	cx := p.taskCxPtr()
	AddProcess(p)
	Schedule(cx)
}

// ExitCurrentAndRunNext marks the current process Exited with the
// given code and gives the hart back to RunProcesses. It never
// returns to the exiting process. The PCB itself, and the kernel
// stack window its pid reserved, are left exactly where they are:
// there is no wait/reap syscall to release them through, and freeing
// the window here without one would just let a future pid collide
// with a still-mapped stack (see task.ReleasePid's doc comment).
func ExitCurrentAndRunNext(exitCode int32) {
	p := CurrentProcess()
	p.setExitCode(exitCode)
	p.setStatus(StatusExited)

	var unused Context
	Schedule(&unused)
}
