package task

import (
	"rvcore/kernel/sbi"
	"rvcore/kernel/sync"
	"rvcore/kernel/trap"
)

// processor is the single hart's view of what's running: the process
// currently on-CPU, if any, and the idle loop's own saved context
// (what RunProcesses returns into between processes).
type processor struct {
	lock    sync.Spinlock
	current *Process
	idleCx  Context
}

var proc processor

// RunProcesses is the scheduler's idle loop: repeatedly pop the ready
// queue and switch onto whatever it hands back. It never returns; once
// the ready queue is permanently empty there is nothing left to run.
func RunProcesses() {
	for {
		p := fetch()
		if p == nil {
			sbi.Shutdown(false)
			return
		}

		p.setStatus(StatusRunning)
		next := p.taskCxPtr()

		proc.lock.Acquire()
		proc.current = p
		idle := &proc.idleCx
		proc.lock.Release()

		switchContext(idle, next)
	}
}

// CurrentProcess returns the process currently on the hart. Callers
// only reach it from code running on behalf of that process (a
// syscall, a trap), so it is always non-nil there.
func CurrentProcess() *Process {
	proc.lock.Acquire()
	defer proc.lock.Release()
	return proc.current
}

// CurrentTrapContext is a shortcut for CurrentProcess().TrapContext().
func CurrentTrapContext() *trap.Context {
	return CurrentProcess().TrapContext()
}

// CurrentUserToken is a shortcut for CurrentProcess().UserToken().
func CurrentUserToken() uintptr {
	return CurrentProcess().UserToken()
}

// Schedule gives the hart back to the idle loop, saving the caller's
// register state into switchedCx first. suspend/exit use this to hand
// control back to RunProcesses once they've updated the ready queue
// or torn down the exiting process.
func Schedule(switchedCx *Context) {
	proc.lock.Acquire()
	idle := &proc.idleCx
	proc.lock.Release()
	switchContext(switchedCx, idle)
}
