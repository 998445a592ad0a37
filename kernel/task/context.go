package task

// Context is the callee-saved register set __switch exchanges when
// moving the hart from one process (or the idle loop) to another: ra,
// sp, and the twelve s-registers. Everything caller-saved is the
// compiler's problem, not the scheduler's, because a context switch
// only ever happens across an ordinary function call boundary.
type Context struct {
	RA uintptr
	SP uintptr
	S  [12]uintptr
}

// ZeroContext returns a Context with every register slot zero.
// RunProcesses does not use it: it saves into the processor's own idle
// context instead.
func ZeroContext() Context {
	return Context{}
}

// GotoTrapReturn builds the TaskContext a freshly created or freshly
// forked process's PCB starts with: ra points at trapReturnEntry, so
// the first time this process is switched onto the hart, returning
// from switchContext lands in trapReturnEntry instead of back in
// whatever Go code called switchContext.
func GotoTrapReturn(kernelStackTop uintptr) Context {
	return Context{RA: trapReturnEntryAddr(), SP: kernelStackTop}
}

// switchContext saves the caller's callee-saved registers into
// current, loads next's, and returns. The two calls to switchContext
// that bracket a process's lifetime on the hart don't actually return
// to the same place: the first lands in trapReturnEntry (via
// GotoTrapReturn), and from then on each switchContext call resumes
// exactly where the matching earlier one left off, same as any other
// coroutine-style context switch.
func switchContext(current, next *Context)

// trapReturnEntryAddr returns the linked address of trapReturnEntry
// (entry_riscv64.s), used as the ra a fresh process's context starts
// with.
func trapReturnEntryAddr() uintptr
