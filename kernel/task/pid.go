// Package task owns process lifecycle: PID allocation, per-process
// kernel stacks, the PCB, the ready queue and the single-hart
// processor that runs whichever process the queue hands it.
package task

import (
	"rvcore/kernel"
	"rvcore/kernel/mem"
	"rvcore/kernel/sync"
)

var (
	errPidAlreadyReleased = &kernel.Error{Module: "task", Message: "pid is already deallocated"}
	errPidOutOfRange      = &kernel.Error{Module: "task", Message: "invalid pid"}

	// panicFn is mocked by tests throughout this package so a fatal
	// condition (bad pid, unmappable ELF, ...) can be observed without
	// actually halting the test binary.
	panicFn = kernel.Panic
)

// Pid is an allocated process id. It carries no methods of its own and
// Go has no destructor to give it back automatically: only an explicit
// ReleasePid call records it as free, and the exit path does not make
// that call (see ExitCurrentAndRunNext).
type Pid int

type pidAllocator struct {
	lock     sync.Spinlock
	maxUsed  int
	recycled []int
}

var pids pidAllocator

// AllocPid hands out the next process id, starting at 1 (0 is
// reserved so a zero-valued Pid reads as "unset").
func AllocPid() Pid {
	pids.lock.Acquire()
	defer pids.lock.Release()
	pids.maxUsed++
	return Pid(pids.maxUsed)
}

// ReleasePid records pid as free. Recycling is tracked but never
// consulted by AllocPid: the kernel stack window a pid maps is never
// unmapped (see KernelStack), so reusing a pid number would let a new
// process collide with the old one's still-mapped stack. The reuse path is kept
// unreachable rather than removed, as a known, deliberately preserved
// limitation.
func ReleasePid(pid Pid) {
	pids.lock.Acquire()
	defer pids.lock.Release()
	if pid <= 0 || int(pid) > pids.maxUsed {
		panicFn(errPidOutOfRange)
		return
	}
	for _, p := range pids.recycled {
		if p == int(pid) {
			panicFn(errPidAlreadyReleased)
			return
		}
	}
	pids.recycled = append(pids.recycled, int(pid))
}

// kernelStackWindow returns the [bottom, top) virtual address range
// this pid's kernel-mode stack occupies in the kernel address space.
// Windows are carved downward from the trampoline, each with an
// unmapped guard page below it so a stack overflow faults instead of
// corrupting the next window down.
func kernelStackWindow(pid Pid) (bottom, top uintptr) {
	top = mem.Trampoline - uintptr(pid)*(mem.KernelStackSize+mem.PageSize)
	bottom = top - mem.KernelStackSize
	return bottom, top
}
