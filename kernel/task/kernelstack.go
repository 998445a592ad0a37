package task

import "rvcore/kernel/mem"

// KernelStack is the kernel-mode stack window a process's pid reserves
// in the kernel address space. It is mapped eagerly when the process
// is created and, like the pid itself, is never unmapped: there is no
// wait/reap syscall to hang the release off of (spec.md §9).
type KernelStack struct {
	pid Pid
}

// NewKernelStack maps pid's stack window into the kernel's address
// space and returns a handle to it.
func NewKernelStack(pid Pid) KernelStack {
	bottom, top := kernelStackWindow(pid)
	KernelSpace.lock.Acquire()
	KernelSpace.set.InsertFramedArea(mem.VirtAddr(bottom), mem.VirtAddr(top), kernelStackPermission)
	KernelSpace.lock.Release()
	return KernelStack{pid: pid}
}

// Top returns the stack pointer a freshly created process should
// start executing kernel code with.
func (ks KernelStack) Top() uintptr {
	_, top := kernelStackWindow(ks.pid)
	return top
}
