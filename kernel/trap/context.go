// Package trap implements the user/kernel trap boundary: the fixed
// TrapContext layout every trampoline save/restore agrees on, the
// trampoline itself (the one physical page mapped at the same
// virtual address, Trampoline, in every address space so control
// transfer survives the satp switch), and the dispatcher that decides
// what a given scause means.
package trap

// Context is the fixed-layout record the trampoline assembly and the
// Go trap handler both read and write. It always lives at the virtual
// address mem.TrapContext inside whichever address space the
// currently running process owns. Its field order is load-bearing:
// the trampoline assembly indexes into it by raw offset, so adding,
// removing or reordering fields here requires updating
// trampoline_riscv64.s to match.
type Context struct {
	// X holds the 32 general purpose registers x0..x31 as they were
	// (or should be, on resume) at the user/kernel boundary. X[2] is
	// the user stack pointer.
	X [32]uintptr

	// Sstatus is the saved sstatus CSR; SPP tells __restore which
	// privilege level to resume into.
	Sstatus uintptr

	// Sepc is the saved program counter; the instruction a syscall
	// trapped from still has sepc pointing at it, which is why the
	// syscall path advances it by 4 before resuming.
	Sepc uintptr

	// KernelSatp is the kernel address space's satp token, installed
	// by __alltraps before it jumps into the Go trap handler so that
	// handler code runs in a correctly mapped space.
	KernelSatp uintptr

	// KernelSP is the top of this process's kernel-mode stack, i.e.
	// the stack __alltraps switches onto.
	KernelSP uintptr

	// TrapHandler is the address of the Go trap_handler entry point;
	// __alltraps jumps here once it has finished saving state and
	// switching to kernel space.
	TrapHandler uintptr
}

// SetSP sets the saved user stack pointer (the x2/sp register slot).
func (c *Context) SetSP(sp uintptr) {
	c.X[2] = sp
}

// NewAppContext builds the TrapContext a freshly loaded or freshly
// exec'd process resumes into: program counter at entry, stack
// pointer at sp, running in U-mode, with enough kernel-space
// bookkeeping (satp/stack/handler) for the very first trap back in.
func NewAppContext(entry, sp, kernelSatp, kernelSP, trapHandler uintptr) *Context {
	cx := &Context{
		Sstatus:     sstatusForUser(),
		Sepc:        entry,
		KernelSatp:  kernelSatp,
		KernelSP:    kernelSP,
		TrapHandler: trapHandler,
	}
	cx.SetSP(sp)
	return cx
}
