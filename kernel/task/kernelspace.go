package task

import (
	"rvcore/kernel/mem/vmm"
	"rvcore/kernel/sync"
)

const kernelStackPermission = vmm.PermR | vmm.PermW

// kernelAddressSpace wraps the kernel's MemorySet in a lock: every
// process's kernel stack window lives in this one address space, and
// a timer interrupt landing mid-update would otherwise see it
// half-modified.
type kernelAddressSpace struct {
	lock sync.Spinlock
	set  *vmm.MemorySet
}

// KernelSpace is the single kernel address space shared by every
// process while it runs in S-mode. InitKernelSpace must be called
// once at boot before any process is created.
var KernelSpace kernelAddressSpace

// InitKernelSpace builds and activates the kernel's own address
// space. Must run after vmm's linker-symbol stand-ins have been
// populated.
func InitKernelSpace() {
	KernelSpace.lock.Acquire()
	KernelSpace.set = vmm.NewKernel()
	KernelSpace.lock.Release()
	KernelSpace.set.Activate()
}

// KernelSatpToken returns the satp value for the kernel address space,
// the one every TrapContext stashes so __alltraps can switch back to
// it on the way in.
func KernelSatpToken() uintptr {
	KernelSpace.lock.Acquire()
	defer KernelSpace.lock.Release()
	return KernelSpace.set.SatpToken()
}
