// Package kmain is the kernel's entrypoint: it wires every subsystem
// together in the one order that makes each step's preconditions hold
// and then hands the hart to the scheduler for good.
package kmain

import (
	"rvcore/kernel"
	"rvcore/kernel/cpu"
	"rvcore/kernel/goruntime"
	"rvcore/kernel/hal"
	"rvcore/kernel/kfmt/early"
	"rvcore/kernel/mem"
	"rvcore/kernel/mem/frame"
	"rvcore/kernel/mem/vmm"
	"rvcore/kernel/sbi"
	"rvcore/kernel/syscall"
	"rvcore/kernel/task"
	"rvcore/kernel/trap"
)

// BootInfo carries the handful of addresses a real linker script would
// otherwise supply: the kernel image's section boundaries and the
// location of the embedded app table. SBI firmware hands the kernel
// nothing like this, so whatever assembles the final image (see
// tools/mkapps) is responsible for baking these in before Kmain runs.
type BootInfo struct {
	Stext, Etext        uintptr
	Srodata, Erodata    uintptr
	Sdata, Edata        uintptr
	SbssWithStack, Ebss uintptr
	Ekernel             uintptr
	Strampoline         uintptr
	NumAppTable         uintptr
}

// Kmain brings the kernel up to the point of running its first
// process and never returns: task.RunProcesses ends every call path
// either by switching into a process or by halting through SBI.
// The order below mirrors rust_main's: clear BSS, init logging,
// memory (heap, frames, kernel space), trap, then run processes.
func Kmain(info BootInfo) {
	clearBSS(info)

	hal.ActiveConsole = sbi.Console{}
	early.Printf("booting: stext=%x etext=%x\n", info.Stext, info.Etext)
	early.Printf("booting: srodata=%x erodata=%x\n", info.Srodata, info.Erodata)
	early.Printf("booting: sdata=%x edata=%x\n", info.Sdata, info.Edata)
	early.Printf("booting: sbss=%x ebss=%x\n", info.SbssWithStack, info.Ebss)

	mem.InitHeap()
	goruntime.Init()

	vmm.Stext, vmm.Etext = info.Stext, info.Etext
	vmm.Srodata, vmm.Erodata = info.Srodata, info.Erodata
	vmm.Sdata, vmm.Edata = info.Sdata, info.Edata
	vmm.SbssWithStack, vmm.Ebss = info.SbssWithStack, info.Ebss
	vmm.Ekernel = info.Ekernel
	vmm.Strampoline = info.Strampoline

	frame.Init(mem.PhysAddr(info.Ekernel).CeilPPN(), mem.PhysAddr(mem.MemoryEnd).FloorPPN())
	task.InitKernelSpace()

	trap.Handler = task.Dispatch
	task.SyscallDispatch = syscall.Dispatch
	trap.SetKernelTrapEntry()

	task.NumAppTable = info.NumAppTable
	task.InitAppManager()

	spawnFirstProcess()

	task.RunProcesses()
}

// clearBSS zeroes the kernel's own BSS the way a crt0 normally would,
// since this kernel builds without one. KernelStackSize-sized boot
// stack pages preceding SbssWithStack are left alone; by the time
// Kmain runs the Go scheduler already depends on the boot stack
// holding live data.
func clearBSS(info BootInfo) {
	kernel.Memset(info.SbssWithStack, 0, info.Ebss-info.SbssWithStack)
}

// spawnFirstProcess loads app 0 out of the embedded app table and
// enqueues it as the system's first runnable process, rather than
// naming a particular "init" app by path (see task/manager.go's doc
// comment on why there is no such wiring to follow here).
func spawnFirstProcess() {
	elfData, err := task.LoadApp(0)
	if err != nil {
		early.Printf("no app in slot 0, nothing to run\n")
		for {
			cpu.Halt()
		}
	}
	p := task.New(elfData)
	task.AddProcess(p)
}
