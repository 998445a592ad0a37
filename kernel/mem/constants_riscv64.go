// Package mem holds the address-space layout constants and the
// address/page-number types every other kernel package builds on:
// physical frames, page tables, map areas and the trampoline all speak
// in terms of VirtAddr/PhysAddr/VirtPageNum/PhysPageNum rather than
// raw uintptr, so a mistaken VA-as-PA mixup is caught by the type
// checker instead of at runtime.
package mem

const (
	// PageOffsetBits is the number of low bits an Sv48 address spends
	// on the in-page offset.
	PageOffsetBits = 12

	// PageSize is the size in bytes of a single page/frame.
	PageSize = 1 << PageOffsetBits

	// paWidth is the number of significant bits in a physical address.
	paWidth = 56

	// ppnWidth is the number of bits in a physical page number.
	ppnWidth = paWidth - PageOffsetBits

	// vaWidthSv48 is the number of significant bits in an Sv48 virtual
	// address, before canonical sign extension.
	vaWidthSv48 = 48

	// vpnWidthSv48 is the number of bits in an Sv48 virtual page
	// number.
	vpnWidthSv48 = vaWidthSv48 - PageOffsetBits
)

// Layout constants shared by the trap, task and memory subsystems.
const (
	// KernelHeapSize backs the kernel's own allocator arena.
	KernelHeapSize = 0x20_0000 // 2 MiB

	// MemoryEnd is the exclusive upper bound of the physical RAM the
	// frame allocator may hand out. Physical memory from ekernel to
	// this address is available; everything above it is not backed by
	// real RAM on the platform this kernel targets.
	MemoryEnd = 0x80800000

	// UserStackSize is the size of the stack mapped into a process's
	// own address space.
	UserStackSize = 0x4000 // 16 KiB

	// KernelStackSize is the size of the kernel-mode stack allocated
	// per process inside kernel space.
	KernelStackSize = 0x4000 // 16 KiB

	// Trampoline is the top virtual page of every address space. It is
	// mapped to the same physical frame (the one holding __alltraps /
	// __restore) in both kernel and every user MemorySet so the trap
	// entry/exit code keeps executing correctly across the satp switch.
	Trampoline = ^uintptr(0) - PageSize + 1

	// TrapContext is the virtual page directly below Trampoline where a
	// process's TrapContext is mapped inside its own address space.
	TrapContext = Trampoline - PageSize

	// MaxAppNum bounds the number of applications the embedded app
	// table may describe.
	MaxAppNum = 16

	// ClockFreq is the frequency, in Hz, of the CSR `time` counter on
	// the target platform.
	ClockFreq = 12500000

	// TicksPerSec is the number of scheduler ticks requested per
	// second; ClockFreq/TicksPerSec is the raw cycle quantum between
	// two timer interrupts.
	TicksPerSec = 100
)
