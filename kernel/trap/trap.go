package trap

import (
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/cpu"
	"rvcore/kernel/mem"
)

var errTrapFromKernel = &kernel.Error{Module: "trap", Message: "a trap from kernel"}

// scause cause codes this kernel distinguishes. classify compares the
// raw scause value, so interrupt causes carry the interrupt bit (bit
// 63) in their constant.
const (
	causeUserEnvCall        = 8
	causeStoreFault         = 7
	causeStorePageFault     = 15
	causeLoadFault          = 5
	causeLoadPageFault      = 13
	causeInstructionFault   = 1
	causeIllegalInstruction = 2
	interruptBit            = 1 << 63
	causeSupervisorTimer    = interruptBit | 5
)

// Reason classifies a trap for whatever package owns scheduling and
// syscalls; it exists so that package doesn't need to know scause's
// bit layout.
type Reason int

const (
	ReasonSyscall Reason = iota
	ReasonPageFault
	ReasonIllegalInstruction
	ReasonTimer
	ReasonUnknown
)

func classify(scause uintptr) Reason {
	switch scause {
	case causeUserEnvCall:
		return ReasonSyscall
	case causeStoreFault, causeStorePageFault, causeLoadFault, causeLoadPageFault, causeInstructionFault:
		return ReasonPageFault
	case causeIllegalInstruction:
		return ReasonIllegalInstruction
	case causeSupervisorTimer:
		return ReasonTimer
	default:
		return ReasonUnknown
	}
}

// Handler is dispatched from trapHandlerEntry on every trap taken
// while TrapReturn has handed control to a user process. It is set
// once at boot by whatever package owns process scheduling; trap
// itself never imports that package, which is what breaks the
// otherwise circular trap<->task dependency.
var Handler func(reason Reason, scause, stval uintptr)

// trapHandlerEntry is the actual landing pad __alltraps jumps to (via
// its address, fetched through trapHandlerEntryAddr). It runs with
// the kernel's satp and stack already installed by the trampoline.
// The first thing it does is repoint stvec at kernelTrapEntry: from
// here until TrapReturn hands the hart back to a process, any further
// trap is necessarily a bug in the kernel itself, not something a
// user trampoline bounce should try to field.
func trapHandlerEntry() {
	SetKernelTrapEntry()
	scause := cpu.ReadScause()
	stval := cpu.ReadStval()
	reason := classify(scause)
	if Handler == nil {
		// Nothing has registered a handler yet; there is nothing
		// sensible to do but spin, since kernel.Panic's console
		// output depends on state the earliest boot code hasn't
		// necessarily set up.
		for {
			cpu.Halt()
		}
	}
	Handler(reason, scause, stval)
}

// kernelTrapEntry is stvec's target whenever the hart is running
// kernel code (between SetKernelTrapEntry and the next
// SetUserTrapEntry). A trap reaching it means the kernel itself
// faulted or took an unexpected interrupt with no trampoline state to
// recover through, so it is unconditionally fatal.
func kernelTrapEntry() {
	kernel.Panic(errTrapFromKernel)
}

// HandlerEntryAddr returns the linked address of trapHandlerEntry.
// task stores it in every fresh process's TrapContext so __alltraps
// knows where to jump once it has saved state and switched stacks.
func HandlerEntryAddr() uintptr {
	return trapHandlerEntryAddr()
}

// SetKernelTrapEntry points stvec at kernelTrapEntry, bypassing the
// trampoline's satp dance entirely. Used both at boot, before any
// process exists, and at the start of every trapHandlerEntry call, so
// a trap taken while the kernel itself is executing panics
// deterministically instead of re-entering the user trampoline path.
func SetKernelTrapEntry() {
	cpu.WriteStvec(kernelTrapEntryAddr())
}

// SetUserTrapEntry points stvec at mem.Trampoline, not at __alltraps'
// own kernel-linked address: the instant a trap is taken, the hart is
// still running under the trapping process's own page table, which
// maps the trampoline frame only at mem.Trampoline. __alltraps'
// link-time address is a plain kernel-space VA and is not mapped
// there at all.
func SetUserTrapEntry() {
	cpu.WriteStvec(mem.Trampoline)
}

// restoreFunc matches __restore's calling convention: a0 is the
// Context address, a1 is the user address space's satp token. It
// never returns in the Go sense; sret drops the hart into U-mode.
type restoreFunc func(cxAddr, userSatp uintptr)

// TrapReturn resumes cx in the address space named by userSatp,
// switching stvec to the user entry point first since the next trap
// taken will be from that process. It does not return; it is the
// tail of whatever function schedules a process onto the hart.
//
// It must jump to __restore through its trampoline-aliased address
// (mem.Trampoline + RestoreOffset), not its kernel-linked one:
// __restore's own first act is to switch satp to userSatp, and from
// that instruction onward every fetch is resolved against the user
// page table, which only maps this code at mem.Trampoline.  Jumping
// in at the kernel-linked address would fault on the very next fetch
// after the satp switch.
func TrapReturn(cx *Context, userSatp uintptr) {
	SetUserTrapEntry()
	addr := mem.Trampoline + RestoreOffset()
	restore := *(*restoreFunc)(unsafe.Pointer(&addr))
	restore(uintptr(unsafe.Pointer(cx)), userSatp)
}

// RestoreOffset returns __restore's byte offset from __alltraps, the
// quantity TrapReturn needs to compute where __restore lives once the
// trampoline page has been remapped to mem.Trampoline in a given
// address space (the two functions are emitted next to each other,
// so the offset survives the remap even though the absolute
// addresses don't).
func RestoreOffset() uintptr {
	return restoreAddr() - alltrapsAddr()
}
