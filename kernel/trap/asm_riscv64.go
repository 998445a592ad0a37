package trap

// alltrapsAddr and restoreAddr return the linked addresses of the
// trampoline's two entry points (trampoline_riscv64.s). Both are
// needed as plain values to compute the TRAMPOLINE-relative offset
// __restore sits at once the trampoline page has been remapped to
// mem.Trampoline in every address space (stvec itself is programmed
// with mem.Trampoline, not with either linked address).
func alltrapsAddr() uintptr

func restoreAddr() uintptr

// trapHandlerEntryAddr returns the linked address of
// trapHandlerEntry (entry_riscv64.s), the landing pad __alltraps
// jumps to once it has switched onto the kernel stack.
func trapHandlerEntryAddr() uintptr

// kernelTrapEntryAddr returns the linked address of kernelTrapEntry
// (entry_riscv64.s), stvec's target whenever the hart is executing
// kernel code rather than having just trapped in from a process.
func kernelTrapEntryAddr() uintptr
