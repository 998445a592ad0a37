// Package cpu contains the architecture-specific primitives every
// other kernel package is built on top of: CSR access, TLB
// maintenance, the raw SBI ecall and hart control. Each function here
// has no Go body; its implementation lives in the matching .s file.
package cpu

// Ecall performs an SBI ecall with the given extension/function ids
// and up to three arguments, returning the (error, value) pair the SBI
// calling convention places in a0/a1. Every console, timer and
// shutdown operation in the sbi package is built on top of this.
func Ecall(ext, fid uintptr, arg0, arg1, arg2 uintptr) (uintptr, uintptr)

// ReadTime returns the raw `time` CSR, a free-running cycle counter
// driven by the platform clock.
func ReadTime() uint64

// ReadSatp returns the current satp CSR value.
func ReadSatp() uintptr

// WriteSatp installs a new satp CSR value and executes an sfence.vma
// so the MMU observes it immediately.
func WriteSatp(satp uintptr)

// SfenceVMA flushes the entire TLB. It is used whenever a page table
// mapping is installed, removed or re-pointed.
func SfenceVMA()

// EnableTimerInterrupt sets the STIE bit in sie so supervisor-timer
// interrupts are delivered.
func EnableTimerInterrupt()

// EnableInterrupts sets SIE in sstatus.
func EnableInterrupts()

// DisableInterrupts clears SIE in sstatus.
func DisableInterrupts()

// ReadSstatus returns the current sstatus CSR value.
func ReadSstatus() uintptr

// Halt parks the hart in an infinite wfi loop. Used as the absolute
// last resort when even an SBI shutdown should somehow not return.
func Halt()

// ReadScause returns the scause CSR: the reason the most recent trap
// was taken, with the interrupt bit in the top bit of the word.
func ReadScause() uintptr

// ReadStval returns the stval CSR: trap-specific auxiliary
// information (the faulting address for a page fault, the bad
// instruction bits for an illegal instruction, and so on).
func ReadStval() uintptr

// WriteStvec installs the supervisor trap vector. addr must be
// 4-byte aligned; mode 0 selects Direct (all traps go to addr), the
// only mode this kernel uses.
func WriteStvec(addr uintptr)
