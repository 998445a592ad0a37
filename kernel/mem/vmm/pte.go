// Package vmm implements the Sv48 page table, the region-based
// per-process address space built on top of it (MemorySet/MapArea),
// and the helpers that translate a pointer given out by a user
// process into bytes the kernel can read or write directly.
package vmm

import "rvcore/kernel/mem"

// PTEFlag is a single bit of a page table entry's permission byte.
type PTEFlag uint8

// Page table entry permission bits, matching the Sv48 PTE layout.
const (
	FlagV PTEFlag = 1 << 0 // Valid
	FlagR PTEFlag = 1 << 1 // Readable
	FlagW PTEFlag = 1 << 2 // Writable
	FlagX PTEFlag = 1 << 3 // Executable
	FlagU PTEFlag = 1 << 4 // Accessible in U-mode
	FlagG PTEFlag = 1 << 5 // Global
	FlagA PTEFlag = 1 << 6 // Accessed
	FlagD PTEFlag = 1 << 7 // Dirty
)

// PTE is a single Sv48 page table entry: bits [63:10] hold the PPN of
// the frame this entry points to, bits [7:0] hold the flags above.
// Non-leaf entries (the three upper levels of the walk) are only ever
// constructed with FlagV set and R=W=X=0.
type PTE uint64

// NewPTE builds a PTE pointing at ppn with the given flags.
func NewPTE(ppn mem.PhysPageNum, flags PTEFlag) PTE {
	return PTE(uint64(ppn)<<10 | uint64(flags))
}

// PPN returns the physical page number this entry points to.
func (e PTE) PPN() mem.PhysPageNum {
	return mem.PhysPageNum(uint64(e) >> 10)
}

// Flags returns the permission byte of this entry.
func (e PTE) Flags() PTEFlag {
	return PTEFlag(e)
}

// Valid reports whether FlagV is set.
func (e PTE) Valid() bool { return e.Flags()&FlagV != 0 }

// Readable reports whether FlagR is set.
func (e PTE) Readable() bool { return e.Flags()&FlagR != 0 }

// Writable reports whether FlagW is set.
func (e PTE) Writable() bool { return e.Flags()&FlagW != 0 }

// Executable reports whether FlagX is set.
func (e PTE) Executable() bool { return e.Flags()&FlagX != 0 }

// MapPermission is the subset of PTE flags a MapArea assigns to every
// page it owns; V is added automatically when the entry is written.
type MapPermission uint8

// MapPermission bits, a restriction of PTEFlag to the ones a region
// of user or kernel memory can carry.
const (
	PermR MapPermission = 1 << 1
	PermW MapPermission = 1 << 2
	PermX MapPermission = 1 << 3
	PermU MapPermission = 1 << 4
)

func (p MapPermission) pteFlags() PTEFlag {
	return PTEFlag(p) | FlagV
}
