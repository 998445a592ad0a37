package vmm

import (
	"rvcore/kernel"
	"rvcore/kernel/cpu"
	"rvcore/kernel/mem"
)

// Kernel image section boundaries. A real boot sequence gets these
// from the linker script; kmain populates them before calling
// NewKernel since that step is outside this repository's scope.
var (
	Stext, Etext        uintptr
	Srodata, Erodata    uintptr
	Sdata, Edata        uintptr
	SbssWithStack, Ebss uintptr
	Ekernel             uintptr
	Strampoline         uintptr
)

// MemorySet owns a page table and the ordered list of MapAreas that
// populate it. Every address space in this kernel, from the kernel's
// own to each process's user space, is one of these.
type MemorySet struct {
	pt    *PageTable
	areas []*MapArea
}

// NewBare returns an empty address space with a freshly allocated,
// empty root page table.
func NewBare() *MemorySet {
	return &MemorySet{pt: NewPageTable()}
}

// NewKernel builds the kernel's own address space: the trampoline
// page plus one Identical area per linker-defined section, plus an
// Identical area covering all remaining physical RAM so the kernel
// can dereference any physical address as if it were virtual.
func NewKernel() *MemorySet {
	ms := NewBare()
	ms.mapTrampoline()

	ms.Push(NewMapArea(mem.VirtAddr(Stext), mem.VirtAddr(Etext), Identical, PermR|PermX), nil)
	ms.Push(NewMapArea(mem.VirtAddr(Srodata), mem.VirtAddr(Erodata), Identical, PermR), nil)
	ms.Push(NewMapArea(mem.VirtAddr(Sdata), mem.VirtAddr(Edata), Identical, PermR|PermW), nil)
	ms.Push(NewMapArea(mem.VirtAddr(SbssWithStack), mem.VirtAddr(Ebss), Identical, PermR|PermW), nil)
	ms.Push(NewMapArea(mem.VirtAddr(Ekernel), mem.VirtAddr(mem.MemoryEnd), Identical, PermR|PermW), nil)

	return ms
}

// FromELF builds the address space for a freshly loaded user program:
// the trampoline, one Framed area per PT_LOAD segment, a guarded user
// stack right after the highest loaded page, and the TrapContext
// page. It returns the constructed set together with the initial
// user stack pointer and entry point the caller needs to seed a fresh
// TrapContext.
func FromELF(data []byte) (ms *MemorySet, userSP uintptr, entry uintptr, err *kernel.Error) {
	img, perr := parseELF(data)
	if perr != nil {
		return nil, 0, 0, perr
	}

	ms = NewBare()
	ms.mapTrampoline()

	var maxEndVPN mem.VirtPageNum
	for _, ph := range img.phdrs {
		if ph.Type != ptLoad {
			continue
		}
		startVA := mem.VirtAddr(ph.VAddr)
		endVA := mem.VirtAddr(ph.VAddr + ph.MemSz)
		area := NewMapArea(startVA, endVA, Framed, ph.permission()|PermU)
		maxEndVPN = area.Range.End
		ms.Push(area, img.data[ph.Offset:ph.Offset+ph.FileSz])
	}

	userStackBottom := uintptr(maxEndVPN.Addr()) + mem.PageSize // guard page
	userStackTop := userStackBottom + mem.UserStackSize
	ms.Push(NewMapArea(mem.VirtAddr(userStackBottom), mem.VirtAddr(userStackTop), Framed, PermR|PermW|PermU), nil)

	ms.Push(NewMapArea(mem.VirtAddr(mem.TrapContext), mem.VirtAddr(mem.Trampoline), Framed, PermR|PermW), nil)

	return ms, userStackTop, uintptr(img.entry), nil
}

// Clone deep-copies src into a fresh address space: same areas, same
// permissions, and for every Framed area a byte-for-byte copy of its
// backing frames (freshly allocated ones, not shared). It is the
// address-space half of fork.
func Clone(src *MemorySet) *MemorySet {
	ms := NewBare()
	ms.mapTrampoline()

	for _, area := range src.areas {
		startVA := area.Range.Start.Addr()
		endVA := area.Range.End.Addr()
		newArea := NewMapArea(startVA, endVA, area.Type, area.Perm)
		ms.Push(newArea, nil)

		if area.Type != Framed {
			continue
		}
		area.Range.ForEach(func(vpn mem.VirtPageNum) {
			srcPTE, err := src.pt.Translate(vpn)
			if err != nil {
				kernel.Panic(err)
				return
			}
			dstPTE, err := ms.pt.Translate(vpn)
			if err != nil {
				kernel.Panic(err)
				return
			}
			copy(framePageBytes(dstPTE.PPN()), framePageBytes(srcPTE.PPN()))
		})
	}

	return ms
}

// Push maps area into the address space's page table and, if data is
// non-nil, copies it into the area's backing frames. area becomes
// owned by the MemorySet.
func (ms *MemorySet) Push(area *MapArea, data []byte) {
	if err := area.Map(ms.pt); err != nil {
		kernel.Panic(err)
		return
	}
	if data != nil {
		area.CopyData(ms.pt, data)
	}
	ms.areas = append(ms.areas, area)
}

// InsertFramedArea is Push specialized for the common case of mapping
// a fresh Framed region with no initial contents, used by the kernel
// to carve out each process's kernel-mode stack window.
func (ms *MemorySet) InsertFramedArea(startVA, endVA mem.VirtAddr, perm MapPermission) {
	ms.Push(NewMapArea(startVA, endVA, Framed, perm), nil)
}

// Release frees every frame this address space owns: each Framed
// area's backing pages, then the page table's own root and
// intermediate-level frames. Callers must guarantee nothing will
// translate through ms again once this returns — in particular, it
// must never be the currently active satp. Used when a process's
// memory set is replaced wholesale, as Exec does; a process's memory
// set at ordinary exit is deliberately left unreleased (spec.md §9).
func (ms *MemorySet) Release() {
	for _, area := range ms.areas {
		area.releaseFrames()
	}
	ms.areas = nil
	ms.pt.releaseFrames()
}

// Translate returns the leaf PTE mapping vpn in this address space.
func (ms *MemorySet) Translate(vpn mem.VirtPageNum) (PTE, *kernel.Error) {
	return ms.pt.Translate(vpn)
}

// SatpToken returns the satp value that activates this address space.
func (ms *MemorySet) SatpToken() uintptr {
	return ms.pt.SatpToken()
}

// Activate installs this address space's page table as the running
// one and flushes the TLB.
func (ms *MemorySet) Activate() {
	cpu.WriteSatp(ms.SatpToken())
}

func (ms *MemorySet) mapTrampoline() {
	trampolineVPN := mem.VirtAddr(mem.Trampoline).FloorVPN()
	trampolinePPN := mem.PhysAddr(Strampoline).FloorPPN()
	if err := ms.pt.Map(trampolineVPN, trampolinePPN, FlagR|FlagX); err != nil {
		kernel.Panic(err)
	}
}
