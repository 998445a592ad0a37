package vmm

import (
	"rvcore/kernel"
	"rvcore/kernel/mem"
	"rvcore/kernel/mem/frame"
)

// MapType distinguishes the two ways a MapArea can back its virtual
// pages with physical frames.
type MapType int

const (
	// Identical maps each virtual page to the physical page number
	// equal to its own VPN. Used for the kernel's own sections, which
	// run at an address equal to their load address.
	Identical MapType = iota

	// Framed allocates a fresh physical frame per virtual page. Used
	// for anything process-owned: ELF segments, the user stack, the
	// per-process TrapContext page.
	Framed
)

// MapArea is a contiguous run of virtual pages sharing one MapType and
// MapPermission. A MemorySet owns an ordered list of these; together
// they are the full picture of what a process's address space
// contains.
type MapArea struct {
	Range mem.VPNRange
	Type  MapType
	Perm  MapPermission

	// frames holds the Framed area's own trackers, keyed by vpn. It is
	// empty for Identical areas, which never own the frames they map.
	frames map[mem.VirtPageNum]*frame.Tracker
}

// NewMapArea builds a MapArea covering [startVA, endVA), rounding the
// start down and the end up to page boundaries.
func NewMapArea(startVA, endVA mem.VirtAddr, typ MapType, perm MapPermission) *MapArea {
	return &MapArea{
		Range:  mem.VPNRange{Start: startVA.FloorVPN(), End: endVA.CeilVPN()},
		Type:   typ,
		Perm:   perm,
		frames: make(map[mem.VirtPageNum]*frame.Tracker),
	}
}

// mapOnePage installs the translation for vpn into pt, allocating a
// frame first if this is a Framed area.
func (a *MapArea) mapOnePage(pt *PageTable, vpn mem.VirtPageNum) *kernel.Error {
	var ppn mem.PhysPageNum
	switch a.Type {
	case Identical:
		ppn = mem.PhysPageNum(vpn)
	case Framed:
		f := frame.Alloc()
		ppn = f.PPN
		a.frames[vpn] = f
	}
	return pt.Map(vpn, ppn, a.Perm.pteFlags())
}

// Map installs translations for every page in the area into pt.
func (a *MapArea) Map(pt *PageTable) *kernel.Error {
	var mapErr *kernel.Error
	a.Range.ForEach(func(vpn mem.VirtPageNum) {
		if mapErr != nil {
			return
		}
		mapErr = a.mapOnePage(pt, vpn)
	})
	return mapErr
}

// Unmap removes the translations for every page in the area from pt
// and, for a Framed area, releases the frames it owned back to the
// allocator.
func (a *MapArea) Unmap(pt *PageTable) *kernel.Error {
	var unmapErr *kernel.Error
	a.Range.ForEach(func(vpn mem.VirtPageNum) {
		if a.Type == Framed {
			if f, ok := a.frames[vpn]; ok {
				f.Free()
				delete(a.frames, vpn)
			}
		}
		if err := pt.Unmap(vpn); err != nil && unmapErr == nil {
			unmapErr = err
		}
	})
	return unmapErr
}

// releaseFrames frees every frame this area owns back to the
// allocator without touching any page table. It is used when the
// whole address space the area belongs to is being discarded (see
// MemorySet.Release), so there is no page table entry left to clear.
func (a *MapArea) releaseFrames() {
	if a.Type != Framed {
		return
	}
	for vpn, f := range a.frames {
		f.Free()
		delete(a.frames, vpn)
	}
}

// CopyData copies data into the area's backing frames, starting at
// the area's first page. data must fit within the area and the area
// must be Framed; every frame it touches is assumed to already be
// zeroed (true of every frame.Alloc result), so a short final page is
// correctly zero-padded.
func (a *MapArea) CopyData(pt *PageTable, data []byte) {
	if a.Type != Framed {
		kernel.Panic(&kernel.Error{Module: "vmm", Message: "CopyData on a non-framed area"})
		return
	}

	vpn := a.Range.Start
	for start := 0; start < len(data); start += int(mem.PageSize) {
		end := start + int(mem.PageSize)
		if end > len(data) {
			end = len(data)
		}
		pte, err := pt.Translate(vpn)
		if err != nil {
			kernel.Panic(err)
			return
		}
		dst := framePageBytes(pte.PPN())
		copy(dst, data[start:end])
		vpn++
	}
}
