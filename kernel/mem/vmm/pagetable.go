package vmm

import (
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/mem"
	"rvcore/kernel/mem/frame"
)

var (
	errPTENotFound  = &kernel.Error{Module: "vmm", Message: "page table entry not found"}
	errPTEExists    = &kernel.Error{Module: "vmm", Message: "page table entry already exists"}
	errUnsupportSv  = &kernel.Error{Module: "vmm", Message: "address outside Sv48 range"}
	errFrameExhaust = &kernel.Error{Module: "vmm", Message: "page table frame allocation failed"}
)

// ptEntries returns a view of the 512 PTE slots held by the frame at
// ppn. Physical memory is identity mapped into the kernel's own
// address space, so the physical address doubles as a valid virtual
// one for this direct access.
func ptEntries(ppn mem.PhysPageNum) []PTE {
	addr := mem.PhysToVirt(uintptr(ppn.Addr()))
	return unsafe.Slice((*PTE)(unsafe.Pointer(addr)), 512)
}

// PageTable is a single process's (or the kernel's) Sv48 page table.
// Unlike an x86 recursively-mapped page directory, every level is
// reached here by a direct physical-address dereference: the kernel
// identity-maps all of RAM, so walking from a PhysPageNum to its
// backing frame never needs its own page table lookup.
type PageTable struct {
	rootPPN mem.PhysPageNum
	frames  []*frame.Tracker
}

// NewPageTable allocates a fresh, empty root page table.
func NewPageTable() *PageTable {
	root := frame.Alloc()
	return &PageTable{rootPPN: root.PPN, frames: []*frame.Tracker{root}}
}

// releaseFrames frees the root frame and every intermediate-level
// frame this page table allocated on the create path of Map. Like
// MapArea.releaseFrames, this is only safe once nothing will walk
// this table again.
func (pt *PageTable) releaseFrames() {
	for _, f := range pt.frames {
		f.Free()
	}
	pt.frames = nil
}

// FromSatpToken builds a read-only view over the page table already
// installed via the given satp value. It does not own any frames and
// must not be used to map or unmap entries.
func FromSatpToken(satp uintptr) *PageTable {
	return &PageTable{rootPPN: mem.PhysPageNum(satp & (1<<44 - 1))}
}

// SatpToken returns the satp CSR value that activates this page
// table: Sv48 mode in the top 4 bits, ASID 0, and the root PPN in the
// low 44 bits.
func (pt *PageTable) SatpToken() uintptr {
	const modeSv48 = uintptr(9)
	return modeSv48<<60 | uintptr(pt.rootPPN)
}

// vpnBoundSv48 is one past the highest VirtPageNum the four 9-bit
// Indexes levels can address; anything at or beyond it would silently
// wrap in Indexes rather than fail, so findPTE/findPTECreate check it
// explicitly instead of trusting every caller to have gone through
// VirtAddr.FloorVPN/CeilVPN first.
const vpnBoundSv48 = uintptr(1) << 36

// findPTECreate walks the four Sv48 levels for vpn, allocating
// intermediate-level frames as needed, and returns the leaf entry.
func (pt *PageTable) findPTECreate(vpn mem.VirtPageNum) (*PTE, *kernel.Error) {
	if uintptr(vpn) >= vpnBoundSv48 {
		return nil, errUnsupportSv
	}
	ppn := pt.rootPPN
	idx := vpn.Indexes()
	for i, ix := range idx {
		entries := ptEntries(ppn)
		pte := &entries[ix]
		if i == 3 {
			return pte, nil
		}
		if !pte.Valid() {
			f := frame.Alloc()
			*pte = NewPTE(f.PPN, FlagV)
			pt.frames = append(pt.frames, f)
		}
		ppn = pte.PPN()
	}
	return nil, errFrameExhaust
}

// findPTE walks the four Sv48 levels for vpn without creating
// anything, stopping early if an intermediate entry is not valid.
func (pt *PageTable) findPTE(vpn mem.VirtPageNum) (*PTE, *kernel.Error) {
	if uintptr(vpn) >= vpnBoundSv48 {
		return nil, errUnsupportSv
	}
	ppn := pt.rootPPN
	idx := vpn.Indexes()
	for i, ix := range idx {
		entries := ptEntries(ppn)
		pte := &entries[ix]
		if i == 3 {
			return pte, nil
		}
		if !pte.Valid() {
			return nil, errPTENotFound
		}
		ppn = pte.PPN()
	}
	return nil, errPTENotFound
}

// Map installs a vpn -> ppn translation with the given permission. It
// is an error to map a vpn that is already mapped; callers are
// expected to Unmap first if they intend to replace an entry.
func (pt *PageTable) Map(vpn mem.VirtPageNum, ppn mem.PhysPageNum, flags PTEFlag) *kernel.Error {
	pte, err := pt.findPTECreate(vpn)
	if err != nil {
		return err
	}
	if pte.Valid() {
		return errPTEExists
	}
	*pte = NewPTE(ppn, flags|FlagV)
	return nil
}

// Unmap removes the translation for vpn. It is an error to unmap a
// vpn that is not currently mapped.
func (pt *PageTable) Unmap(vpn mem.VirtPageNum) *kernel.Error {
	pte, err := pt.findPTE(vpn)
	if err != nil {
		return err
	}
	if !pte.Valid() {
		return errPTENotFound
	}
	*pte = PTE(0)
	return nil
}

// Translate returns the leaf PTE mapping vpn, or an error if vpn is
// unmapped.
func (pt *PageTable) Translate(vpn mem.VirtPageNum) (PTE, *kernel.Error) {
	pte, err := pt.findPTE(vpn)
	if err != nil || !pte.Valid() {
		if err == nil {
			err = errPTENotFound
		}
		return 0, err
	}
	return *pte, nil
}
