package mem

// VirtAddr is a canonical Sv48 virtual address: the low 48 bits carry
// the address, bit 47 is sign-extended through the remaining high
// bits exactly as the Sv48 MMU requires, so every VirtAddr value here
// is already hardware-legal and never needs re-checking before being
// written to satp-mapped structures or loaded into sepc.
type VirtAddr uintptr

// NewVirtAddr masks addr to the Sv48 canonical form.
func NewVirtAddr(addr uintptr) VirtAddr {
	const mask = uintptr(1)<<vaWidthSv48 - 1
	addr &= mask
	if addr >= uintptr(1)<<(vaWidthSv48-1) {
		addr |= ^mask
	}
	return VirtAddr(addr)
}

// Uintptr returns the raw address.
func (a VirtAddr) Uintptr() uintptr { return uintptr(a) }

// FloorVPN returns the page number of the page containing a.
func (a VirtAddr) FloorVPN() VirtPageNum {
	return VirtPageNum(uintptr(a) >> PageOffsetBits)
}

// CeilVPN returns the page number of the first page at or after a,
// rounding up partial pages.
func (a VirtAddr) CeilVPN() VirtPageNum {
	return VirtPageNum((uintptr(a) + PageSize - 1) >> PageOffsetBits)
}

// PageOffset returns the in-page byte offset of a.
func (a VirtAddr) PageOffset() uintptr {
	return uintptr(a) & (PageSize - 1)
}

// Aligned reports whether a falls exactly on a page boundary.
func (a VirtAddr) Aligned() bool { return a.PageOffset() == 0 }

// VirtPageNum is a virtual page number: an Sv48 virtual address with
// its page offset stripped off.
type VirtPageNum uintptr

// NewVirtPageNum masks vpn to the Sv48 VPN width.
func NewVirtPageNum(vpn uintptr) VirtPageNum {
	return VirtPageNum(vpn & (uintptr(1)<<vpnWidthSv48 - 1))
}

// Addr converts a page number back to the address of its first byte.
func (v VirtPageNum) Addr() VirtAddr {
	return NewVirtAddr(uintptr(v) << PageOffsetBits)
}

// Indexes splits v into the four 9-bit indexes a Sv48 walk consumes,
// from the root-level (PPN2-equivalent) index first to the
// leaf-level index last.
func (v VirtPageNum) Indexes() [4]uintptr {
	var idx [4]uintptr
	vpn := uintptr(v)
	for i := 3; i >= 0; i-- {
		idx[i] = vpn & 0x1ff
		vpn >>= 9
	}
	return idx
}

// PhysAddr is a physical address: 56 significant bits, no sign
// extension (physical addresses are not subject to Sv48 canonical
// form rules).
type PhysAddr uintptr

// NewPhysAddr masks addr to the supported physical address width.
func NewPhysAddr(addr uintptr) PhysAddr {
	return PhysAddr(addr & (uintptr(1)<<paWidth - 1))
}

// Uintptr returns the raw address.
func (a PhysAddr) Uintptr() uintptr { return uintptr(a) }

// FloorPPN returns the page number of the frame containing a.
func (a PhysAddr) FloorPPN() PhysPageNum {
	return PhysPageNum(uintptr(a) >> PageOffsetBits)
}

// CeilPPN returns the page number of the first frame at or after a.
func (a PhysAddr) CeilPPN() PhysPageNum {
	return PhysPageNum((uintptr(a) + PageSize - 1) >> PageOffsetBits)
}

// PageOffset returns the in-page byte offset of a.
func (a PhysAddr) PageOffset() uintptr {
	return uintptr(a) & (PageSize - 1)
}

// PhysPageNum is a physical page number, i.e. a frame number.
type PhysPageNum uintptr

// NewPhysPageNum masks ppn to the supported PPN width.
func NewPhysPageNum(ppn uintptr) PhysPageNum {
	return PhysPageNum(ppn & (uintptr(1)<<ppnWidth - 1))
}

// Addr converts a frame number to the physical address of its first
// byte.
func (p PhysPageNum) Addr() PhysAddr {
	return PhysAddr(uintptr(p) << PageOffsetBits)
}

// VPNRange is a half-open [Start, End) run of virtual page numbers,
// the unit a MapArea tracks.
type VPNRange struct {
	Start, End VirtPageNum
}

// Len reports the number of pages in the range.
func (r VPNRange) Len() int {
	return int(r.End) - int(r.Start)
}

// ForEach calls fn once per page number in the range, in ascending
// order.
func (r VPNRange) ForEach(fn func(VirtPageNum)) {
	for vpn := r.Start; vpn < r.End; vpn++ {
		fn(vpn)
	}
}
