package vmm

import (
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/mem"
)

// framePageBytes returns the full PageSize-byte window backing ppn.
// Like ptEntries, this leans on the kernel's identity mapping of
// physical memory: a physical address is also a valid virtual one.
func framePageBytes(ppn mem.PhysPageNum) []byte {
	addr := mem.PhysToVirt(uintptr(ppn.Addr()))
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), mem.PageSize)
}

// TranslatedByteBuffer splits a user-space [ptr, ptr+length) range,
// given in the address space identified by satp, into the (possibly
// several) physically-contiguous byte slices backing it. A single
// user buffer can straddle more than one physical frame because nothing
// guarantees the underlying frames are adjacent, so the result is a
// list of slices rather than one.
func TranslatedByteBuffer(satp uintptr, ptr uintptr, length uintptr) ([][]byte, *kernel.Error) {
	pt := FromSatpToken(satp)

	start := ptr
	end := start + length
	var out [][]byte

	for start < end {
		startVA := mem.NewVirtAddr(start)
		vpn := startVA.FloorVPN()
		pte, err := pt.Translate(vpn)
		if err != nil {
			return nil, err
		}

		pageEndVA := (vpn + 1).Addr()
		sliceEndVA := pageEndVA
		if uintptr(sliceEndVA) > end {
			sliceEndVA = mem.NewVirtAddr(end)
		}

		page := framePageBytes(pte.PPN())
		startOff := startVA.PageOffset()
		endOff := sliceEndVA.PageOffset()
		if endOff == 0 {
			out = append(out, page[startOff:])
		} else {
			out = append(out, page[startOff:endOff])
		}

		start = uintptr(sliceEndVA)
	}

	return out, nil
}

// TranslatedStr reads a NUL-terminated string out of the address
// space identified by satp, starting at ptr.
func TranslatedStr(satp uintptr, ptr uintptr) (string, *kernel.Error) {
	pt := FromSatpToken(satp)

	var out []byte
	startVA := mem.NewVirtAddr(ptr)
	for {
		vpn := startVA.FloorVPN()
		pte, err := pt.Translate(vpn)
		if err != nil {
			return "", err
		}
		page := framePageBytes(pte.PPN())

		off := startVA.PageOffset()
		for ; off < mem.PageSize; off++ {
			ch := page[off]
			if ch == 0 {
				return string(out), nil
			}
			out = append(out, ch)
		}

		startVA = (vpn + 1).Addr()
	}
}
