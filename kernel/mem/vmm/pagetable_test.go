package vmm

import (
	"testing"
	"unsafe"

	"rvcore/kernel/mem"
	"rvcore/kernel/mem/frame"
)

// withFramePool points both the frame allocator and every physical
// address this package dereferences at a freshly allocated, test-
// owned buffer, so the unsafe.Pointer arithmetic in ptEntries and
// framePageBytes lands on memory the test process actually owns
// instead of a real kernel's physical address range.
func withFramePool(t *testing.T, frames mem.PhysPageNum) {
	t.Helper()
	buf := make([]byte, uintptr(frames)*mem.PageSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	orig := mem.PhysToVirt
	mem.PhysToVirt = func(pa uintptr) uintptr { return base + pa }
	t.Cleanup(func() { mem.PhysToVirt = orig })

	frame.Init(0, frames)
}

func TestMapUnmapTranslateRoundTrip(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	vpn := mem.VirtPageNum(0x1234)
	f := frame.Alloc()

	if err := pt.Map(vpn, f.PPN, FlagR|FlagW); err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	pte, err := pt.Translate(vpn)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if pte.PPN() != f.PPN {
		t.Fatalf("translated ppn = %d, want %d", pte.PPN(), f.PPN)
	}
	if !pte.Readable() || !pte.Writable() || pte.Executable() {
		t.Fatalf("unexpected flags on translated entry: %#x", pte.Flags())
	}

	if err := pt.Unmap(vpn); err != nil {
		t.Fatalf("Unmap failed: %v", err)
	}
	if _, err := pt.Translate(vpn); err == nil {
		t.Fatal("expected Translate to fail after Unmap")
	}
}

func TestMapRejectsDoubleMap(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	vpn := mem.VirtPageNum(7)
	f := frame.Alloc()

	if err := pt.Map(vpn, f.PPN, FlagR); err != nil {
		t.Fatalf("first Map failed: %v", err)
	}
	if err := pt.Map(vpn, f.PPN, FlagR); err == nil {
		t.Fatal("expected second Map of the same vpn to fail")
	}
}

func TestUnmapRejectsUnmappedEntry(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	if err := pt.Unmap(mem.VirtPageNum(42)); err == nil {
		t.Fatal("expected Unmap of a never-mapped vpn to fail")
	}
}

func TestSatpTokenRoundTrip(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	token := pt.SatpToken()

	if mode := token >> 60; mode != 9 {
		t.Fatalf("satp token mode = %d, want 9 (Sv48)", mode)
	}

	view := FromSatpToken(token)
	if view.rootPPN != pt.rootPPN {
		t.Fatalf("FromSatpToken root ppn = %d, want %d", view.rootPPN, pt.rootPPN)
	}
}

func TestIndexesWalkAllFourLevels(t *testing.T) {
	withFramePool(t, 64)

	// A vpn whose four 9-bit groups are all distinct makes sure Map
	// actually walks through intermediate levels rather than
	// accidentally reusing the same slot.
	vpn := mem.VirtPageNum(1<<27 | 2<<18 | 3<<9 | 4)
	pt := NewPageTable()
	f := frame.Alloc()

	if err := pt.Map(vpn, f.PPN, FlagR); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	pte, err := pt.Translate(vpn)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if pte.PPN() != f.PPN {
		t.Fatalf("translated ppn = %d, want %d", pte.PPN(), f.PPN)
	}

	other := mem.VirtPageNum(1<<27 | 2<<18 | 3<<9 | 5)
	if _, err := pt.Translate(other); err == nil {
		t.Fatal("expected a neighboring vpn to remain unmapped")
	}
}
