package vmm

import (
	"testing"

	"rvcore/kernel/mem"
)

func TestMapAreaUnmapReleasesFrames(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	area := NewMapArea(mem.VirtAddr(0), mem.VirtAddr(3*mem.PageSize), Framed, PermR|PermW)

	if err := area.Map(pt); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	area.Range.ForEach(func(vpn mem.VirtPageNum) {
		if _, err := pt.Translate(vpn); err != nil {
			t.Fatalf("vpn %d not mapped after Map: %v", vpn, err)
		}
	})
	if len(area.frames) != 3 {
		t.Fatalf("area owns %d frames, want 3", len(area.frames))
	}

	if err := area.Unmap(pt); err != nil {
		t.Fatalf("Unmap failed: %v", err)
	}
	area.Range.ForEach(func(vpn mem.VirtPageNum) {
		if _, err := pt.Translate(vpn); err == nil {
			t.Fatalf("vpn %d still mapped after Unmap", vpn)
		}
	})
	if len(area.frames) != 0 {
		t.Fatalf("area retained %d frames after Unmap, want 0", len(area.frames))
	}
}

func TestMapAreaIdenticalDoesNotOwnFrames(t *testing.T) {
	withFramePool(t, 64)

	pt := NewPageTable()
	area := NewMapArea(mem.VirtAddr(0), mem.VirtAddr(2*mem.PageSize), Identical, PermR|PermW)

	if err := area.Map(pt); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(area.frames) != 0 {
		t.Fatalf("identical area owns %d frames, want 0", len(area.frames))
	}

	pte, err := pt.Translate(area.Range.Start)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if pte.PPN() != mem.PhysPageNum(area.Range.Start) {
		t.Fatalf("identical map: ppn = %d, want %d", pte.PPN(), area.Range.Start)
	}
}
