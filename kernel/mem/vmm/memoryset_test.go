package vmm

import (
	"testing"

	"rvcore/kernel/mem"
	"rvcore/kernel/mem/frame"
)

func TestCopyDataWritesIntoFramedArea(t *testing.T) {
	withFramePool(t, 64)

	ms := NewBare()
	start := mem.VirtAddr(0x2000)
	end := mem.VirtAddr(0x2000 + mem.PageSize)
	area := NewMapArea(start, end, Framed, PermR|PermW)
	data := []byte("hello, process")
	ms.Push(area, data)

	pte, err := ms.Translate(start.FloorVPN())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	got := framePageBytes(pte.PPN())[:len(data)]
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestCloneDeepCopiesFramedAreas(t *testing.T) {
	withFramePool(t, 64)
	origTrampoline := Strampoline
	Strampoline = uintptr(frame.Alloc().PPN.Addr())
	t.Cleanup(func() { Strampoline = origTrampoline })

	src := NewBare()
	start := mem.VirtAddr(0x3000)
	end := mem.VirtAddr(0x3000 + mem.PageSize)
	area := NewMapArea(start, end, Framed, PermR|PermW)
	data := []byte("parent data")
	src.Push(area, data)

	dst := Clone(src)

	srcPTE, _ := src.Translate(start.FloorVPN())
	dstPTE, _ := dst.Translate(start.FloorVPN())
	if srcPTE.PPN() == dstPTE.PPN() {
		t.Fatal("expected clone to allocate a distinct frame, not share the parent's")
	}

	dstBytes := framePageBytes(dstPTE.PPN())[:len(data)]
	if string(dstBytes) != string(data) {
		t.Fatalf("cloned bytes = %q, want %q", dstBytes, data)
	}

	// Mutating the parent's frame must not affect the child's copy.
	srcBytes := framePageBytes(srcPTE.PPN())
	srcBytes[0] = 'X'
	if dstBytes[0] == 'X' {
		t.Fatal("clone shares backing storage with the parent area")
	}
}

func TestReleaseFreesFramedAreaAndPageTableFrames(t *testing.T) {
	withFramePool(t, 64)

	ms := NewBare()
	start := mem.VirtAddr(0x4000)
	end := mem.VirtAddr(0x4000 + 2*mem.PageSize)
	ms.Push(NewMapArea(start, end, Framed, PermR|PermW), nil)

	allocated := frame.Allocated()
	if allocated == 0 {
		t.Fatal("expected the root page table frame and the area's frames to be allocated")
	}

	ms.Release()

	if got := frame.Allocated(); got != 0 {
		t.Fatalf("Release left %d frames allocated, want 0", got)
	}
}
