package frame

import (
	"testing"
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/mem"
)

func resetAllocator(start, end mem.PhysPageNum) {
	global = stackAllocator{start: start, end: end}
}

// withBackingMemory redirects mem.PhysToVirt so that any ppn below
// end resolves into a real, test-owned buffer instead of an actual
// physical address, letting Alloc's zero-fill run safely.
func withBackingMemory(t *testing.T, end mem.PhysPageNum) {
	t.Helper()
	buf := make([]byte, (uintptr(end)+1)*mem.PageSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	orig := mem.PhysToVirt
	mem.PhysToVirt = func(pa uintptr) uintptr { return base + pa }
	t.Cleanup(func() { mem.PhysToVirt = orig })
}

// withMockPanic installs a panicFn that records the error it was
// called with instead of halting, and restores the real one on
// return. It mirrors the mocked shutdownFn/panicFn pattern used
// throughout this codebase's fatal paths.
func withMockPanic(t *testing.T) *[]*kernel.Error {
	t.Helper()
	var calls []*kernel.Error
	orig := panicFn
	panicFn = func(e interface{}) {
		if err, ok := e.(*kernel.Error); ok {
			calls = append(calls, err)
		}
	}
	t.Cleanup(func() { panicFn = orig })
	return &calls
}

func TestAllocExhaustsRange(t *testing.T) {
	resetAllocator(10, 13)
	withBackingMemory(t, 13)

	var got []mem.PhysPageNum
	for i := 0; i < 3; i++ {
		tr := Alloc()
		got = append(got, tr.PPN)
	}

	want := []mem.PhysPageNum{10, 11, 12}
	for i, ppn := range want {
		if got[i] != ppn {
			t.Errorf("frame %d: got ppn %d, want %d", i, got[i], ppn)
		}
	}

	if global.start != global.end {
		t.Fatalf("expected range to be fully consumed, start=%d end=%d", global.start, global.end)
	}
}

func TestFreeRecyclesBeforeBump(t *testing.T) {
	resetAllocator(0, 5)
	withBackingMemory(t, 5)

	a := Alloc()
	b := Alloc()
	a.Free()

	c := Alloc()
	if c.PPN != a.PPN {
		t.Fatalf("expected recycled frame %d to be reused first, got %d", a.PPN, c.PPN)
	}
	if b.PPN == c.PPN {
		t.Fatalf("recycled frame collided with still-live frame %d", b.PPN)
	}
}

func TestDoubleFreePanics(t *testing.T) {
	resetAllocator(0, 5)
	withBackingMemory(t, 5)
	calls := withMockPanic(t)

	tr := Alloc()
	tr.Free()
	tr.Free()

	if len(*calls) != 1 {
		t.Fatalf("expected exactly one fatal call for the second Free, got %d", len(*calls))
	}
}

func TestFreeOfNeverAllocatedPanics(t *testing.T) {
	resetAllocator(100, 105)
	calls := withMockPanic(t)

	Free(mem.PhysPageNum(102))

	if len(*calls) != 1 {
		t.Fatalf("expected freeing an unallocated frame to be reported as fatal, got %d calls", len(*calls))
	}
}

func TestAllocOutOfMemoryPanics(t *testing.T) {
	resetAllocator(0, 0)
	calls := withMockPanic(t)

	Alloc()

	if len(*calls) != 1 {
		t.Fatalf("expected an exhausted allocator to report a fatal error, got %d calls", len(*calls))
	}
}
