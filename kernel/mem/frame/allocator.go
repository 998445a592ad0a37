// Package frame manages physical-frame allocation for everything
// above the bare allocator: page tables, framed MapAreas and kernel
// stacks all go through frame.Alloc rather than touching physical
// memory directly.
package frame

import (
	"rvcore/kernel"
	"rvcore/kernel/mem"
	"rvcore/kernel/sync"
)

var (
	errDoubleFree = &kernel.Error{Module: "frame", Message: "frame has not been allocated"}
	errOutOfMem   = &kernel.Error{Module: "frame", Message: "out of physical frames"}

	// panicFn is mocked by tests so a double free or an out-of-memory
	// condition can be observed without actually halting the test
	// binary.
	panicFn = kernel.Panic
)

// Tracker owns exactly one physical frame and returns it to the
// global allocator when Free is called. A Tracker must never be freed
// twice; the allocator treats a second Free of the same page number as
// a fatal double-free, exactly like every other resource-ownership
// bug in this kernel.
type Tracker struct {
	PPN mem.PhysPageNum
}

// stackAllocator is a bump-pointer allocator over [start, end) with a
// LIFO recycle stack for freed frames: the common case (fresh
// allocation) is O(1) and branch-free, and the recycle stack means
// the most recently freed frame is reused first, keeping cache
// behaviour predictable.
type stackAllocator struct {
	lock      sync.Spinlock
	start     mem.PhysPageNum
	end       mem.PhysPageNum
	recycled  []mem.PhysPageNum
	allocated int
}

var global stackAllocator

// Init configures the global allocator to hand out frames from
// [start, end), typically [PhysAddr(ekernel).CeilPPN(), MemoryEnd).
// It must be called exactly once, before the first call to Alloc.
func Init(start, end mem.PhysPageNum) {
	global.lock.Acquire()
	defer global.lock.Release()
	global.start = start
	global.end = end
	global.recycled = global.recycled[:0]
	global.allocated = 0
}

// Alloc reserves one physical frame, zeroes it, and returns a Tracker
// owning it. It panics if no frames remain.
func Alloc() *Tracker {
	global.lock.Acquire()
	ppn, ok := global.allocLocked()
	global.lock.Release()
	if !ok {
		panicFn(errOutOfMem)
		return nil
	}

	kernel.Memset(mem.PhysToVirt(uintptr(ppn.Addr())), 0, mem.PageSize)
	return &Tracker{PPN: ppn}
}

func (a *stackAllocator) allocLocked() (mem.PhysPageNum, bool) {
	if n := len(a.recycled); n > 0 {
		ppn := a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
		a.allocated++
		return ppn, true
	}
	if a.start < a.end {
		ppn := a.start
		a.start++
		a.allocated++
		return ppn, true
	}
	return 0, false
}

// Allocated reports how many frames are currently handed out (neither
// still in [start, end) nor sitting on the recycle stack). It exists
// for the quantified invariant spec.md §8 asks for: the live set and
// the recycle set are disjoint, and this is their combined size's
// complement against the full range.
func Allocated() int {
	global.lock.Acquire()
	defer global.lock.Release()
	return global.allocated
}

// Free returns ppn to the allocator. It is fatal to free a page
// number that is still in the unallocated range or that has already
// been freed: both indicate a bookkeeping bug in the caller (a double
// free, or an attempt to free a frame that was never handed out).
func Free(ppn mem.PhysPageNum) {
	global.lock.Acquire()
	defer global.lock.Release()

	if ppn >= global.start && ppn < global.end {
		panicFn(errDoubleFree)
	}
	for _, r := range global.recycled {
		if r == ppn {
			panicFn(errDoubleFree)
		}
	}

	global.recycled = append(global.recycled, ppn)
	global.allocated--
}

// Free releases the frame the tracker owns. Calling Free more than
// once on the same Tracker triggers the double-free panic above.
func (t *Tracker) Free() {
	Free(t.PPN)
}
