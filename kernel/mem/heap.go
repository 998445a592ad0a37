package mem

import (
	"unsafe"

	"rvcore/kernel/sync"
)

// kernelHeap backs every allocation the kernel makes without going
// through the Go runtime's own allocator (that path is instead
// redirected by kernel/goruntime onto this same storage). It is a
// fixed-size array rather than anything frame-allocator-backed
// because it has to be usable before the frame allocator exists.
var kernelHeap [KernelHeapSize]byte

type freeSpan struct {
	addr uintptr
	size uintptr
}

var heap struct {
	lock  sync.Spinlock
	base  uintptr
	next  uintptr
	end   uintptr
	free  []freeSpan
}

// InitHeap records the heap's backing storage and resets the bump
// pointer. Must run before anything calls HeapAlloc, including
// kernel/goruntime's redirected sysAlloc.
func InitHeap() {
	heap.lock.Acquire()
	defer heap.lock.Release()
	heap.base = heapBaseAddr()
	heap.next = heap.base
	heap.end = heap.base + uintptr(len(kernelHeap))
	heap.free = heap.free[:0]
}

func heapBaseAddr() uintptr {
	return uintptr(unsafe.Pointer(&kernelHeap[0]))
}

// HeapAlloc returns the address of a size-byte region, 8-byte aligned,
// satisfying a recycled span first and falling back to the bump
// pointer. It returns 0 if the heap is exhausted.
func HeapAlloc(size uintptr) uintptr {
	size = (size + 7) &^ 7

	heap.lock.Acquire()
	defer heap.lock.Release()

	for i, span := range heap.free {
		if span.size >= size {
			heap.free = append(heap.free[:i], heap.free[i+1:]...)
			if span.size > size {
				heap.free = append(heap.free, freeSpan{addr: span.addr + size, size: span.size - size})
			}
			return span.addr
		}
	}

	if heap.next+size > heap.end {
		return 0
	}
	addr := heap.next
	heap.next += size
	return addr
}

// HeapFree returns a previously allocated [addr, addr+size) span to
// the free list. Adjacent spans are not coalesced, the one corner the
// "freelist" half of this allocator cuts relative to a real buddy
// allocator.
func HeapFree(addr, size uintptr) {
	size = (size + 7) &^ 7
	heap.lock.Acquire()
	defer heap.lock.Release()
	heap.free = append(heap.free, freeSpan{addr: addr, size: size})
}
