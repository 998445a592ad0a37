// Package goruntime bootstraps the Go runtime's own allocator on top
// of this kernel's memory: redirect runtime.sysReserve/sysMap/sysAlloc
// (via go:linkname) onto kernel-owned memory instead of the mmap/brk
// calls the runtime normally issues through a hosted OS. Once Init has
// run, ordinary `make`, `append`, map literals and interface boxing
// all work normally anywhere else in this kernel.
//
// This kernel's own kernel address space already identity-maps every
// physical page from Ekernel to MemoryEnd eagerly (see vmm.NewKernel)
// rather than mapping pages on demand with copy-on-write, since demand
// paging and CoW are out of scope here. That means sysMap/sysAlloc
// don't need to call into vmm at all: the memory they hand out is
// already mapped, so all that's left is the bookkeeping mem.HeapAlloc
// already does.
package goruntime

import (
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/mem"
)

var (
	heapAllocFn = mem.HeapAlloc
	memsetFn    = kernel.Memset
	panicFn     = kernel.Panic

	mallocInitFn    = mallocInit
	algInitFn       = algInit
	modulesInitFn   = modulesInit
	typeLinksInitFn = typeLinksInit
	itabsInitFn     = itabsInit
)

//go:linkname algInit runtime.alginit
func algInit()

//go:linkname modulesInit runtime.modulesinit
func modulesInit()

//go:linkname typeLinksInit runtime.typelinksinit
func typeLinksInit()

//go:linkname itabsInit runtime.itabsinit
func itabsInit()

//go:linkname mallocInit runtime.mallocinit
func mallocInit()

//go:linkname mSysStatInc runtime.mSysStatInc
func mSysStatInc(*uint64, uintptr)

// sysReserve reserves address space without populating it. Since this
// kernel's heap region is already backed by real, mapped physical
// memory end to end, reserving is the same operation as allocating;
// the runtime is still free to sysMap into it later without knowing
// that.
//
//go:redirect-from runtime.sysReserve
//go:nosplit
func sysReserve(_ unsafe.Pointer, size uintptr, reserved *bool) unsafe.Pointer {
	addr := heapAllocFn(size)
	if addr == 0 {
		panicFn(&kernel.Error{Module: "goruntime", Message: "out of kernel heap reserving address space"})
		return nil
	}
	*reserved = true
	return unsafe.Pointer(addr)
}

// sysMap marks a previously reserved region as in use. There is no
// page table work to do here (see the package comment), so this
// degenerates to accounting plus zeroing, mirroring what the real
// runtime.sysMap guarantees its caller (freshly mapped memory reads
// as zero).
//
//go:redirect-from runtime.sysMap
//go:nosplit
func sysMap(virtAddr unsafe.Pointer, size uintptr, reserved bool, sysStat *uint64) unsafe.Pointer {
	if !reserved {
		panicFn(&kernel.Error{Module: "goruntime", Message: "sysMap called on an unreserved region"})
		return nil
	}
	memsetFn(uintptr(virtAddr), 0, size)
	mSysStatInc(sysStat, size)
	return virtAddr
}

// sysAlloc reserves and maps a fresh region in one step; it is what
// the runtime calls when it needs more memory and has nothing
// reserved yet to sysMap into.
//
//go:redirect-from runtime.sysAlloc
//go:nosplit
func sysAlloc(size uintptr, sysStat *uint64) unsafe.Pointer {
	addr := heapAllocFn(size)
	if addr == 0 {
		return unsafe.Pointer(uintptr(0))
	}
	memsetFn(addr, 0, size)
	mSysStatInc(sysStat, size)
	return unsafe.Pointer(addr)
}

// Init enables the Go runtime features every other package in this
// kernel takes for granted: heap allocation (new, make), map
// primitives and interfaces. mem.InitHeap must already have run.
func Init() {
	mallocInitFn()
	algInitFn()
	modulesInitFn()
	typeLinksInitFn()
	itabsInitFn()
}

func init() {
	var (
		reserved bool
		stat     uint64
		zeroPtr  = unsafe.Pointer(uintptr(0))
	)
	sysReserve(zeroPtr, 0, &reserved)
	sysMap(zeroPtr, 0, reserved, &stat)
	sysAlloc(0, &stat)
}
