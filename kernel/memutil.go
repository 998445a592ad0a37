package kernel

import "unsafe"

// Memset writes count copies of value starting at virtual address
// addr. It is used to clear freshly allocated physical frames and
// newly created page tables before they become reachable from user or
// kernel code.
func Memset(addr uintptr, value byte, count uintptr) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(addr)), count)
	for i := range dst {
		dst[i] = value
	}
}

// Memcopy copies count bytes from src to dst, both given as virtual
// addresses. The ELF loader and the fork-time frame clone in vmm copy
// through byte slices instead and do not call it.
func Memcopy(dst, src uintptr, count uintptr) {
	dstSlice := unsafe.Slice((*byte)(unsafe.Pointer(dst)), count)
	srcSlice := unsafe.Slice((*byte)(unsafe.Pointer(src)), count)
	copy(dstSlice, srcSlice)
}
