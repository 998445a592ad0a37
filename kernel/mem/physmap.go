package mem

// PhysToVirt converts a physical address into the virtual address the
// kernel should use to dereference it. The production kernel identity
// maps all of RAM (see vmm.NewKernel's physical-memory area), so this
// is the identity function there. Tests override it to redirect
// physical addresses into ordinary Go-heap-backed buffers so that
// code written to dereference "physical" addresses directly can run
// against real, owned memory instead of actual low physical
// addresses that only make sense under a running kernel.
var PhysToVirt = func(pa uintptr) uintptr { return pa }
