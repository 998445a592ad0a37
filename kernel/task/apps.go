package task

import (
	"unsafe"

	"rvcore/kernel"
	"rvcore/kernel/mem"
)

// NumAppTable is the virtual address of the _num_app symbol: a
// quadword N, followed by N+1 quadwords partitioning the concatenated
// app ELF images that follow it in the kernel image. kmain populates
// this before calling InitAppManager, the same way it populates
// vmm's linker-symbol stand-ins, since neither comes from a real
// linker script in this build.
var NumAppTable uintptr

var errNoSuchApp = &kernel.Error{Module: "task", Message: "no such app id"}

type appManager struct {
	numApp    int
	appStart  []uintptr
}

var apps appManager

// InitAppManager reads the app table NumAppTable points at. Must run
// after NumAppTable is set and before the first NumApps/LoadApp call.
//
// tools/mkapps writes each offset relative to byte 0 of its own
// output (the table header itself), not as an absolute image address,
// since it has no linker pass to resolve a real link-time symbol
// against. NumAppTable is exactly that blob's base address once
// embedded, so the table's relative offsets are turned into absolute
// addresses by adding it back in here.
func InitAppManager() {
	table := unsafe.Slice((*uint64)(unsafe.Pointer(mem.PhysToVirt(NumAppTable))), 1)
	n := int(table[0])
	starts := unsafe.Slice((*uint64)(unsafe.Pointer(mem.PhysToVirt(NumAppTable+8))), n+1)

	apps.numApp = n
	apps.appStart = make([]uintptr, n+1)
	for i, s := range starts {
		apps.appStart[i] = NumAppTable + uintptr(s)
	}
}

// NumApps reports how many app images the embedded table describes.
func NumApps() int {
	return apps.numApp
}

// LoadApp returns the raw ELF bytes for appID, read directly out of
// the kernel image.
func LoadApp(appID int) ([]byte, *kernel.Error) {
	if appID < 0 || appID >= apps.numApp {
		return nil, errNoSuchApp
	}
	start := apps.appStart[appID]
	end := apps.appStart[appID+1]
	addr := mem.PhysToVirt(start)
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), end-start), nil
}

// LoadAppByName parses name as a decimal app id. sys_exec's path
// argument names apps by numeric id rather than a real filesystem
// path, since this kernel has no filesystem of its own.
func LoadAppByName(name string) ([]byte, *kernel.Error) {
	id := 0
	for _, ch := range name {
		if ch < '0' || ch > '9' {
			return nil, errNoSuchApp
		}
		id = id*10 + int(ch-'0')
	}
	return LoadApp(id)
}
