package goruntime

import (
	"testing"
	"unsafe"
)

func TestSysReserve(t *testing.T) {
	defer func() { heapAllocFn = realHeapAllocForTest }()

	t.Run("success", func(t *testing.T) {
		heapAllocFn = func(size uintptr) uintptr {
			if size != 128 {
				t.Errorf("expected requested size 128; got %d", size)
			}
			return 0xbadf00d
		}

		var reserved bool
		ptr := sysReserve(nil, 128, &reserved)
		if !reserved {
			t.Fatal("expected reserved to be set true")
		}
		if uintptr(ptr) != 0xbadf00d {
			t.Fatalf("expected 0xbadf00d; got 0x%x", uintptr(ptr))
		}
	})

	t.Run("heap exhausted", func(t *testing.T) {
		heapAllocFn = func(uintptr) uintptr { return 0 }
		panicFn = func(interface{}) {}
		defer func() { panicFn = realPanicForTest }()

		var reserved bool
		ptr := sysReserve(nil, 128, &reserved)
		if ptr != nil {
			t.Fatalf("expected nil pointer on exhaustion; got 0x%x", uintptr(ptr))
		}
		if reserved {
			t.Fatal("expected reserved to remain false")
		}
	})
}

func TestSysMap(t *testing.T) {
	defer func() { memsetFn = realMemsetForTest }()

	t.Run("zeroes the region and charges the stat", func(t *testing.T) {
		var (
			sysStat       uint64
			memsetCalls   int
			memsetAddr    uintptr
			memsetSize    uintptr
		)
		memsetFn = func(addr uintptr, value byte, size uintptr) {
			memsetCalls++
			memsetAddr = addr
			memsetSize = size
			if value != 0 {
				t.Errorf("expected zero fill; got %d", value)
			}
		}

		got := sysMap(unsafe.Pointer(uintptr(0x1000)), 256, true, &sysStat)
		if uintptr(got) != 0x1000 {
			t.Fatalf("expected sysMap to return the region unchanged; got 0x%x", uintptr(got))
		}
		if memsetCalls != 1 {
			t.Fatalf("expected exactly one memset call; got %d", memsetCalls)
		}
		if memsetAddr != 0x1000 || memsetSize != 256 {
			t.Fatalf("unexpected memset args: addr=0x%x size=%d", memsetAddr, memsetSize)
		}
		if sysStat != 256 {
			t.Fatalf("expected stat counter 256; got %d", sysStat)
		}
	})

	t.Run("unreserved region returns nil", func(t *testing.T) {
		panicFn = func(interface{}) {}
		defer func() { panicFn = realPanicForTest }()

		var sysStat uint64
		got := sysMap(unsafe.Pointer(uintptr(0x1000)), 256, false, &sysStat)
		if got != nil {
			t.Fatalf("expected nil for an unreserved region; got 0x%x", uintptr(got))
		}
	})
}

func TestSysAlloc(t *testing.T) {
	defer func() {
		heapAllocFn = realHeapAllocForTest
		memsetFn = realMemsetForTest
	}()

	t.Run("success", func(t *testing.T) {
		heapAllocFn = func(size uintptr) uintptr { return 0x2000 }

		var memsetCalls int
		memsetFn = func(uintptr, byte, uintptr) { memsetCalls++ }

		var sysStat uint64
		got := sysAlloc(64, &sysStat)
		if uintptr(got) != 0x2000 {
			t.Fatalf("expected 0x2000; got 0x%x", uintptr(got))
		}
		if memsetCalls != 1 {
			t.Fatalf("expected one memset call; got %d", memsetCalls)
		}
		if sysStat != 64 {
			t.Fatalf("expected stat counter 64; got %d", sysStat)
		}
	})

	t.Run("heap exhausted", func(t *testing.T) {
		heapAllocFn = func(uintptr) uintptr { return 0 }

		var sysStat uint64
		got := sysAlloc(64, &sysStat)
		if got != nil {
			t.Fatalf("expected nil pointer on exhaustion; got 0x%x", uintptr(got))
		}
		if sysStat != 0 {
			t.Fatalf("expected stat counter untouched; got %d", sysStat)
		}
	})
}

func TestInit(t *testing.T) {
	defer func() {
		mallocInitFn = mallocInit
		algInitFn = algInit
		modulesInitFn = modulesInit
		typeLinksInitFn = typeLinksInit
		itabsInitFn = itabsInit
	}()

	var order []string
	mallocInitFn = func() { order = append(order, "malloc") }
	algInitFn = func() { order = append(order, "alg") }
	modulesInitFn = func() { order = append(order, "modules") }
	typeLinksInitFn = func() { order = append(order, "typelinks") }
	itabsInitFn = func() { order = append(order, "itabs") }

	Init()

	want := []string{"malloc", "alg", "modules", "typelinks", "itabs"}
	if len(order) != len(want) {
		t.Fatalf("expected %d calls; got %d (%v)", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected call order %v; got %v", want, order)
		}
	}
}

// realHeapAllocForTest, realMemsetForTest and realPanicForTest let
// tests restore the package's real function vars without importing
// kernel/mem and kernel directly into every subtest above.
var (
	realHeapAllocForTest = heapAllocFn
	realMemsetForTest    = memsetFn
	realPanicForTest     = panicFn
)
