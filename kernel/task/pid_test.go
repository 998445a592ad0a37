package task

import (
	"testing"

	"rvcore/kernel"
	"rvcore/kernel/mem"
)

// withMockPanic installs a panicFn that records the error it was
// called with instead of halting, mirroring the pattern used in
// kernel/mem/frame's tests.
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

func resetPidAllocator() {
	pids = pidAllocator{}
}

func TestAllocPidMonotonic(t *testing.T) {
	resetPidAllocator()

	first := AllocPid()
	second := AllocPid()
	third := AllocPid()

	if first != 1 || second != 2 || third != 3 {
		t.Fatalf("expected pids 1, 2, 3; got %d, %d, %d", first, second, third)
	}
}

func TestReleasePidOutOfRange(t *testing.T) {
	resetPidAllocator()
	calls := withMockPanic(t)

	AllocPid() // pid 1

	ReleasePid(0)
	ReleasePid(99)

	if len(*calls) != 2 {
		t.Fatalf("expected 2 panics; got %d", len(*calls))
	}
}

func TestReleasePidDoesNotRecycleIntoAllocPid(t *testing.T) {
	resetPidAllocator()
	calls := withMockPanic(t)

	p := AllocPid() // pid 1
	ReleasePid(p)
	if len(*calls) != 0 {
		t.Fatalf("expected no panic releasing a freshly allocated pid; got %v", *calls)
	}

	next := AllocPid()
	if next == p {
		t.Fatalf("expected AllocPid to never reuse a released pid (known, preserved asymmetry); got %d twice", next)
	}
}

func TestReleasePidTwiceIsFatal(t *testing.T) {
	resetPidAllocator()
	calls := withMockPanic(t)

	p := AllocPid()
	ReleasePid(p)
	ReleasePid(p)

	if len(*calls) != 1 {
		t.Fatalf("expected exactly one panic on double release; got %d", len(*calls))
	}
}

func TestKernelStackWindowDescendsFromTrampoline(t *testing.T) {
	b1, t1 := kernelStackWindow(1)
	b2, t2 := kernelStackWindow(2)

	if t1 != t2+(mem.KernelStackSize+mem.PageSize) {
		t.Fatalf("expected consecutive pids' windows to be separated by KernelStackSize+PageSize; got top1=0x%x top2=0x%x", t1, t2)
	}
	if t1-b1 != mem.KernelStackSize {
		t.Fatalf("expected window size KernelStackSize; got %d", t1-b1)
	}
}
