package task

import (
	"unsafe"

	"rvcore/kernel/mem"
	"rvcore/kernel/mem/vmm"
	"rvcore/kernel/sync"
	"rvcore/kernel/trap"
)

// Status is a process's scheduling state.
type Status int

const (
	StatusReady Status = iota
	StatusRunning
	StatusExited
)

// Process is a process control block: the pid and kernel stack are
// fixed for its lifetime, everything that changes while it runs lives
// behind inner's lock.
type Process struct {
	Pid          Pid
	KernelStack  KernelStack
	lock         sync.Spinlock
	inner        processInner
}

type processInner struct {
	parent    *Process
	children  []*Process
	status    Status
	exitCode  int32
	taskCx    Context
	set       *vmm.MemorySet
	trapCxPPN mem.PhysPageNum
	baseSize  uintptr
}

// New builds the first process in the system from elfData, with no
// parent. Every later process traces its ancestry back to one of
// these via Fork.
func New(elfData []byte) *Process {
	set, userSP, entry, err := vmm.FromELF(elfData)
	if err != nil {
		panicFn(err)
		return nil
	}
	trapCxPTE, err := set.Translate(mem.VirtAddr(mem.TrapContext).FloorVPN())
	if err != nil {
		panicFn(err)
		return nil
	}

	pid := AllocPid()
	stack := NewKernelStack(pid)
	stackTop := stack.Top()

	p := &Process{
		Pid:         pid,
		KernelStack: stack,
		inner: processInner{
			status:    StatusReady,
			taskCx:    GotoTrapReturn(stackTop),
			set:       set,
			trapCxPPN: trapCxPTE.PPN(),
			baseSize:  userSP,
		},
	}
	*p.TrapContext() = *trap.NewAppContext(entry, userSP, KernelSatpToken(), stackTop, trap.HandlerEntryAddr())
	return p
}

// TrapContext returns a pointer straight into this process's
// TrapContext page. Because the kernel's own address space identity
// maps all of physical memory, a physical address doubles as a valid
// kernel-virtual one here, same trick framePageBytes relies on.
func (p *Process) TrapContext() *trap.Context {
	p.lock.Acquire()
	ppn := p.inner.trapCxPPN
	p.lock.Release()
	addr := mem.PhysToVirt(uintptr(ppn.Addr()))
	return (*trap.Context)(unsafe.Pointer(addr))
}

// UserToken returns the satp value that activates this process's
// address space.
func (p *Process) UserToken() uintptr {
	p.lock.Acquire()
	defer p.lock.Release()
	return p.inner.set.SatpToken()
}

// Fork creates a child of p sharing none of its memory (a full
// byte-for-byte copy) and registers it as one of p's children.
func (p *Process) Fork() *Process {
	p.lock.Acquire()
	set := vmm.Clone(p.inner.set)
	baseSize := p.inner.baseSize
	p.lock.Release()

	trapCxPTE, err := set.Translate(mem.VirtAddr(mem.TrapContext).FloorVPN())
	if err != nil {
		panicFn(err)
		return nil
	}

	pid := AllocPid()
	stack := NewKernelStack(pid)
	stackTop := stack.Top()

	child := &Process{
		Pid:         pid,
		KernelStack: stack,
		inner: processInner{
			parent:    p,
			status:    StatusReady,
			taskCx:    GotoTrapReturn(stackTop),
			set:       set,
			trapCxPPN: trapCxPTE.PPN(),
			baseSize:  baseSize,
		},
	}

	p.lock.Acquire()
	p.inner.children = append(p.inner.children, child)
	p.lock.Release()

	child.TrapContext().KernelSP = stackTop
	return child
}

// Exec replaces p's address space with elfData's, in place: same pid,
// same kernel stack, a brand new memory set and TrapContext.
func (p *Process) Exec(elfData []byte) {
	set, userSP, entry, err := vmm.FromELF(elfData)
	if err != nil {
		panicFn(err)
		return
	}
	trapCxPTE, err := set.Translate(mem.VirtAddr(mem.TrapContext).FloorVPN())
	if err != nil {
		panicFn(err)
		return
	}

	p.lock.Acquire()
	oldSet := p.inner.set
	p.inner.set = set
	p.inner.trapCxPPN = trapCxPTE.PPN()
	p.inner.baseSize = userSP
	stackTop := p.KernelStack.Top()
	p.lock.Release()

	*p.TrapContext() = *trap.NewAppContext(entry, userSP, KernelSatpToken(), stackTop, trap.HandlerEntryAddr())

	// The old address space is gone the moment p.inner.set is
	// overwritten above; nothing will ever translate through it again,
	// so its frames (and its page table's own frames) can be returned
	// to the allocator now instead of leaking on every exec.
	oldSet.Release()
}

func (p *Process) setStatus(s Status) {
	p.lock.Acquire()
	p.inner.status = s
	p.lock.Release()
}

func (p *Process) status() Status {
	p.lock.Acquire()
	defer p.lock.Release()
	return p.inner.status
}

func (p *Process) setExitCode(code int32) {
	p.lock.Acquire()
	p.inner.exitCode = code
	p.lock.Release()
}

func (p *Process) taskCxPtr() *Context {
	return &p.inner.taskCx
}
