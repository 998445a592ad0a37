package task

import "rvcore/kernel/sync"

// readyQueue is the FIFO of processes waiting for the hart. It is
// written from the shape its call sites demand, since no reference
// implementation of this particular piece was available to follow:
// push on fork and on suspend-and-requeue, pop in FIFO order from
// RunProcesses.
type readyQueue struct {
	lock  sync.Spinlock
	ready []*Process
}

var manager readyQueue

// AddProcess appends p to the back of the ready queue.
func AddProcess(p *Process) {
	manager.lock.Acquire()
	manager.ready = append(manager.ready, p)
	manager.lock.Release()
}

// fetch pops the process at the front of the ready queue, if any.
func fetch() *Process {
	manager.lock.Acquire()
	defer manager.lock.Release()
	if len(manager.ready) == 0 {
		return nil
	}
	p := manager.ready[0]
	manager.ready = manager.ready[1:]
	return p
}
