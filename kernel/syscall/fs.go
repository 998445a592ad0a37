package syscall

import (
	"rvcore/kernel/hal"
	"rvcore/kernel/mem/vmm"
	"rvcore/kernel/task"
)

const (
	fdStdin  = 0
	fdStdout = 1
)

// doWrite writes len bytes starting at buf (a user-space pointer) to
// fd. Only stdout is wired up; any other fd kills the calling process
// (there is no stub VFS to fall back on), it does not halt the kernel.
func doWrite(fd int, buf, length uintptr) int64 {
	if fd != fdStdout {
		task.ExitCurrentAndRunNext(-1)
		return -1
	}
	buffers, err := vmm.TranslatedByteBuffer(task.CurrentUserToken(), buf, length)
	if err != nil {
		task.ExitCurrentAndRunNext(-1)
		return -1
	}
	for _, b := range buffers {
		hal.ActiveConsole.Write(b)
	}
	return int64(length)
}

// doRead reads up to len bytes from fd into buf (a user-space
// pointer). Only stdin is wired up.
func doRead(fd int, buf, length uintptr) int64 {
	if fd != fdStdin {
		task.ExitCurrentAndRunNext(-1)
		return -1
	}
	buffers, err := vmm.TranslatedByteBuffer(task.CurrentUserToken(), buf, length)
	if err != nil {
		task.ExitCurrentAndRunNext(-1)
		return -1
	}

	var read int64
	for _, b := range buffers {
		for i := range b {
			ch, ok := hal.ActiveConsole.ReadByte()
			for !ok {
				task.SuspendCurrentAndRunNext()
				ch, ok = hal.ActiveConsole.ReadByte()
			}
			b[i] = ch
			read++
		}
	}
	return read
}
