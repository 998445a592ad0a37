// Package sbi wraps the Supervisor Binary Interface ecalls the kernel
// relies on for the three things firmware does for it: early console
// I/O, the next-timer-interrupt schedule and machine shutdown. Every
// function here is a thin, allocation-free wrapper around cpu.Ecall;
// none of it is implemented by this kernel, it is consumed from
// whatever firmware (OpenSBI, ...) booted the hart.
package sbi

import (
	"unsafe"

	"rvcore/kernel/cpu"
)

// Standard SBI extension ids this kernel calls into.
const (
	extSetTimer     uintptr = 0x0
	extConsolePutc  uintptr = 0x1
	extConsoleGetc  uintptr = 0x2
	extShutdown     uintptr = 0x53525354 // "SRST" (System Reset)
	extDebugConsole uintptr = 0x4442434E // "DBCN"
)

// Debug Console extension (DBCN) function ids.
const (
	fidDBCNWrite uintptr = 0
	fidDBCNRead  uintptr = 1
)

// sbiErrNotSupported is SBI_ERR_NOT_SUPPORTED (-2), the standard error
// code firmware returns in a0 when it has no implementation of the
// requested extension.
const sbiErrNotSupported = ^uintptr(1)

// haveDBCN and haveDBCNRead cache, independently, whether this
// platform's firmware implements the Debug Console extension's write
// and read calls, so a firmware lacking one only costs a single
// failed ecall rather than one per ConsoleWrite/ConsoleGetchar call.
var (
	haveDBCN     = true
	haveDBCNRead = true
)

// SetTimer schedules the next supervisor-timer interrupt to fire once
// the `time` CSR reaches the given absolute tick count.
func SetTimer(stimeValue uint64) {
	cpu.Ecall(extSetTimer, 0, uintptr(stimeValue), 0, 0)
}

// ConsolePutchar writes a single byte to the firmware console through
// the legacy single-byte ecall. ConsoleWrite uses it as its fallback
// once DBCN proves unsupported; nothing else needs a one-byte-at-a-
// time path.
func ConsolePutchar(ch byte) {
	cpu.Ecall(extConsolePutc, 0, uintptr(ch), 0, 0)
}

// ConsoleGetchar reads a single byte from the firmware console,
// through the Debug Console extension's physical-descriptor read call
// where available, falling back once to the legacy single-byte ecall
// the first time DBCN read proves unsupported. It returns false if no
// byte is currently available.
func ConsoleGetchar() (byte, bool) {
	if haveDBCNRead {
		var buf [1]byte
		addr := uintptr(unsafe.Pointer(&buf[0]))
		errno, n := cpu.Ecall(extDebugConsole, fidDBCNRead, 1, addr, 0)
		if errno == sbiErrNotSupported {
			haveDBCNRead = false
		} else if errno == 0 {
			if n == 0 {
				return 0, false
			}
			return buf[0], true
		} else {
			return 0, false
		}
	}
	// Legacy extensions return their result in a0, not a1.
	value, _ := cpu.Ecall(extConsoleGetc, 0, 0, 0, 0)
	if int(value) < 0 {
		return 0, false
	}
	return byte(value), true
}

// ConsoleWrite writes p to the firmware console using the Debug
// Console extension's physical memory descriptor call: (len, addr_lo,
// addr_hi). p must already be addressed by a physical (equivalently,
// kernel-identity-mapped) pointer, which is what every caller in this
// kernel holds: vmm.TranslatedByteBuffer hands back slices backed by
// the identity-mapped physical frames underlying a user buffer. It
// falls back to one ConsolePutchar call per byte the first time DBCN
// proves unsupported, and remembers that for subsequent calls.
func ConsoleWrite(p []byte) {
	if len(p) == 0 {
		return
	}
	if haveDBCN {
		addr := uintptr(unsafe.Pointer(&p[0]))
		errno, _ := cpu.Ecall(extDebugConsole, fidDBCNWrite, uintptr(len(p)), addr, 0)
		if errno != sbiErrNotSupported {
			return
		}
		haveDBCN = false
	}
	for _, b := range p {
		ConsolePutchar(b)
	}
}

// Console implements hal.Console on top of the SBI console calls
// (DBCN where the firmware supports it, the legacy single-byte ecalls
// otherwise). It is the only hal.Console implementation in this
// repository; kmain installs it as hal.ActiveConsole before any code
// that might call early.Printf runs.
type Console struct{}

// WriteByte implements hal.Console.
func (Console) WriteByte(b byte) { ConsolePutchar(b) }

// Write implements hal.Console.
func (Console) Write(p []byte) { ConsoleWrite(p) }

// ReadByte implements hal.Console.
func (Console) ReadByte() (byte, bool) { return ConsoleGetchar() }

// Shutdown performs an SBI system reset. If failure is true, the
// reset reason reported to firmware indicates a system failure rather
// than a normal shutdown. This call never returns.
func Shutdown(failure bool) {
	reason := uintptr(0)
	if failure {
		reason = 1
	}
	// type=0 (shutdown), reason in arg1.
	cpu.Ecall(extShutdown, 0, 0, reason, 0)
	for {
		cpu.Halt()
	}
}
