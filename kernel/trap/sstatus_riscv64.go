package trap

import "rvcore/kernel/cpu"

// sstatusSPP is the Previous Privilege bit: 0 means the trap that
// brought us to supervisor mode came from U-mode, 1 means it came
// from S-mode. sret resumes at whichever level this bit names.
const sstatusSPP = 1 << 8

// sstatusForUser returns an sstatus value that, when restored via
// sret, drops the hart into U-mode. It starts from the live sstatus
// CSR (to preserve unrelated fields such as FS/XS) and clears SPP.
func sstatusForUser() uintptr {
	return cpu.ReadSstatus() &^ sstatusSPP
}
