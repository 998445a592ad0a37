// Package timer reads the free-running `time` CSR and schedules the
// next supervisor-timer interrupt through SBI, the two primitives
// preemptive scheduling is built on.
package timer

import (
	"rvcore/kernel/cpu"
	"rvcore/kernel/mem"
	"rvcore/kernel/sbi"
)

// Read returns the current value of the `time` CSR.
func Read() uint64 {
	return cpu.ReadTime()
}

// SetNextTrigger arms the next timer interrupt one tick (1/TicksPerSec
// of a second) from now.
func SetNextTrigger() {
	sbi.SetTimer(Read() + mem.ClockFreq/mem.TicksPerSec)
}
