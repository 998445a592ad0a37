package timer

import (
	"testing"

	"rvcore/kernel/mem"
)

func TestSetNextTriggerAdvancesOneQuantum(t *testing.T) {
	// sbi.SetTimer and cpu.ReadTime both reach real assembly this
	// package has no mock seam for; this test only checks the quantum
	// arithmetic SetNextTrigger is built on, the part that would be
	// silently wrong if ClockFreq/TicksPerSec ever drifted out of
	// sync with each other.
	quantum := mem.ClockFreq / mem.TicksPerSec
	if quantum == 0 {
		t.Fatal("expected a non-zero tick quantum")
	}
	if mem.ClockFreq%mem.TicksPerSec != 0 {
		t.Logf("ClockFreq %d is not an exact multiple of TicksPerSec %d; ticks will drift slightly", mem.ClockFreq, mem.TicksPerSec)
	}
}
