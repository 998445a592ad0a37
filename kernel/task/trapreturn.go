package task

import "rvcore/kernel/trap"

// trapReturnEntry is where a process's saved ra points the very first
// time it is switched onto the hart (see GotoTrapReturn). Like
// trap.trapHandlerEntry, it is reached by a raw register-level jump
// rather than a normal call, so it must derive everything it needs
// from the current process rather than from arguments.
func trapReturnEntry() {
	p := CurrentProcess()
	trap.TrapReturn(p.TrapContext(), p.UserToken())
}
