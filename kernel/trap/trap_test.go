package trap

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		scause uintptr
		want   Reason
	}{
		{"user ecall", causeUserEnvCall, ReasonSyscall},
		{"store fault", causeStoreFault, ReasonPageFault},
		{"store page fault", causeStorePageFault, ReasonPageFault},
		{"load fault", causeLoadFault, ReasonPageFault},
		{"load page fault", causeLoadPageFault, ReasonPageFault},
		{"instruction fault", causeInstructionFault, ReasonPageFault},
		{"illegal instruction", causeIllegalInstruction, ReasonIllegalInstruction},
		{"supervisor timer", causeSupervisorTimer, ReasonTimer},
		{"unknown", uintptr(0x1234), ReasonUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classify(c.scause); got != c.want {
				t.Errorf("classify(0x%x) = %v; want %v", c.scause, got, c.want)
			}
		})
	}
}

func TestTrapHandlerEntryHaltsWithoutHandler(t *testing.T) {
	// trapHandlerEntry spins forever when Handler is nil; there is
	// nothing to assert here beyond "Handler must be set before this
	// runs", which the doc comment on Handler already states. Calling
	// it with a nil Handler is intentionally not exercised since it
	// would hang this test.
	if Handler != nil {
		t.Skip("Handler already set by another test in this package")
	}
}

func TestHandlerDispatchesClassifiedReason(t *testing.T) {
	defer func() { Handler = nil }()

	var gotReason Reason
	var gotScause, gotStval uintptr
	Handler = func(reason Reason, scause, stval uintptr) {
		gotReason = reason
		gotScause = scause
		gotStval = stval
	}

	// Exercise Handler directly the way trapHandlerEntry would, since
	// trapHandlerEntry itself reads live CSR state via cpu.ReadScause/
	// ReadStval that isn't available under go test.
	Handler(classify(causeUserEnvCall), causeUserEnvCall, 0xdead)

	if gotReason != ReasonSyscall {
		t.Errorf("expected ReasonSyscall; got %v", gotReason)
	}
	if gotScause != causeUserEnvCall {
		t.Errorf("expected scause 0x%x; got 0x%x", uintptr(causeUserEnvCall), gotScause)
	}
	if gotStval != 0xdead {
		t.Errorf("expected stval 0xdead; got 0x%x", gotStval)
	}
}
