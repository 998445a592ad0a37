// Package hal isolates the one genuinely platform-specific concern the
// rest of the kernel needs before any real driver model exists: where
// early boot output goes. Everything else the kernel consumes from the
// platform (timer, shutdown) talks to the SBI firmware directly through
// the sbi package.
package hal

// Console is implemented by anything that can receive the kernel's
// early, allocation-free diagnostic output. The only implementation in
// this repository forwards to the SBI console-putchar/console-write
// ecalls; tests install a buffering fake.
type Console interface {
	WriteByte(b byte)
	Write(p []byte)
	ReadByte() (b byte, ok bool)
}

// ActiveConsole is the console instance used by kernel/kfmt/early.
// It is set once during boot, before any subsystem that might call
// early.Printf is initialized.
var ActiveConsole Console
