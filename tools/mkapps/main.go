// mkapps concatenates a list of user ELF images into the flat binary
// blob the kernel's embedded app table describes: a little-endian
// quadword N, followed by N+1 quadwords giving each app's offset from
// byte 0 of the output (the last quadword is the end offset of the
// final app), followed by the concatenated app bytes. It is a host-only build step, never imported by kernel
// code and never linked into the kernel image, standing in for the
// linker-script magic a native toolchain would otherwise provide.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[mkapps] error: %s\n", err.Error())
	os.Exit(1)
}

// writeTable concatenates the contents of inputs into out, preceded by
// the quadword offset table. Offsets are relative to the start of the
// table itself (byte 0 of out), matching how task.InitAppManager reads
// NumAppTable: the first 8 bytes are the app count, the next
// (n+1)*8 bytes are offsets, and the app bytes begin immediately
// after the table.
func writeTable(out io.Writer, inputs [][]byte) error {
	n := len(inputs)
	headerSize := uint64(8 + 8*(n+1))

	offsets := make([]uint64, n+1)
	offset := headerSize
	for i, data := range inputs {
		offsets[i] = offset
		offset += uint64(len(data))
	}
	offsets[n] = offset

	if err := binary.Write(out, binary.LittleEndian, uint64(n)); err != nil {
		return err
	}
	if err := binary.Write(out, binary.LittleEndian, offsets); err != nil {
		return err
	}
	for _, data := range inputs {
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func runTool() error {
	output := flag.String("out", "-", "file to write the app table to, or - for STDOUT")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "mkapps: concatenate app ELF images into an embeddable app table\n\n")
		fmt.Fprint(os.Stderr, "Usage: mkapps [options] app0.elf app1.elf ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		exit(errors.New("at least one app ELF file is required"))
	}

	inputs := make([][]byte, flag.NArg())
	for i, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		inputs[i] = data
	}

	out := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return writeTable(out, inputs)
}

func main() {
	if err := runTool(); err != nil {
		exit(err)
	}
}
