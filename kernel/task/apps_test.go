package task

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"rvcore/kernel/mem"
)

// buildAppTable writes the same table shape tools/mkapps produces:
// a quadword count, then count+1 quadwords of offsets relative to
// byte 0 of the table, then the concatenated app bytes.
func buildAppTable(apps [][]byte) []byte {
	n := len(apps)
	headerSize := uint64(8 + 8*(n+1))

	var buf []byte
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header[0:8], uint64(n))

	offset := headerSize
	for i, a := range apps {
		binary.LittleEndian.PutUint64(header[8+8*i:8+8*i+8], offset)
		offset += uint64(len(a))
	}
	binary.LittleEndian.PutUint64(header[8+8*n:8+8*n+8], offset)

	buf = append(buf, header...)
	for _, a := range apps {
		buf = append(buf, a...)
	}
	return buf
}

func withAppTable(t *testing.T, apps [][]byte) {
	t.Helper()
	blob := buildAppTable(apps)

	orig := mem.PhysToVirt
	base := uintptr(unsafe.Pointer(&blob[0]))
	mem.PhysToVirt = func(pa uintptr) uintptr { return base + (pa - uintptr(0x1000)) }
	t.Cleanup(func() { mem.PhysToVirt = orig })

	NumAppTable = 0x1000
	InitAppManager()
}

func TestInitAppManagerReadsTableAndLoadsApps(t *testing.T) {
	apps := [][]byte{[]byte("hello world"), []byte("second app payload")}
	withAppTable(t, apps)

	if got := NumApps(); got != len(apps) {
		t.Fatalf("NumApps() = %d, want %d", got, len(apps))
	}

	for i, want := range apps {
		got, err := LoadApp(i)
		if err != nil {
			t.Fatalf("LoadApp(%d) failed: %v", i, err)
		}
		if string(got) != string(want) {
			t.Fatalf("LoadApp(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestLoadAppRejectsOutOfRangeID(t *testing.T) {
	withAppTable(t, [][]byte{[]byte("only app")})

	if _, err := LoadApp(-1); err == nil {
		t.Fatal("expected LoadApp(-1) to fail")
	}
	if _, err := LoadApp(1); err == nil {
		t.Fatal("expected LoadApp(1) to fail when only one app is registered")
	}
}

func TestLoadAppByNameParsesDecimalID(t *testing.T) {
	apps := [][]byte{[]byte("app zero"), []byte("app one"), []byte("app two")}
	withAppTable(t, apps)

	got, err := LoadAppByName("2")
	if err != nil {
		t.Fatalf("LoadAppByName(\"2\") failed: %v", err)
	}
	if string(got) != "app two" {
		t.Fatalf("LoadAppByName(\"2\") = %q, want %q", got, "app two")
	}

	if _, err := LoadAppByName("not-a-number"); err == nil {
		t.Fatal("expected a non-numeric app name to fail")
	}
}
