package mem

import (
	"errors"
	"strings"
	"testing"
)

func expectFault(t *testing.T, kind FaultKind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected %v fault, got none", kind)
		}
		f, ok := r.(*Fault)
		if !ok {
			t.Fatalf("expected *Fault panic, got %T", r)
		}
		if f.Kind != kind {
			t.Fatalf("fault kind = %v, want %v", f.Kind, kind)
		}
	}()
	fn()
}

func TestAllocNeverReturnsNull(t *testing.T) {
	m := New()
	a := m.Alloc(1, 1, false)
	if a == 0 {
		t.Fatalf("first allocation must not land at the null address")
	}
}

func TestAllocAlignsPayload(t *testing.T) {
	m := New()
	m.Alloc(1, 3, false)
	a := m.Alloc(8, 16, false)
	if a%8 != 0 {
		t.Fatalf("payload %#x not aligned to 8", uint64(a))
	}
}

func TestAllocZeroSize(t *testing.T) {
	m := New()
	if a := m.Alloc(8, 0, true); a != 0 {
		t.Fatalf("zero-size allocation should return null, got %#x", uint64(a))
	}
	m.Free(0) // freeing null is a no-op
	if err := m.LeakCheck(); err != nil {
		t.Fatalf("LeakCheck: %v", err)
	}
}

func TestAllocZeroFills(t *testing.T) {
	m := New()
	a := m.Alloc(1, 8, false)
	m.PutI64(a, -1)
	m.Free(a)
	b := m.Alloc(1, 8, true)
	if got := m.I64(b); got != 0 {
		t.Fatalf("zeroed allocation reads %d", got)
	}
}

func TestFreeShrinksTailBlock(t *testing.T) {
	m := New()
	base := m.Size()
	a := m.Alloc(8, 64, false)
	m.Free(a)
	if m.Size() != base {
		t.Fatalf("freeing the last block should shrink: size %d, want %d", m.Size(), base)
	}
}

func TestDoubleFreeFaults(t *testing.T) {
	m := New()
	a := m.Alloc(1, 4, false)
	m.Free(a)
	expectFault(t, FaultDoubleFree, func() { m.Free(a) })
}

func TestInvalidFreeFaults(t *testing.T) {
	m := New()
	m.Alloc(1, 4, false)
	expectFault(t, FaultInvalidFree, func() { m.Free(Addr(12345)) })
}

func TestOutOfBoundsFaults(t *testing.T) {
	m := New()
	a := m.Alloc(1, 4, false)
	expectFault(t, FaultOutOfBounds, func() { m.I64(a + Addr(m.Size())) })
	expectFault(t, FaultOutOfBounds, func() { m.Byte(0) })
}

func TestAllocLimitFaults(t *testing.T) {
	m := NewWithLimit(128)
	expectFault(t, FaultOutOfMemory, func() { m.Alloc(1, 4096, false) })
}

func TestLeakCheckReportsLiveBlocks(t *testing.T) {
	m := New()
	a := m.Alloc(1, 4, false)
	b := m.Alloc(1, 8, false)
	err := m.LeakCheck()
	if err == nil {
		t.Fatalf("expected leak report")
	}
	if !strings.Contains(err.Error(), "2 blocks") || !strings.Contains(err.Error(), "12 bytes") {
		t.Fatalf("unexpected leak report: %v", err)
	}
	if m.LiveCount() != 2 || m.LiveBytes() != 12 {
		t.Fatalf("live = %d blocks %d bytes", m.LiveCount(), m.LiveBytes())
	}
	m.Free(b)
	m.Free(a)
	if err := m.LeakCheck(); err != nil {
		t.Fatalf("LeakCheck after freeing: %v", err)
	}
}

func TestScalarRoundTrips(t *testing.T) {
	m := New()
	a := m.Alloc(8, 32, true)
	m.PutBool(a, true)
	if !m.Bool(a) {
		t.Fatalf("bool round trip")
	}
	m.PutU16(a+2, 0xBEEF)
	if m.U16(a+2) != 0xBEEF {
		t.Fatalf("u16 round trip")
	}
	m.PutI32(a+4, -7)
	if m.I32(a+4) != -7 {
		t.Fatalf("i32 round trip")
	}
	m.PutI64(a+8, -1<<40)
	if m.I64(a+8) != -1<<40 {
		t.Fatalf("i64 round trip")
	}
	m.PutPtr(a+16, a)
	if m.PtrAt(a+16) != a {
		t.Fatalf("ptr round trip")
	}
}

func TestLittleEndianEncoding(t *testing.T) {
	m := New()
	a := m.Alloc(8, 8, true)
	m.PutI64(a, 0x0102030405060708)
	if m.Byte(a) != 0x08 || m.Byte(a+7) != 0x01 {
		t.Fatalf("expected little-endian bytes, got %#x..%#x", m.Byte(a), m.Byte(a+7))
	}
}

func TestCopyOverlapping(t *testing.T) {
	m := New()
	a := m.Alloc(1, 8, true)
	for i := 0; i < 8; i++ {
		m.PutByte(a+Addr(i), byte(i))
	}
	m.Copy(a+2, a, 6)
	for i := 0; i < 6; i++ {
		if got := m.Byte(a + 2 + Addr(i)); got != byte(i) {
			t.Fatalf("byte %d = %d after overlapping copy", i, got)
		}
	}
}

func TestCStringRoundTrip(t *testing.T) {
	m := New()
	a := m.AllocCString("hello")
	if got := m.CString(a); got != "hello" {
		t.Fatalf("CString = %q", got)
	}
	if m.CString(0) != "" {
		t.Fatalf("null C-string should read empty")
	}
}

func TestWithTemporaryReleasesOnAllPaths(t *testing.T) {
	m := New()
	base := m.Size()
	sentinel := errors.New("stop")
	err := m.WithTemporary(8, 64, func(a Addr) error {
		if a == 0 {
			t.Fatalf("expected a real buffer")
		}
		m.PutI64(a, 42)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("error not propagated: %v", err)
	}
	if m.Size() != base || m.LiveCount() != 0 {
		t.Fatalf("temporary not released")
	}
}

func TestWithTemporaryZeroSize(t *testing.T) {
	m := New()
	called := false
	err := m.WithTemporary(8, 0, func(a Addr) error {
		called = true
		if a != 0 {
			t.Fatalf("zero-size temporary should be null")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("fn not called cleanly: %v", err)
	}
}
