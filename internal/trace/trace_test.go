package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"store", LevelStore},
		{"value", LevelValue},
		{"VALUE", LevelValue},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseLevel(%q) = %v, %v", c.in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel should reject unknown levels")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	if LevelOff.ShouldEmit(OpDeclare) {
		t.Fatalf("off must emit nothing")
	}
	if !LevelStore.ShouldEmit(OpDefine) {
		t.Fatalf("store level covers definitions")
	}
	if LevelStore.ShouldEmit(OpAlloc) {
		t.Fatalf("store level must not cover value events")
	}
	if !LevelValue.ShouldEmit(OpDump) {
		t.Fatalf("value level covers everything")
	}
}

func TestStreamTracerFormatsEvents(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelValue)
	tr.Emit(&Event{Op: OpDefine, Type: "Pair", Size: 12})
	tr.Emit(&Event{Op: OpAlloc, Type: "List<Int64>", Addr: 0x40, Size: 18})
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "#1") || !strings.Contains(lines[0], "define") || !strings.Contains(lines[0], "Pair") || !strings.Contains(lines[0], "(12B)") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if strings.Contains(lines[0], "@") {
		t.Fatalf("zero address should not render: %q", lines[0])
	}
	if !strings.Contains(lines[1], "#2") || !strings.Contains(lines[1], "@0x40") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelStore)
	tr.Emit(&Event{Op: OpAlloc, Type: "Pair"})
	if buf.Len() != 0 {
		t.Fatalf("value event leaked through store level: %q", buf.String())
	}
	tr.Emit(&Event{Op: OpDeclare, Type: "Pair"})
	if buf.Len() == 0 {
		t.Fatalf("store event should be written")
	}
}

func TestRingTracerWrapsAround(t *testing.T) {
	tr := NewRingTracer(4, LevelValue)
	for i := 0; i < 6; i++ {
		tr.Emit(&Event{Op: OpAlloc, Type: "T", Addr: uint64(i + 1)})
	}
	snap := tr.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 retained events, got %d", len(snap))
	}
	if snap[0].Addr != 3 || snap[3].Addr != 6 {
		t.Fatalf("snapshot not chronological: first %#x last %#x", snap[0].Addr, snap[3].Addr)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 4 {
		t.Fatalf("Dump wrote %d lines, want 4", got)
	}
}

func TestRingTracerPartialFill(t *testing.T) {
	tr := NewRingTracer(8, LevelValue)
	tr.Emit(&Event{Op: OpFree, Type: "T"})
	snap := tr.Snapshot()
	if len(snap) != 1 || snap[0].Op != OpFree {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestNewFansOutToAllSinks(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelValue)
	ring := NewRingTracer(8, LevelValue)
	tr := New(LevelValue, stream, ring)

	tr.Emit(&Event{Op: OpCopy, Type: "Pair", Size: 12})
	if buf.Len() == 0 {
		t.Fatalf("stream sink missed the event")
	}
	if len(ring.Snapshot()) != 1 {
		t.Fatalf("ring sink missed the event")
	}
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewUnwrapsTrivialCases(t *testing.T) {
	if tr := New(LevelOff, NewRingTracer(8, LevelValue)); tr != Nop {
		t.Fatalf("off level should yield the nop tracer, got %T", tr)
	}
	if tr := New(LevelValue); tr != Nop {
		t.Fatalf("no sinks should yield the nop tracer, got %T", tr)
	}

	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelValue)
	if tr := New(LevelValue, stream); tr != Tracer(stream) {
		t.Fatalf("single sink should be returned unwrapped, got %T", tr)
	}
}

func TestNopTracerIsDisabled(t *testing.T) {
	if Nop.Enabled() {
		t.Fatalf("nop tracer must report disabled")
	}
	Nop.Emit(&Event{Op: OpDump, Type: "Pair"})
	if err := Nop.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := Nop.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
