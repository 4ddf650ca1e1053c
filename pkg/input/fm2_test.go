package input

import (
	"strings"
	"testing"
)

func TestParseFM2SkipsCommentsAndParsesFrames(t *testing.T) {
	data := `version 3
emuVersion 22020
|0|........|........|
|1|R.......|........|
|2|.......A|........|
not a pipe line
|0|RLDUSsBA|........|
`
	m, err := ParseFM2(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Implicit leading power event, plus four frame lines.
	if len(m.Events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(m.Events))
	}

	first, _ := m.Next()
	if !first.Power {
		t.Fatal("expected the implicit leading event to be a power-on")
	}

	idle, _ := m.Next()
	if idle.Reset || idle.Power || idle.Port0 != (Buttons{}) {
		t.Fatalf("expected an idle frame, got %+v", idle)
	}

	resetEv, _ := m.Next()
	if !resetEv.Reset {
		t.Fatal("command 1 should set Reset")
	}
	if !resetEv.Port0.Right {
		t.Fatal("expected Right held from the R in column 0")
	}

	powerEv, _ := m.Next()
	if !powerEv.Power {
		t.Fatal("command 2 should set Power")
	}
	if !powerEv.Port0.A {
		t.Fatal("expected A held from the A in column 7")
	}

	full, _ := m.Next()
	want := Buttons{Right: true, Left: true, Down: true, Up: true, Start: true, Select: true, B: true, A: true}
	if full.Port0 != want {
		t.Fatalf("full button line = %+v, want %+v", full.Port0, want)
	}

	if m.Len() != 0 {
		t.Fatalf("expected no events remaining, got %d", m.Len())
	}
	if _, ok := m.Next(); ok {
		t.Fatal("expected Next to report exhausted")
	}
}

func TestParseFM2IgnoresMalformedPipeLines(t *testing.T) {
	data := "|notanumber|........|........|\n|0|short|........|\n"
	m, err := ParseFM2(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The first line's unparseable command drops it entirely; the second
	// line parses as a no-op frame (its undersized port0 is ignored).
	if len(m.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(m.Events))
	}
	if last := m.Events[1]; last.HasPort0 {
		t.Fatal("expected the short port0 field to be ignored, not parsed")
	}
}
