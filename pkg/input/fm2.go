package input

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Event is one parsed line of an FM2 movie: a reset/power command, an
// optional port-0 button state, or both.
type Event struct {
	Reset    bool
	Power    bool
	Port0    Buttons
	HasPort0 bool
}

// Movie is a parsed FM2 recording: an ordered list of per-frame events,
// always beginning with an implicit power-on.
type Movie struct {
	Events []Event
	pos    int
}

// ParseFM2 reads a line-oriented FM2 movie. Lines beginning with `|` are
// frame records of the form `|command|port0|port1|exp|`: `command & 1`
// requests a reset, `command & 2` a power cycle; `port0` is exactly
// eight characters in the fixed order R, L, D, U, S, s (select), B, A,
// where any character other than `.` or space means the button is held.
// All other lines, and any `|` line that doesn't parse, are ignored —
// ParseFM2 never fails on malformed content, matching the reference
// tool's tolerant reader.
func ParseFM2(r io.Reader) (*Movie, error) {
	m := &Movie{Events: []Event{{Power: true}}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "|") {
			continue
		}
		fields := strings.Split(line, "|")
		// fields[0] is empty (split on leading |); need command, port0,
		// port1, exp after it.
		if len(fields) < 5 {
			continue
		}
		command, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			continue
		}

		var ev Event
		ev.Reset = command&1 != 0
		ev.Power = command&2 != 0

		port0 := fields[2]
		if len(port0) == 8 {
			pressed := func(c byte) bool { return c != '.' && c != ' ' }
			ev.Port0 = Buttons{
				Right:  pressed(port0[0]),
				Left:   pressed(port0[1]),
				Down:   pressed(port0[2]),
				Up:     pressed(port0[3]),
				Start:  pressed(port0[4]),
				Select: pressed(port0[5]),
				B:      pressed(port0[6]),
				A:      pressed(port0[7]),
			}
			ev.HasPort0 = true
		}

		m.Events = append(m.Events, ev)
	}
	return m, nil
}

// Next returns the movie's next event and advances the cursor, or
// reports ok=false once the recording is exhausted.
func (m *Movie) Next() (Event, bool) {
	if m.pos >= len(m.Events) {
		return Event{}, false
	}
	ev := m.Events[m.pos]
	m.pos++
	return ev, true
}

// Len reports how many events remain unread.
func (m *Movie) Len() int {
	return len(m.Events) - m.pos
}
