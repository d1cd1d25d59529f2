package touch

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/inky2048/internal/gesture"
)

// ErrMalformedLine is wrapped by ParseLine for lines it cannot decode.
var ErrMalformedLine = errors.New("malformed touch line")

var phaseNames = map[string]gesture.Phase{
	"down":   gesture.PhaseDown,
	"move":   gesture.PhaseMoving,
	"up":     gesture.PhaseUp,
	"cancel": gesture.PhaseCancelled,
}

// ParseLine decodes one line of the touch line protocol. Timestamps are
// offsets from base; a line without one yields a zero Time. ok is false
// for blank and comment lines.
func ParseLine(line string, base time.Time) (s gesture.Sample, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return gesture.Sample{}, false, nil
	}
	fields := strings.Fields(line)
	if len(fields) != 4 && len(fields) != 5 {
		return gesture.Sample{}, false, fmt.Errorf("%w: want 4 or 5 fields, got %d", ErrMalformedLine, len(fields))
	}

	phase, known := phaseNames[strings.ToLower(fields[0])]
	if !known {
		return gesture.Sample{}, false, fmt.Errorf("%w: unknown phase %q", ErrMalformedLine, fields[0])
	}
	id, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return gesture.Sample{}, false, fmt.Errorf("%w: contact id: %v", ErrMalformedLine, err)
	}
	x, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return gesture.Sample{}, false, fmt.Errorf("%w: x: %v", ErrMalformedLine, err)
	}
	y, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return gesture.Sample{}, false, fmt.Errorf("%w: y: %v", ErrMalformedLine, err)
	}

	if !finite(x) || !finite(y) {
		return gesture.Sample{}, false, fmt.Errorf("%w: non-finite position %q %q", ErrMalformedLine, fields[2], fields[3])
	}

	s = gesture.Sample{ID: int32(id), Pos: gesture.Point{X: x, Y: y}, Phase: phase}
	if len(fields) == 5 {
		ms, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil || ms < 0 {
			return gesture.Sample{}, false, fmt.Errorf("%w: timestamp %q", ErrMalformedLine, fields[4])
		}
		s.Time = base.Add(time.Duration(ms) * time.Millisecond)
	}
	return s, true, nil
}

// FormatLine renders s in the line protocol with its time as an offset
// from base. A zero Time is written without a timestamp.
func FormatLine(s gesture.Sample, base time.Time) string {
	line := fmt.Sprintf("%s %d %s %s", s.Phase, s.ID,
		strconv.FormatFloat(s.Pos.X, 'f', -1, 64), strconv.FormatFloat(s.Pos.Y, 'f', -1, 64))
	if !s.Time.IsZero() {
		line += " " + strconv.FormatInt(s.Time.Sub(base).Milliseconds(), 10)
	}
	return line
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
