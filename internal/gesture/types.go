package gesture

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the lifecycle tag carried by a raw contact sample.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMoving
	PhaseUp
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMoving:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancelled:
		return "cancel"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Point is a position or displacement in device coordinates. Y grows
// downwards, so a negative Y displacement is an upward motion.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Sample is one raw contact report from the digitizer.
type Sample struct {
	ID    int32 // stable for one finger-down..finger-up session
	Pos   Point
	Phase Phase
	Time  time.Time // zero means "stamp on arrival"
}

// Direction is one of the four swipe directions. There are no diagonals.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left

	numDirections
)

var directionNames = [...]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d.valid() {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

func (d Direction) valid() bool { return d >= 0 && d < numDirections }

// ParseDirection parses the lower-case name produced by Direction.String.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Trigger is the phase of a gesture at which a caller wants to be told
// about it.
type Trigger int

const (
	// Started would fire at finger-down. The direction is unknown at that
	// point, so NewSpecSet rejects it.
	Started Trigger = iota
	// InProgress fires once, on the move sample where the direction is
	// first decided.
	InProgress
	// Completed fires on release if the gesture still qualifies.
	Completed

	numTriggers
)

var triggerNames = [...]string{"started", "in_progress", "completed"}

func (t Trigger) String() string {
	if t >= 0 && t < numTriggers {
		return triggerNames[t]
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// ParseTrigger parses the name produced by Trigger.String.
func ParseTrigger(s string) (Trigger, error) {
	for i, name := range triggerNames {
		if strings.EqualFold(s, name) {
			return Trigger(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedTrigger, s)
}

// SwipeSpec is a (Direction, Trigger) pair a caller is interested in.
type SwipeSpec struct {
	Direction Direction
	Trigger   Trigger
}

func (s SwipeSpec) String() string {
	return s.Direction.String() + "/" + s.Trigger.String()
}

// Swipe is a recognised gesture reported to the caller.
type Swipe struct {
	ContactID    int32
	Direction    Direction
	Trigger      Trigger
	Displacement Point         // last position minus origin at report time
	Elapsed      time.Duration // since finger-down
	Time         time.Time     // time of the sample that produced the report
}

func (s Swipe) String() string {
	return fmt.Sprintf("Swipe{contact=%d %s/%s d=(%.0f,%.0f) t=%s}",
		s.ContactID, s.Direction, s.Trigger, s.Displacement.X, s.Displacement.Y, s.Elapsed)
}
