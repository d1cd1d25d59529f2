package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/inky2048/internal/config"
)

// Axis names the horizontal or vertical axis.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return config.AxisVertical
	}
	return config.AxisHorizontal
}

// ParseAxis parses "horizontal" or "vertical".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case config.AxisHorizontal:
		return Horizontal, nil
	case config.AxisVertical:
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// Thresholds bound what counts as a swipe.
type Thresholds struct {
	// MinDistance is the minimum displacement along the dominant axis, in
	// device pixels. Anything shorter is a tap or jitter.
	MinDistance float64
	// MaxDuration caps finger-down to release for a completed swipe.
	// Zero disables the cap.
	MaxDuration time.Duration
	// TieBreak selects the axis when |dx| == |dy|.
	TieBreak Axis
}

// Decision is the classifier's verdict for one displacement.
type Decision struct {
	Direction Direction
	// Decided is false below the distance threshold; Direction is then
	// meaningless.
	Decided bool
	// Completable reports whether a release now would count as a swipe.
	Completable bool
}

// Classify reduces a displacement to one of four directions using the
// dominant axis. It is a pure function of its arguments.
func Classify(d Point, elapsed time.Duration, th Thresholds) Decision {
	if !finite(d.X) || !finite(d.Y) {
		return Decision{}
	}
	ax, ay := math.Abs(d.X), math.Abs(d.Y)

	horizontal := ax > ay || (ax == ay && th.TieBreak == Horizontal)

	var (
		magnitude float64
		dir       Direction
	)
	if horizontal {
		magnitude = ax
		dir = Right
		if d.X < 0 {
			dir = Left
		}
	} else {
		magnitude = ay
		dir = Down
		if d.Y < 0 {
			dir = Up
		}
	}

	if magnitude < th.MinDistance {
		return Decision{}
	}

	return Decision{
		Direction:   dir,
		Decided:     true,
		Completable: th.MaxDuration <= 0 || elapsed <= th.MaxDuration,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
