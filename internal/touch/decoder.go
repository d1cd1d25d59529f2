package touch

import (
	"maps"
	"slices"
	"time"

	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/monitoring"
)

// Options controls how raw device events become samples.
type Options struct {
	// Compact selects the 16-byte input_event layout of 32-bit kernels.
	Compact bool

	// Orientation. Flips are applied against the raw axis maxima, then the
	// axes are swapped.
	FlipX  bool
	FlipY  bool
	SwapXY bool
	MaxX   int32
	MaxY   int32
}

// OptionsFromTuning reads the orientation settings from cfg.
func OptionsFromTuning(cfg *config.TuningConfig) Options {
	return Options{
		FlipX:  cfg.GetTouchFlipX(),
		FlipY:  cfg.GetTouchFlipY(),
		SwapXY: cfg.GetTouchSwapXY(),
		MaxX:   int32(cfg.GetTouchMaxX()),
		MaxY:   int32(cfg.GetTouchMaxY()),
	}
}

// Point maps a raw device position to display coordinates.
func (o Options) Point(x, y int32) gesture.Point {
	if o.FlipX {
		x = o.MaxX - x
	}
	if o.FlipY {
		y = o.MaxY - y
	}
	if o.SwapXY {
		x, y = y, x
	}
	return gesture.Point{X: float64(x), Y: float64(y)}
}

// slot is the state of one multitouch protocol B slot. Positions persist
// across contacts since the kernel only reports values that changed.
type slot struct {
	id     int32 // tracking id of the live contact
	active bool  // a Down has been emitted and no Up/Cancelled yet
	x, y   int32

	nextID int32
	began  bool
	moved  bool
	lifted bool
	palm   bool
}

// Decoder assembles protocol B event frames into samples. It is not safe
// for concurrent use.
type Decoder struct {
	opts     Options
	slots    map[int32]*slot
	cur      int32
	dropping bool
}

// NewDecoder returns a decoder with every slot empty.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts, slots: make(map[int32]*slot)}
}

func (d *Decoder) slot(n int32) *slot {
	s, ok := d.slots[n]
	if !ok {
		s = &slot{}
		d.slots[n] = s
	}
	return s
}

// Feed consumes one event. Samples are only produced on SYN_REPORT and
// SYN_DROPPED; other events update slot state and return nil.
func (d *Decoder) Feed(ev Event) []gesture.Sample {
	switch ev.Type {
	case EV_SYN:
		switch ev.Code {
		case SYN_REPORT:
			if d.dropping {
				d.dropping = false
				return nil
			}
			return d.flush(ev.Time)
		case SYN_DROPPED:
			d.dropping = true
			return d.cancelAll(ev.Time)
		}
	case EV_ABS:
		if d.dropping {
			return nil
		}
		d.abs(ev.Code, ev.Value)
	}
	return nil
}

func (d *Decoder) abs(code uint16, value int32) {
	switch code {
	case ABS_MT_SLOT:
		d.cur = value
	case ABS_MT_TRACKING_ID:
		s := d.slot(d.cur)
		if value < 0 {
			s.lifted = true
			return
		}
		s.nextID, s.began, s.lifted = value, true, false
	case ABS_MT_POSITION_X:
		s := d.slot(d.cur)
		s.x, s.moved = value, true
	case ABS_MT_POSITION_Y:
		s := d.slot(d.cur)
		s.y, s.moved = value, true
	case ABS_MT_TOOL_TYPE:
		if value == MT_TOOL_PALM {
			d.slot(d.cur).palm = true
		}
	}
}

func (d *Decoder) sample(s *slot, phase gesture.Phase, at time.Time) gesture.Sample {
	return gesture.Sample{ID: s.id, Pos: d.opts.Point(s.x, s.y), Phase: phase, Time: at}
}

// flush emits the samples for one completed frame in slot order.
func (d *Decoder) flush(at time.Time) []gesture.Sample {
	var out []gesture.Sample
	for _, n := range slices.Sorted(maps.Keys(d.slots)) {
		s := d.slots[n]
		switch {
		case s.palm:
			if s.active {
				out = append(out, d.sample(s, gesture.PhaseCancelled, at))
				monitoring.Debugf("touch: palm rejected on slot %d", n)
			}
			s.active = false
		case s.began:
			if s.active {
				// The previous contact in this slot ended without a lift.
				out = append(out, d.sample(s, gesture.PhaseCancelled, at))
			}
			s.id, s.active = s.nextID, true
			out = append(out, d.sample(s, gesture.PhaseDown, at))
			if s.lifted {
				out = append(out, d.sample(s, gesture.PhaseUp, at))
				s.active = false
			}
		case s.lifted:
			if s.active {
				out = append(out, d.sample(s, gesture.PhaseUp, at))
			}
			s.active = false
		case s.moved:
			if s.active {
				out = append(out, d.sample(s, gesture.PhaseMoving, at))
			}
		}
		s.began, s.moved, s.lifted, s.palm = false, false, false, false
	}
	return out
}

// cancelAll ends every live contact after the kernel dropped events.
func (d *Decoder) cancelAll(at time.Time) []gesture.Sample {
	var out []gesture.Sample
	for _, n := range slices.Sorted(maps.Keys(d.slots)) {
		s := d.slots[n]
		if s.active {
			out = append(out, d.sample(s, gesture.PhaseCancelled, at))
		}
		s.active, s.began, s.moved, s.lifted, s.palm = false, false, false, false, false
	}
	if len(out) > 0 {
		monitoring.Logf("touch: events dropped by kernel, cancelled %d contact(s)", len(out))
	}
	return out
}

// Active returns the number of contacts that are down.
func (d *Decoder) Active() int {
	n := 0
	for _, s := range d.slots {
		if s.active {
			n++
		}
	}
	return n
}
