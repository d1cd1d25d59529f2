package gesture

import (
	"context"
	"time"

	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/monitoring"
	"github.com/banshee-data/inky2048/internal/timeutil"
)

// Config holds the tracker parameters.
type Config struct {
	Thresholds   Thresholds
	StaleTimeout time.Duration // idle time after which a contact may be reclaimed for a new Down; zero disables
	MaxContacts  int           // live contacts tracked at once; zero means unbounded
}

// DefaultConfig returns the built-in tracker parameters.
func DefaultConfig() Config {
	return ConfigFromTuning(config.DefaultTuningConfig())
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	axis, err := ParseAxis(cfg.GetTieBreakAxis())
	if err != nil {
		axis = Horizontal
	}
	return Config{
		Thresholds: Thresholds{
			MinDistance: cfg.GetMinSwipeDistance(),
			MaxDuration: cfg.GetMaxSwipeDuration(),
			TieBreak:    axis,
		},
		StaleTimeout: cfg.GetStaleContactTimeout(),
		MaxContacts:  cfg.GetMaxContacts(),
	}
}

// Stats counts what the tracker has seen since construction or Reset.
type Stats struct {
	Samples uint64 // samples passed to Detect
	Dropped uint64 // samples ignored: unknown id, table full, bad phase
	Evicted uint64 // contacts removed by the stale timeout
	Emitted uint64 // swipes returned to callers
}

// Tracker recognises swipes across a stream of samples. It is not safe for
// concurrent use; feed it from a single goroutine.
type Tracker struct {
	cfg      Config
	clock    timeutil.Clock
	contacts *contactTable
	stats    Stats
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used to stamp samples with a zero Time.
func WithClock(c timeutil.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:      cfg,
		clock:    timeutil.RealClock{},
		contacts: newContactTable(cfg.MaxContacts),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Detect feeds one sample through the tracker and returns the swipes it
// completes or starts that specs asks for. The result is usually empty
// and never holds more than one swipe. Malformed input is dropped, never
// reported as an error.
func (t *Tracker) Detect(s Sample, specs *SpecSet) []Swipe {
	t.stats.Samples++
	if s.Time.IsZero() {
		s.Time = t.clock.Now()
	}

	switch s.Phase {
	case PhaseDown:
		t.reclaim(s)
		if _, ok := t.contacts.begin(s); !ok {
			t.drop(s, "contact table full")
		}
		return nil

	case PhaseMoving:
		c, ok := t.contacts.advance(s)
		if !ok {
			t.drop(s, "unknown contact")
			return nil
		}
		if c.decided {
			return nil
		}
		d := Classify(c.displacement(), c.elapsed(), t.cfg.Thresholds)
		if !d.Decided {
			return nil
		}
		c.decided, c.dir = true, d.Direction
		return t.report(c, InProgress, s.Time, specs)

	case PhaseUp:
		c, ok := t.contacts.advance(s)
		if !ok {
			t.drop(s, "unknown contact")
			return nil
		}
		defer t.contacts.remove(c.id)
		if !specs.Wants(Completed) {
			return nil
		}

		d := Classify(c.displacement(), c.elapsed(), t.cfg.Thresholds)
		if !d.Decided || !d.Completable {
			return nil
		}
		if !c.decided {
			c.decided, c.dir = true, d.Direction
		}
		return t.report(c, Completed, s.Time, specs)

	case PhaseCancelled:
		if !t.contacts.remove(s.ID) {
			t.drop(s, "unknown contact")
		}
		return nil
	}

	t.drop(s, "unknown phase")
	return nil
}

// reclaim evicts idle contacts to make room for the new contact s. A
// finger resting without motion sends nothing, so idle contacts are only
// given up when the table needs the slot, or on every new Down when the
// table is unbounded. A Down for a live id restarts it and needs no room.
func (t *Tracker) reclaim(s Sample) {
	if t.cfg.StaleTimeout <= 0 || t.contacts.has(s.ID) {
		return
	}
	if t.cfg.MaxContacts > 0 && t.contacts.len() < t.cfg.MaxContacts {
		return
	}
	if n := t.contacts.evictIdle(s.Time, t.cfg.StaleTimeout); n > 0 {
		t.stats.Evicted += uint64(n)
		monitoring.Debugf("gesture: evicted %d stale contact(s)", n)
	}
}

func (t *Tracker) report(c *contact, trigger Trigger, at time.Time, specs *SpecSet) []Swipe {
	if !specs.Contains(SwipeSpec{Direction: c.dir, Trigger: trigger}) {
		return nil
	}
	t.stats.Emitted++
	return []Swipe{{
		ContactID:    c.id,
		Direction:    c.dir,
		Trigger:      trigger,
		Displacement: c.displacement(),
		Elapsed:      c.elapsed(),
		Time:         at,
	}}
}

func (t *Tracker) drop(s Sample, reason string) {
	t.stats.Dropped++
	monitoring.Debugf("gesture: dropped %s sample for contact %d: %s", s.Phase, s.ID, reason)
}

// Run reads samples from in until ctx is done or in is closed, passing
// every resulting swipe to emit in order.
func (t *Tracker) Run(ctx context.Context, in <-chan Sample, specs *SpecSet, emit func(Swipe)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-in:
			if !ok {
				return nil
			}
			for _, sw := range t.Detect(s, specs) {
				emit(sw)
			}
		}
	}
}

// Active returns the number of live contacts.
func (t *Tracker) Active() int { return t.contacts.len() }

// Stats returns a snapshot of the tracker counters.
func (t *Tracker) Stats() Stats { return t.stats }

// Config returns the tracker configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Reset forgets every live contact and zeroes the counters.
func (t *Tracker) Reset() {
	t.contacts.reset()
	t.stats = Stats{}
}
