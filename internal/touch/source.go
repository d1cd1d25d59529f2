package touch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/monitoring"
	"github.com/banshee-data/inky2048/internal/serialmux"
	"github.com/banshee-data/inky2048/internal/timeutil"
)

// Source produces samples in arrival order until ctx is done or input
// ends. Run returns nil on a clean end of input.
type Source interface {
	Run(ctx context.Context, out chan<- gesture.Sample) error
}

func send(ctx context.Context, out chan<- gesture.Sample, s gesture.Sample) error {
	select {
	case out <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EvdevSource reads a Linux multitouch input device.
type EvdevSource struct {
	Path    string
	Options Options
	// Grab requests exclusive access to the device.
	Grab bool
}

func (e *EvdevSource) Run(ctx context.Context, out chan<- gesture.Sample) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return fmt.Errorf("open touch device: %w", err)
	}
	defer f.Close()

	if e.Grab {
		if err := Grab(f.Fd()); err != nil {
			monitoring.Logf("touch: could not grab %s: %v", e.Path, err)
		}
	}
	opts := e.Options
	if opts.MaxX == 0 {
		if v, err := AxisMax(f.Fd(), ABS_MT_POSITION_X); err == nil {
			opts.MaxX = v
		}
	}
	if opts.MaxY == 0 {
		if v, err := AxisMax(f.Fd(), ABS_MT_POSITION_Y); err == nil {
			opts.MaxY = v
		}
	}
	monitoring.Logf("touch: reading %s", e.Path)

	// Closing the file unblocks the pending read on cancellation.
	stop := context.AfterFunc(ctx, func() { f.Close() })
	defer stop()

	return decode(ctx, f, opts, out)
}

// decode feeds events from r through a Decoder until r is exhausted.
func decode(ctx context.Context, r io.Reader, opts Options, out chan<- gesture.Sample) error {
	dec := NewDecoder(opts)
	br := bufio.NewReader(r)
	for {
		ev, err := ReadEvent(br, opts.Compact)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read touch event: %w", err)
		}
		for _, s := range dec.Feed(ev) {
			if err := send(ctx, out, s); err != nil {
				return err
			}
		}
	}
}

// ReplaySource plays back a line protocol stream, typically a fixture
// file in dev mode.
type ReplaySource struct {
	Path   string
	Reader io.Reader // used instead of Path when set
	Clock  timeutil.Clock
	// Pace waits between timestamped samples so playback runs at the
	// recorded speed.
	Pace bool
}

func (p *ReplaySource) Run(ctx context.Context, out chan<- gesture.Sample) error {
	r := p.Reader
	if r == nil {
		f, err := os.Open(p.Path)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer f.Close()
		r = f
	}
	clock := p.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	base := clock.Now()
	var last time.Time
	scan := bufio.NewScanner(r)
	lineNo := 0
	for scan.Scan() {
		lineNo++
		s, ok, err := ParseLine(scan.Text(), base)
		if err != nil {
			monitoring.Logf("touch: %s:%d: %v", p.name(), lineNo, err)
			continue
		}
		if !ok {
			continue
		}
		if p.Pace && !s.Time.IsZero() {
			if !last.IsZero() && s.Time.After(last) {
				select {
				case <-clock.After(s.Time.Sub(last)):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			last = s.Time
		}
		if err := send(ctx, out, s); err != nil {
			return err
		}
	}
	return scan.Err()
}

func (p *ReplaySource) name() string {
	if p.Reader != nil || p.Path == "" {
		return "replay"
	}
	return p.Path
}

// SerialSource reads the line protocol from a serial touch bridge.
type SerialSource struct {
	Mux   serialmux.SerialMuxInterface
	Clock timeutil.Clock
}

func (s *SerialSource) Run(ctx context.Context, out chan<- gesture.Sample) error {
	clock := s.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	id, lines := s.Mux.Subscribe()
	defer s.Mux.Unsubscribe(id)

	base := clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			sample, ok, err := ParseLine(line, base)
			if err != nil {
				monitoring.Debugf("touch: serial: %v", err)
				continue
			}
			if !ok {
				continue
			}
			if err := send(ctx, out, sample); err != nil {
				return err
			}
		}
	}
}

var (
	_ Source = (*EvdevSource)(nil)
	_ Source = (*ReplaySource)(nil)
	_ Source = (*SerialSource)(nil)
)
