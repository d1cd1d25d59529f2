package gesture

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnsupportedTrigger = errors.New("unsupported swipe trigger")
	ErrUnknownDirection   = errors.New("unknown swipe direction")
)

// SpecSet is an immutable set of requested (Direction, Trigger) pairs.
// A nil *SpecSet requests nothing.
type SpecSet struct {
	specs    map[SwipeSpec]struct{}
	triggers [numTriggers]bool
}

// NewSpecSet validates and collects the given specs. Duplicates are
// collapsed. The Started trigger is rejected with ErrUnsupportedTrigger.
func NewSpecSet(specs ...SwipeSpec) (*SpecSet, error) {
	s := &SpecSet{specs: make(map[SwipeSpec]struct{}, len(specs))}
	for _, spec := range specs {
		if !spec.Direction.valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(spec.Direction))
		}
		switch spec.Trigger {
		case InProgress, Completed:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedTrigger, spec.Trigger)
		}
		s.specs[spec] = struct{}{}
		s.triggers[spec.Trigger] = true
	}
	return s, nil
}

// MustSpecSet is NewSpecSet for static configuration; it panics on error.
func MustSpecSet(specs ...SwipeSpec) *SpecSet {
	s, err := NewSpecSet(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// AllDirections returns one spec per direction for the given trigger.
func AllDirections(trigger Trigger) []SwipeSpec {
	out := make([]SwipeSpec, 0, numDirections)
	for d := Direction(0); d < numDirections; d++ {
		out = append(out, SwipeSpec{Direction: d, Trigger: trigger})
	}
	return out
}

// Contains reports whether spec was requested.
func (s *SpecSet) Contains(spec SwipeSpec) bool {
	if s == nil {
		return false
	}
	_, ok := s.specs[spec]
	return ok
}

// Wants reports whether any direction was requested for trigger.
func (s *SpecSet) Wants(trigger Trigger) bool {
	if s == nil || trigger < 0 || trigger >= numTriggers {
		return false
	}
	return s.triggers[trigger]
}

// Specs returns the set's members ordered by trigger, then direction.
func (s *SpecSet) Specs() []SwipeSpec {
	if s == nil {
		return nil
	}
	out := make([]SwipeSpec, 0, len(s.specs))
	for spec := range s.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trigger != out[j].Trigger {
			return out[i].Trigger < out[j].Trigger
		}
		return out[i].Direction < out[j].Direction
	})
	return out
}
