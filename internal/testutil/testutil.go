// Package testutil provides shared test utilities and fixtures.
//
// This package centralises sample-sequence builders so gesture, touch and
// game tests describe strokes the same way.
package testutil

import (
	"sort"
	"testing"
	"time"

	"github.com/banshee-data/inky2048/internal/gesture"
)

// Epoch is a fixed reference time for deterministic sample timestamps.
var Epoch = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

// Stroke builds one finger's Down, moves Moving samples evenly spaced
// between from and to, and a final Up at to. Sample i is stamped
// start + i*step.
func Stroke(id int32, from, to gesture.Point, moves int, start time.Time, step time.Duration) []gesture.Sample {
	out := make([]gesture.Sample, 0, moves+2)
	out = append(out, gesture.Sample{ID: id, Pos: from, Phase: gesture.PhaseDown, Time: start})
	for i := 1; i <= moves; i++ {
		f := float64(i) / float64(moves+1)
		out = append(out, gesture.Sample{
			ID:    id,
			Pos:   gesture.Point{X: from.X + (to.X-from.X)*f, Y: from.Y + (to.Y-from.Y)*f},
			Phase: gesture.PhaseMoving,
			Time:  start.Add(time.Duration(i) * step),
		})
	}
	out = append(out, gesture.Sample{
		ID:    id,
		Pos:   to,
		Phase: gesture.PhaseUp,
		Time:  start.Add(time.Duration(moves+1) * step),
	})
	return out
}

// Interleave merges several sample streams by timestamp. Samples with equal
// timestamps keep the order of the streams they came from.
func Interleave(streams ...[]gesture.Sample) []gesture.Sample {
	var out []gesture.Sample
	for _, s := range streams {
		out = append(out, s...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// DetectAll feeds samples through tr in order and collects every swipe.
func DetectAll(tr *gesture.Tracker, samples []gesture.Sample, specs *gesture.SpecSet) []gesture.Swipe {
	var out []gesture.Swipe
	for _, s := range samples {
		out = append(out, tr.Detect(s, specs)...)
	}
	return out
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
