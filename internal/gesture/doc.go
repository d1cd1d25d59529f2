// Package gesture turns per-finger touch samples into directional swipe
// events.
//
// Responsibilities: per-contact state (origin, last position, start time),
// dominant-axis classification with distance and duration thresholds,
// direction locking once a contact crosses the distance threshold, and
// filtering of results against the caller's requested (Direction, Trigger)
// pairs.
//
// A Tracker consumes one Sample at a time from a single goroutine. It holds
// no locks; producers on other goroutines hand samples over through one
// ordered channel (see Tracker.Run).
package gesture
